package iter

type Iterator[A any] interface {
	// Next advances the iterator and returns true if another value was found.
	Next() bool

	// At returns the value at the current iterator position.
	At() A

	// Err returns the last error of the iterator.
	Err() error

	Close() error
}

type errIterator[A any] struct {
	err error
}

func NewErrIterator[A any](err error) Iterator[A] {
	return &errIterator[A]{
		err: err,
	}
}

func (i *errIterator[A]) Err() error {
	return i.err
}
func (*errIterator[A]) At() (a A) {
	return a
}
func (*errIterator[A]) Next() bool {
	return false
}

func (*errIterator[A]) Close() error {
	return nil
}

type sliceIterator[A any] struct {
	list []A
	cur  A
}

func NewSliceIterator[A any](s []A) Iterator[A] {
	return &sliceIterator[A]{
		list: s,
	}
}

func (i *sliceIterator[A]) Err() error {
	return nil
}

func (i *sliceIterator[A]) Next() bool {
	if len(i.list) > 0 {
		i.cur = i.list[0]
		i.list = i.list[1:]
		return true
	}
	var a A
	i.cur = a
	return false
}

func (i *sliceIterator[A]) At() A {
	return i.cur
}

func (i *sliceIterator[A]) Close() error {
	return nil
}

// funcIterator pulls values from a generator function until it reports
// exhaustion. Once exhausted it never calls the function again.
type funcIterator[A any] struct {
	next func() (A, bool)
	cur  A
	done bool
}

// NewFuncIterator returns an iterator backed by next. The function is
// called once per Next until it returns false.
func NewFuncIterator[A any](next func() (A, bool)) Iterator[A] {
	return &funcIterator[A]{next: next}
}

func (i *funcIterator[A]) Next() bool {
	if i.done {
		return false
	}
	v, ok := i.next()
	if !ok {
		var a A
		i.cur = a
		i.done = true
		return false
	}
	i.cur = v
	return true
}

func (i *funcIterator[A]) At() A {
	return i.cur
}

func (*funcIterator[A]) Err() error {
	return nil
}

func (i *funcIterator[A]) Close() error {
	i.done = true
	return nil
}

// Slice drains the iterator into a slice and closes it.
func Slice[A any](it Iterator[A]) ([]A, error) {
	var result []A
	defer it.Close()
	for it.Next() {
		result = append(result, it.At())
	}
	return result, it.Err()
}

// Concat yields the values of each iterator in turn.
func Concat[A any](its ...Iterator[A]) Iterator[A] {
	return &concatIterator[A]{its: its}
}

type concatIterator[A any] struct {
	its []Iterator[A]
	err error
}

func (i *concatIterator[A]) Next() bool {
	for len(i.its) > 0 {
		if i.its[0].Next() {
			return true
		}
		if err := i.its[0].Err(); err != nil {
			i.err = err
			return false
		}
		_ = i.its[0].Close()
		i.its = i.its[1:]
	}
	return false
}

func (i *concatIterator[A]) At() (a A) {
	if len(i.its) == 0 {
		return a
	}
	return i.its[0].At()
}

func (i *concatIterator[A]) Err() error {
	return i.err
}

func (i *concatIterator[A]) Close() error {
	var err error
	for _, it := range i.its {
		if cerr := it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	i.its = nil
	return err
}
