package scanner

import "fmt"

// WireType is the low three bits of a protobuf-style field tag.
type WireType uint8

const (
	WireVarint  WireType = 0
	WireFixed64 WireType = 1
	WireBytes   WireType = 2
	WireFixed32 WireType = 5
)

func (w WireType) String() string {
	switch w {
	case WireVarint:
		return "varint"
	case WireFixed64:
		return "fixed64"
	case WireBytes:
		return "bytes"
	case WireFixed32:
		return "fixed32"
	}
	return fmt.Sprintf("wiretype(%d)", uint8(w))
}

type StepKind uint8

const (
	StepEnd StepKind = iota
	StepText
	StepSkip
	StepError
)

func (k StepKind) String() string {
	switch k {
	case StepEnd:
		return "end"
	case StepText:
		return "text"
	case StepSkip:
		return "skip"
	case StepError:
		return "error"
	}
	return fmt.Sprintf("stepkind(%d)", uint8(k))
}

// Step is the outcome of decoding one tagged field. Exactly one of Text,
// N or Err is meaningful depending on Kind.
type Step struct {
	Kind   StepKind
	Offset int // where the field tag starts
	Field  uint64
	Wire   WireType

	// Text is the lossily decoded payload of a length-delimited field.
	Text string
	// N is the number of bytes consumed, tag included.
	N   int
	Err error
}

// Cursor walks an immutable buffer one tagged field at a time. It never
// modifies the buffer. A failed step leaves the position unchanged so the
// caller can decide whether to Advance past it or give up.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Offset() int { return c.off }

func (c *Cursor) Remaining() int { return len(c.buf) - c.off }

// Advance moves the cursor n bytes forward, clamped to the end of input.
func (c *Cursor) Advance(n int) {
	c.off = min(c.off+n, len(c.buf))
}

// Next decodes the field at the current position.
func (c *Cursor) Next() Step {
	start := c.off
	if start >= len(c.buf) {
		return Step{Kind: StepEnd, Offset: start}
	}
	tag, p, err := DecodeUvarint(c.buf, start)
	if err != nil {
		return Step{Kind: StepError, Offset: start, Err: err}
	}
	step := Step{Offset: start, Field: tag >> 3, Wire: WireType(tag & 7)}

	var end int
	switch step.Wire {
	case WireBytes:
		var b []byte
		b, end, err = lengthDelimited(c.buf, p)
		if err == nil {
			step.Kind = StepText
			step.Text = lossyString(b)
		}
	case WireVarint:
		_, end, err = DecodeUvarint(c.buf, p)
		step.Kind = StepSkip
	case WireFixed64:
		end, err = c.fixed(p, 8)
		step.Kind = StepSkip
	case WireFixed32:
		end, err = c.fixed(p, 4)
		step.Kind = StepSkip
	default:
		err = ErrUnknownWireType
	}
	if err != nil {
		return Step{Kind: StepError, Offset: start, Field: step.Field, Wire: step.Wire, Err: err}
	}
	step.N = end - start
	c.off = end
	return step
}

func (c *Cursor) fixed(p, size int) (int, error) {
	if len(c.buf)-p < size {
		return p, ErrTruncated
	}
	return p + size, nil
}
