// Package scanner extracts candidate text tokens from binary profiler dumps.
//
// The dumps are protobuf-encoded but their schema is not assumed. Instead a
// handful of heuristics pull printable strings out of the raw bytes. None of
// them fail on malformed input: they stop early or skip the offending byte.
package scanner

import (
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/flowingfluidsfixes/sparkcli/pkg/iter"
)

type Strategy string

const (
	// StrategyPrintable emits maximal runs of printable ASCII bytes.
	StrategyPrintable Strategy = "printable"
	// StrategyTagged walks the buffer as tag/value protobuf records and
	// emits length-delimited payloads.
	StrategyTagged Strategy = "tagged"
	// StrategyPrefixed probes every offset for a varint length prefix.
	StrategyPrefixed Strategy = "prefixed"
	// StrategyFixed32 probes for big-endian uint32 length prefixes.
	StrategyFixed32 Strategy = "fixed32"
	// StrategyIdentifiers emits identifier-shaped substrings.
	StrategyIdentifiers Strategy = "identifiers"
	// StrategyLines splits the buffer on newlines.
	StrategyLines Strategy = "lines"
)

// Strategies lists every known strategy.
var Strategies = []Strategy{
	StrategyPrintable,
	StrategyTagged,
	StrategyPrefixed,
	StrategyFixed32,
	StrategyIdentifiers,
	StrategyLines,
}

// Combined lists the strategies merged by a combined scan, in order. Lines
// are left out: every printable run is already part of some line.
var Combined = []Strategy{
	StrategyPrintable,
	StrategyTagged,
	StrategyPrefixed,
	StrategyFixed32,
	StrategyIdentifiers,
}

func ParseStrategy(s string) (Strategy, error) {
	for _, st := range Strategies {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", errors.Errorf("unknown strategy %q", s)
}

func StrategyNames() []string {
	names := make([]string, len(Strategies))
	for i, st := range Strategies {
		names[i] = string(st)
	}
	return names
}

// ResyncPolicy controls what the tagged decoder does after a decode error.
type ResyncPolicy string

const (
	// ResyncAbort ends the pass at the failing offset.
	ResyncAbort ResyncPolicy = "abort"
	// ResyncSkipByte moves one byte past the failing offset and resumes.
	ResyncSkipByte ResyncPolicy = "skip-byte"
	// ResyncSkipMalformed skips a byte after a malformed value but ends the
	// pass on an unknown wire type.
	ResyncSkipMalformed ResyncPolicy = "skip-malformed"
)

// ResyncPolicies lists every known policy.
var ResyncPolicies = []ResyncPolicy{ResyncAbort, ResyncSkipByte, ResyncSkipMalformed}

func (p ResyncPolicy) skips(err error) bool {
	switch p {
	case ResyncSkipByte:
		return true
	case ResyncSkipMalformed:
		return !errors.Is(err, ErrUnknownWireType)
	}
	return false
}

const (
	DefaultMinLength      = 4
	DefaultMaxFieldLength = 1000

	fixed32Window = 10
)

type Options struct {
	// MinLength is the shortest token, in runes, that is emitted.
	MinLength int
	// MaxFieldLength bounds the payload of the length-prefixed sweeps.
	MaxFieldLength int
	Resync         ResyncPolicy
}

func DefaultOptions() Options {
	return Options{
		MinLength:      DefaultMinLength,
		MaxFieldLength: DefaultMaxFieldLength,
		Resync:         ResyncAbort,
	}
}

func (o Options) Validate() error {
	if o.MinLength < 1 {
		return errors.Errorf("min length must be positive, got %d", o.MinLength)
	}
	if o.MaxFieldLength < 1 {
		return errors.Errorf("max field length must be positive, got %d", o.MaxFieldLength)
	}
	if !slices.Contains(ResyncPolicies, o.Resync) {
		return errors.Errorf("unknown resync policy %q", o.Resync)
	}
	return nil
}

type Token struct {
	Text     string
	Offset   int
	Strategy Strategy
}

// Stop records where and why a tagged pass ended before the end of input.
type Stop struct {
	Offset int
	Err    error
}

// Scanner produces tokens from an immutable buffer. Tokens can be called
// any number of times; each call starts a fresh pass. A Scanner is not safe
// for concurrent use.
type Scanner struct {
	buf      []byte
	strategy Strategy
	opts     Options

	stop     *Stop
	resynced int
}

func New(buf []byte, strategy Strategy, opts Options) (*Scanner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	return &Scanner{buf: buf, strategy: strategy, opts: opts}, nil
}

func (s *Scanner) Strategy() Strategy { return s.strategy }

// Stopped returns the early stop of the most recent tagged pass, or nil if
// it reached the end of input.
func (s *Scanner) Stopped() *Stop { return s.stop }

// Resynced returns how many decode errors the most recent tagged pass
// skipped over.
func (s *Scanner) Resynced() int { return s.resynced }

func (s *Scanner) Tokens() iter.Iterator[Token] {
	s.stop = nil
	s.resynced = 0
	switch s.strategy {
	case StrategyPrintable:
		return iter.NewFuncIterator(s.printable())
	case StrategyTagged:
		return iter.NewFuncIterator(s.tagged())
	case StrategyPrefixed:
		return iter.NewFuncIterator(s.prefixed())
	case StrategyFixed32:
		return iter.NewFuncIterator(s.fixed32())
	case StrategyIdentifiers:
		return iter.NewFuncIterator(s.identifiers())
	case StrategyLines:
		return iter.NewSliceIterator(s.lines())
	}
	return iter.NewErrIterator[Token](errors.Errorf("unknown strategy %q", s.strategy))
}

func (s *Scanner) All() ([]Token, error) {
	return iter.Slice(s.Tokens())
}

// Collect runs each strategy over buf and concatenates their tokens.
func Collect(buf []byte, strategies []Strategy, opts Options) ([]Token, error) {
	its := make([]iter.Iterator[Token], 0, len(strategies))
	for _, st := range strategies {
		sc, err := New(buf, st, opts)
		if err != nil {
			return nil, err
		}
		its = append(its, sc.Tokens())
	}
	return iter.Slice(iter.Concat(its...))
}

func Texts(tokens []Token) []string {
	res := make([]string, len(tokens))
	for i, t := range tokens {
		res[i] = t.Text
	}
	return res
}
