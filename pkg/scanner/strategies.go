package scanner

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"github.com/grafana/regexp"
)

var identifierRe = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_.]*[a-zA-Z0-9_]`)

func (s *Scanner) printable() func() (Token, bool) {
	buf, pos := s.buf, 0
	return func() (Token, bool) {
		for pos < len(buf) {
			for pos < len(buf) && !isPrintableASCII(buf[pos]) {
				pos++
			}
			start := pos
			for pos < len(buf) && isPrintableASCII(buf[pos]) {
				pos++
			}
			if pos-start >= s.opts.MinLength {
				return Token{Text: string(buf[start:pos]), Offset: start, Strategy: StrategyPrintable}, true
			}
		}
		return Token{}, false
	}
}

func (s *Scanner) tagged() func() (Token, bool) {
	c := NewCursor(s.buf)
	return func() (Token, bool) {
		for {
			step := c.Next()
			switch step.Kind {
			case StepEnd:
				return Token{}, false
			case StepText:
				if acceptText(step.Text, s.opts.MinLength) {
					return Token{Text: step.Text, Offset: step.Offset, Strategy: StrategyTagged}, true
				}
			case StepError:
				if !s.opts.Resync.skips(step.Err) {
					s.stop = &Stop{Offset: step.Offset, Err: step.Err}
					return Token{}, false
				}
				s.resynced++
				c.Advance(1)
			}
		}
	}
}

// prefixed treats every offset as a potential varint length followed by a
// string. A plausible length consumes the payload whether or not the text
// is accepted; anything else advances a single byte.
func (s *Scanner) prefixed() func() (Token, bool) {
	buf, off := s.buf, 0
	return func() (Token, bool) {
		for off < len(buf) {
			start := off
			n, p, err := DecodeUvarint(buf, off)
			if err != nil || n < 1 || n > uint64(s.opts.MaxFieldLength) || n > uint64(len(buf)-p) {
				off++
				continue
			}
			off = p + int(n)
			if text := lossyString(buf[p:off]); acceptText(text, s.opts.MinLength) {
				return Token{Text: text, Offset: start, Strategy: StrategyPrefixed}, true
			}
		}
		return Token{}, false
	}
}

// fixed32 looks for a big-endian uint32 length within a small window ahead
// of the current offset.
func (s *Scanner) fixed32() func() (Token, bool) {
	buf, off := s.buf, 0
	probe := func() (Token, bool) {
		limit := min(off+fixed32Window, len(buf)-4)
		for i := off; i < limit; i++ {
			n := int(binary.BigEndian.Uint32(buf[i:]))
			if n < 1 || n > s.opts.MaxFieldLength || i+4+n > len(buf) {
				continue
			}
			off = i + 4 + n
			if text := lossyString(buf[i+4 : off]); acceptText(text, s.opts.MinLength) {
				return Token{Text: text, Offset: i, Strategy: StrategyFixed32}, true
			}
			return Token{}, false
		}
		off++
		return Token{}, false
	}
	return func() (Token, bool) {
		for off < len(buf)-4 {
			if t, ok := probe(); ok {
				return t, true
			}
		}
		return Token{}, false
	}
}

// identifiers matches directly on the raw bytes. Invalid UTF-8 never
// matches the ASCII identifier class, so malformed bytes are skipped. The
// pattern itself needs two characters; MinLength does not apply.
func (s *Scanner) identifiers() func() (Token, bool) {
	buf, pos := s.buf, 0
	return func() (Token, bool) {
		if pos >= len(buf) {
			return Token{}, false
		}
		loc := identifierRe.FindIndex(buf[pos:])
		if loc == nil {
			pos = len(buf)
			return Token{}, false
		}
		start, end := pos+loc[0], pos+loc[1]
		pos = end
		return Token{Text: string(buf[start:end]), Offset: start, Strategy: StrategyIdentifiers}, true
	}
}

// lines splits the raw buffer on '\n' and decodes each line lossily, so
// offsets point into the original bytes. Lines shorter than MinLength runes
// are dropped.
func (s *Scanner) lines() []Token {
	var (
		res []Token
		off int
	)
	for _, line := range bytes.Split(s.buf, []byte{'\n'}) {
		text := lossyString(line)
		if utf8.RuneCountInString(text) >= s.opts.MinLength {
			res = append(res, Token{Text: text, Offset: off, Strategy: StrategyLines})
		}
		off += len(line) + 1
	}
	return res
}
