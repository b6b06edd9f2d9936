package scanner

import (
	"unicode"
	"unicode/utf8"
)

func isPrintableASCII(b byte) bool {
	return b >= 0x20 && b <= 0x7e
}

// acceptText reports whether s looks like a human-readable string: at least
// minRunes long and made of printable runes or common whitespace controls.
func acceptText(s string, minRunes int) bool {
	if utf8.RuneCountInString(s) < minRunes {
		return false
	}
	for _, r := range s {
		switch r {
		case '\n', '\r', '\t':
			continue
		}
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
