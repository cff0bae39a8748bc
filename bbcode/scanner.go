package bbcode

import (
	"strings"
	"unicode"
)

// Scanner is a bounds-checked cursor over the raw text.
//
// It reads characters in [0, end) and moves in [start, end). Advancing past
// the end puts the Scanner into the "ended" state, after which [Scanner.Advance]
// is a no-op and [Scanner.Peek] returns [ErrOutOfRange].
type Scanner struct {
	text  []rune
	cur   int
	end   int
	ended bool
}

// NewScanner creates a Scanner over the entire text.
func NewScanner(text []rune) *Scanner {
	s := &Scanner{text: text}
	s.Reset(0, len(text))
	return s
}

// Reset moves the cursor to start and bounds the Scanner by end.
// Both values are clamped to the text.
func (s *Scanner) Reset(start, end int) {
	end = min(max(end, 0), len(s.text))
	start = min(max(start, 0), end)

	s.cur = start
	s.end = end
	s.ended = start >= end
}

// End returns the exclusive bound of the Scanner.
func (s *Scanner) End() int {
	return s.end
}

// Ended reports whether the cursor went past the last readable character.
func (s *Scanner) Ended() bool {
	return s.ended
}

// Current returns the cursor position. It equals [Scanner.End] once the Scanner has ended.
func (s *Scanner) Current() int {
	return s.cur
}

// Seek moves the cursor to i. Seeking to or past the end ends the Scanner.
func (s *Scanner) Seek(i int) {
	if i >= s.end {
		s.cur = s.end
		s.ended = true
		return
	}

	s.cur = max(i, 0)
	s.ended = false
}

// Advance moves the cursor one character forward.
// It returns false when the cursor reaches the end or the Scanner has already ended.
func (s *Scanner) Advance() bool {
	if s.ended {
		return false
	}

	s.cur++
	if s.cur >= s.end {
		s.cur = s.end
		s.ended = true
		return false
	}

	return true
}

// Peek returns the character under the cursor.
func (s *Scanner) Peek() (rune, error) {
	if s.ended {
		return 0, newOutOfRangeError(s.cur, s.end)
	}

	return s.text[s.cur], nil
}

// PeekAt returns the character at i.
func (s *Scanner) PeekAt(i int) (rune, error) {
	if i < 0 || i >= s.end {
		return 0, newOutOfRangeError(i, s.end)
	}

	return s.text[i], nil
}

// IsAnyOf reports whether the character under the cursor is one of the characters in set.
func (s *Scanner) IsAnyOf(set string) bool {
	return s.IsAnyOfAt(s.cur, set)
}

// IsAnyOfAt reports whether the character at i is one of the characters in set.
// Positions outside of the Scanner bounds never match.
func (s *Scanner) IsAnyOfAt(i int, set string) bool {
	if i < 0 || i >= s.end {
		return false
	}

	return strings.ContainsRune(set, s.text[i])
}

// IsWhitespace reports whether the character under the cursor is a whitespace.
func (s *Scanner) IsWhitespace() bool {
	return s.IsWhitespaceAt(s.cur)
}

// IsWhitespaceAt reports whether the character at i is a whitespace.
func (s *Scanner) IsWhitespaceAt(i int) bool {
	if i < 0 || i >= s.end {
		return false
	}

	return unicode.IsSpace(s.text[i])
}

// SkipWhile advances while pred holds for the character under the cursor.
// It returns false if the Scanner ended before pred failed.
func (s *Scanner) SkipWhile(pred func(r rune) bool) bool {
	for !s.ended {
		if !pred(s.text[s.cur]) {
			return true
		}
		s.Advance()
	}

	return false
}

// SkipToAnyOf advances to the next character contained in set.
// It returns false if no such character is found before the end.
func (s *Scanner) SkipToAnyOf(set string) bool {
	return s.SkipWhile(func(r rune) bool {
		return !strings.ContainsRune(set, r)
	})
}

// SkipToLiteral moves the cursor to the start of the next occurrence of lit.
// If lit is not found before the end, the cursor does not move and false is returned.
func (s *Scanner) SkipToLiteral(lit string) bool {
	i := s.IndexLiteral(lit)
	if i < 0 {
		return false
	}

	s.Seek(i)
	return true
}

// IndexLiteral returns the position of the next occurrence of lit, starting from the cursor,
// or -1 if lit does not fit in the rest of the range.
func (s *Scanner) IndexLiteral(lit string) int {
	needle := []rune(lit)
	if s.ended || len(needle) == 0 {
		return -1
	}

	last := s.end - len(needle)

outer:
	for i := s.cur; i <= last; i++ {
		for j, r := range needle {
			if s.text[i+j] != r {
				continue outer
			}
		}
		return i
	}

	return -1
}

// Slice returns the text in [a, b), clamped to the Scanner bounds.
func (s *Scanner) Slice(a, b int) string {
	a = min(max(a, 0), s.end)
	b = min(max(b, a), s.end)
	return string(s.text[a:b])
}
