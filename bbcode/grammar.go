package bbcode

import (
	"errors"
	"fmt"
	"unicode"
)

// tagToken is a syntactically valid tag found in the raw text.
type tagToken struct {
	name    string
	closing bool

	data    string
	hasData bool
	options Options

	// start is the position of "[", end is the position right after "]".
	start int
	end   int
}

func isNameChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func isValueChar(r rune) bool {
	return r != ']' && !unicode.IsSpace(r)
}

// parseTag reads the tag starting at the "[" under the cursor.
//
// On success the cursor is right after the closing "]". On failure the cursor position
// is unspecified, and the caller decides where to resume: [ErrMalformedTag] means the
// bracket is a plain text, [ErrUnterminatedTag] means the range ended inside the tag.
func parseTag(sc *Scanner, limits Limits) (tagToken, error) {
	start, end := sc.Current(), sc.End()

	bounded := limits.MaxTagLen > 0 && start+limits.MaxTagLen < end
	if bounded {
		sc.Reset(start, start+limits.MaxTagLen)
	}

	tok, err := scanTag(sc)

	if bounded {
		sc.Reset(sc.Current(), end)
		if errors.Is(err, ErrUnterminatedTag) {
			err = NewError(
				IssueTagTooLong,
				fmt.Errorf("%w: no \"]\" within %d characters", ErrMalformedTag, limits.MaxTagLen),
			)
		}
	}

	return tok, err
}

func scanTag(sc *Scanner) (tagToken, error) {
	tok := tagToken{start: sc.Current()}

	// "["
	if !sc.Advance() {
		return tok, errUnterminated(tok.start)
	}

	if sc.IsAnyOf("/") {
		tok.closing = true
		if !sc.Advance() {
			return tok, errUnterminated(tok.start)
		}
	}

	name, err := scanName(sc, tok.start)
	if err != nil {
		return tok, err
	}
	tok.name = name

	if tok.closing {
		if !sc.IsAnyOf("]") {
			return tok, errMalformed(sc.Current(), "closing tag %q must end right after its name", name)
		}
		sc.Advance()
		tok.end = sc.Current()
		return tok, nil
	}

	if sc.IsAnyOf("=") {
		sc.Advance()
		tok.data, err = scanValue(sc, tok.start)
		if err != nil {
			return tok, err
		}
		tok.hasData = true
	}

	for {
		if !sc.SkipWhile(unicode.IsSpace) {
			return tok, errUnterminated(tok.start)
		}

		if sc.IsAnyOf("]") {
			sc.Advance()
			tok.end = sc.Current()
			return tok, nil
		}

		opt, err := scanOption(sc, tok.start)
		if err != nil {
			return tok, err
		}
		tok.options = append(tok.options, opt)
	}
}

// scanName reads the tag name or the option key under the cursor.
func scanName(sc *Scanner, tagStart int) (string, error) {
	nameStart := sc.Current()

	if !sc.SkipWhile(isNameChar) {
		return "", errUnterminated(tagStart)
	}

	if sc.Current() == nameStart {
		r, _ := sc.Peek()
		return "", errMalformed(nameStart, "unexpected %q, expected a name", r)
	}

	return sc.Slice(nameStart, sc.Current()), nil
}

func scanOption(sc *Scanner, tagStart int) (Option, error) {
	key, err := scanName(sc, tagStart)
	if err != nil {
		return Option{}, err
	}

	opt := Option{Key: key}

	switch {
	case sc.IsAnyOf("="):
		sc.Advance()
		opt.Value, err = scanValue(sc, tagStart)
		if err != nil {
			return Option{}, err
		}
	case sc.IsAnyOf("]"), sc.IsWhitespace():
		// flag option
	default:
		r, _ := sc.Peek()
		return Option{}, errMalformed(sc.Current(), "unexpected %q after option %q", r, key)
	}

	return opt, nil
}

// scanValue reads the tag data or the option value under the cursor.
// A value starting with "{" runs to the matching "}", otherwise it runs to
// a whitespace or "]". Brace payloads are returned verbatim, braces included.
func scanValue(sc *Scanner, tagStart int) (string, error) {
	valueStart := sc.Current()

	if !sc.IsAnyOf("{") {
		if !sc.SkipWhile(isValueChar) {
			return "", errUnterminated(tagStart)
		}
		return sc.Slice(valueStart, sc.Current()), nil
	}

	depth := 0
	for {
		r, err := sc.Peek()
		if err != nil {
			return "", errUnterminated(tagStart)
		}

		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}

		sc.Advance()

		if depth == 0 {
			break
		}
	}

	if sc.Ended() {
		return "", errUnterminated(tagStart)
	}

	if !sc.IsAnyOf("]") && !sc.IsWhitespace() {
		r, _ := sc.Peek()
		return "", errMalformed(sc.Current(), "unexpected %q after brace payload", r)
	}

	return sc.Slice(valueStart, sc.Current()), nil
}

func errMalformed(pos int, format string, args ...any) error {
	return NewError(
		IssueMalformedTag,
		fmt.Errorf("%w at %d: %s", ErrMalformedTag, pos, fmt.Sprintf(format, args...)),
	)
}

func errUnterminated(start int) error {
	return NewError(
		IssueUnterminatedTag,
		fmt.Errorf("%w: tag at %d reaches the end of the text", ErrUnterminatedTag, start),
	)
}
