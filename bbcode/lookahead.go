package bbcode

import (
	"errors"
	"slices"
)

// tagNesting is how an opening tag affects the nesting seen by the lookahead.
type tagNesting uint8

const (
	// nestNone tags leave no item open: conversions, unknown and void tags.
	nestNone tagNesting = iota

	// nestItem tags open an item which stays open until its closing tag.
	nestItem

	// nestGreedy tags take their content raw, up to the closing tag.
	nestGreedy

	// nestGrasping tags are greedy, and take the rest of the text when the closing tag is missing.
	nestGrasping
)

// lookahead checks whether an opening tag can be accepted before any item is built for it.
type lookahead struct {
	text   []rune
	limits Limits

	// nesting classifies the opening tags. A nil func treats every tag as [nestItem].
	nesting func(tag string) tagNesting
}

func (l lookahead) classify(tag string) tagNesting {
	if l.nesting == nil {
		return nestItem
	}
	return l.nesting(tag)
}

// checkClosable scans [from, end) for the closing tag of name.
//
// Opening tags of items increase the nesting depth and closing tags decrease it. The raw
// content of greedy tags is skipped together with their closing tag. At depth zero:
//   - a closing tag with the same name accepts the tag;
//   - a closing tag of one of the open ancestors rejects it, since the tag would
//     outlive its parent;
//   - any other closing tag is stray and is skipped.
//
// Reaching the end of the range or [Limits.MaxLookahead] accepts the tag as implicitly closed.
func (l lookahead) checkClosable(name string, from, end int, ancestors []string) bool {
	if l.limits.MaxLookahead > 0 {
		end = min(end, from+l.limits.MaxLookahead)
	}

	sc := NewScanner(l.text)
	sc.Reset(from, end)

	depth := 0

	for sc.SkipToAnyOf("[") {
		pos := sc.Current()

		tok, err := parseTag(sc, l.limits)
		if err != nil {
			if errors.Is(err, ErrUnterminatedTag) {
				break
			}
			sc.Seek(pos + 1)
			continue
		}

		if !tok.closing {
			switch nest := l.classify(tok.name); nest {
			case nestItem:
				depth++
			case nestGreedy, nestGrasping:
				lit := "[/" + tok.name + "]"
				if i := sc.IndexLiteral(lit); i >= 0 {
					sc.Seek(i + len(lit))
					continue
				}
				if nest == nestGrasping {
					// the rest of the text is raw content
					return true
				}
				depth++
			}
			continue
		}

		if depth > 0 {
			depth--
			continue
		}

		if tok.name == name {
			return true
		}

		if slices.Contains(ancestors, tok.name) {
			return false
		}
	}

	return true
}
