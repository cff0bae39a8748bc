// Package plaintext renders the display text of a parsed document and indexes it
// for hit-testing and search.
//
// The display text follows the help-page convention: every newline of the markup
// is a paragraph break, so it's doubled, except inside monospaced items where the
// text is shown as written.
package plaintext

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Drolfothesgnir/bbtext/bbcode"
)

// Segment is a piece of the display text produced by a single item, in rune offsets.
type Segment struct {
	Item  bbcode.ItemID `json:"item"`
	Start int           `json:"start"`
	End   int           `json:"end"`
}

// Match is an occurrence of the searched text.
type Match struct {
	Pos  int           `json:"pos"`
	Item bbcode.ItemID `json:"item"`
}

// Renderer is a [bbcode.Listener] building the display text while the document is parsed.
type Renderer struct {
	sb       strings.Builder
	runes    int
	segments []Segment
	removed  int
}

var _ bbcode.Listener = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render parses text with a fresh parser subscribed to a fresh Renderer.
// All the open items are closed at the end.
func Render(reg *bbcode.Registry, text string, opts ...bbcode.ParserOption) (*Renderer, *bbcode.Parser, error) {
	r := NewRenderer()

	p, err := bbcode.New(reg, append(opts, bbcode.WithListener(r))...)
	if err != nil {
		return nil, nil, err
	}

	if err := p.Parse(text); err != nil {
		return nil, nil, err
	}

	if err := p.Finish(); err != nil {
		return nil, nil, err
	}

	return r, p, nil
}

func (r *Renderer) ItemEntered(*bbcode.Tree, bbcode.ItemID) {}

func (r *Renderer) ItemExited(*bbcode.Tree, bbcode.ItemID) {}

func (r *Renderer) TextAppended(t *bbcode.Tree, id bbcode.ItemID, text string) {
	if t.Item(id).Kind != bbcode.KindNewline && !insideMono(t, id) {
		text = strings.ReplaceAll(text, "\n", "\n\n")
	}

	n := utf8.RuneCountInString(text)
	if n == 0 {
		return
	}

	r.segments = append(r.segments, Segment{
		Item:  id,
		Start: r.runes,
		End:   r.runes + n,
	})
	r.sb.WriteString(text)
	r.runes += n
}

func (r *Renderer) NewlineRemoved(int) {
	r.removed++
}

func insideMono(t *bbcode.Tree, id bbcode.ItemID) bool {
	for ; id != bbcode.NoItem; id = t.Item(id).Parent {
		if t.Item(id).Kind == bbcode.KindMono {
			return true
		}
	}
	return false
}

// Reset forgets everything rendered so far.
func (r *Renderer) Reset() {
	r.sb.Reset()
	r.runes = 0
	r.segments = r.segments[:0]
	r.removed = 0
}

// String returns the display text.
func (r *Renderer) String() string {
	return r.sb.String()
}

// Len is the length of the display text in runes.
func (r *Renderer) Len() int {
	return r.runes
}

// RemovedNewlines is the number of newlines dropped around code blocks.
func (r *Renderer) RemovedNewlines() int {
	return r.removed
}

func (r *Renderer) Segments() []Segment {
	return r.segments
}

// ItemAt returns the item which produced the display character at pos.
func (r *Renderer) ItemAt(pos int) (bbcode.ItemID, bool) {
	i := sort.Search(len(r.segments), func(i int) bool {
		return r.segments[i].End > pos
	})

	if i == len(r.segments) || r.segments[i].Start > pos || pos < 0 {
		return bbcode.NoItem, false
	}

	return r.segments[i].Item, true
}

// Find returns all the non-overlapping occurrences of query in the display text.
func (r *Renderer) Find(query string) []Match {
	if query == "" {
		return nil
	}

	text := r.sb.String()

	var out []Match
	offset, runeOffset := 0, 0

	for {
		i := strings.Index(text[offset:], query)
		if i < 0 {
			return out
		}

		runeOffset += utf8.RuneCountInString(text[offset : offset+i])
		item, _ := r.ItemAt(runeOffset)
		out = append(out, Match{Pos: runeOffset, Item: item})

		offset += i + len(query)
		runeOffset += utf8.RuneCountInString(query)
	}
}

// Position converts the rune offset into a zero-based line and a display column,
// counting wide characters as two cells.
func (r *Renderer) Position(pos int) (line, col int) {
	text := []rune(r.sb.String())
	pos = min(max(pos, 0), len(text))

	lineStart := 0
	for i := 0; i < pos; i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	return line, runewidth.StringWidth(string(text[lineStart:pos]))
}
