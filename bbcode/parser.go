package bbcode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/Drolfothesgnir/bbtext/resource"
)

// ParserOption is a decorator function which allows to configure the [Parser].
type ParserOption func(p *Parser)

// WithLoader sets the loader used by the constructors for fonts and textures.
// Without a loader all the resources are empty.
func WithLoader(l resource.Loader) ParserOption {
	return func(p *Parser) {
		p.loader = l
	}
}

func WithDefaults(d Defaults) ParserOption {
	return func(p *Parser) {
		p.defaults = d
	}
}

func WithLogger(l zerolog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = l
	}
}

func WithLimits(l Limits) ParserOption {
	return func(p *Parser) {
		p.limits = l
	}
}

func WithListener(l Listener) ParserOption {
	return func(p *Parser) {
		p.b.listeners = append(p.b.listeners, l)
	}
}

// WithWarnings sets the overflow policy and the capacity of the recorded warnings.
func WithWarnings(policy WarningOverflowPolicy, cap int) ParserOption {
	return func(p *Parser) {
		p.warnPolicy = policy
		p.warnCap = cap
	}
}

// Parser turns the markup into an item [Tree] and a plain-text projection.
//
// The text can be given at once with [Parser.Parse] or streamed with [Parser.Append].
// Items left open at the end of a pass stay open, so the streamed text continues
// inside them. [Parser.Finish] closes them.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	reg      *Registry
	loader   resource.Loader
	defaults Defaults
	logger   zerolog.Logger
	limits   Limits

	warnPolicy WarningOverflowPolicy
	warnCap    int
	warnings   Warnings

	raw    []rune
	parsed strings.Builder
	tree   Tree
	b      builder

	// pending is the text run not yet attached to the tree. It covers
	// [pendingStart, pendingEnd) of the raw text.
	pending      strings.Builder
	pendingStart int
	pendingEnd   int

	// lastTagEnd is the end of the already consumed raw text.
	lastTagEnd int

	running bool

	extentValid bool
	width       int
	height      int
}

// New creates a Parser resolving the tags with reg.
func New(reg *Registry, opts ...ParserOption) (*Parser, error) {
	if reg == nil {
		return nil, errors.New("registry is nil")
	}

	p := &Parser{
		reg:          reg,
		defaults:     NewDefaults(),
		logger:       zerolog.Nop(),
		limits:       DefaultLimits(),
		warnPolicy:   WarnOverflowTrunc,
		warnCap:      DefaultMaxWarnings,
		tree:         newTree(),
		pendingStart: -1,
	}
	p.b.tree = &p.tree

	for _, opt := range opts {
		opt(p)
	}

	if err := p.limits.Validate(); err != nil {
		return nil, err
	}

	warns, err := NewWarnings(p.warnPolicy, p.warnCap)
	if err != nil {
		return nil, err
	}
	p.warnings = warns

	p.b.reset(NewDrawCursor(p.defaults))
	return p, nil
}

// AddListener subscribes l to the structural events.
func (p *Parser) AddListener(l Listener) {
	p.b.listeners = append(p.b.listeners, l)
}

// Parse replaces the document with text. It is the same as [Parser.Clear] followed by [Parser.Append].
func (p *Parser) Parse(text string) error {
	if err := p.Clear(); err != nil {
		return err
	}
	return p.Append(text)
}

// Append adds text to the document and parses only the added part.
//
// Tags spanning the boundary between the old and the new text are not detected:
// the part of such a tag already parsed stays plain text.
func (p *Parser) Append(text string) error {
	if p.running {
		return NewError(IssueReentrantParse, ErrReentrantParse)
	}

	p.running = true
	defer func() { p.running = false }()

	from := len(p.raw)
	p.raw = append(p.raw, []rune(text)...)
	p.extentValid = false

	err := p.parseRange(from, len(p.raw))

	root := p.tree.Root()
	root.ContentStart = 0
	root.ContentEnd = len(p.raw)

	return err
}

// Clear forgets the document: the raw and parsed text, the tree and the warnings.
func (p *Parser) Clear() error {
	if p.running {
		return NewError(IssueReentrantParse, ErrReentrantParse)
	}

	p.raw = p.raw[:0]
	p.parsed.Reset()
	p.tree.reset()
	p.b.reset(NewDrawCursor(p.defaults))
	p.warnings.Reset()
	p.resetPending()
	p.lastTagEnd = 0
	p.extentValid = false
	p.width, p.height = 0, 0
	return nil
}

// Finish closes all the open items, innermost first. Their closing tag offsets stay unset.
func (p *Parser) Finish() error {
	if p.running {
		return NewError(IssueReentrantParse, ErrReentrantParse)
	}

	for p.b.depth() > 0 {
		id, err := p.b.pop()
		if err != nil {
			return err
		}

		it := p.tree.Item(id)
		if it.ContentEnd < 0 {
			it.ContentEnd = len(p.raw)
		}
	}

	return nil
}

// RawText returns the markup given so far.
func (p *Parser) RawText() string {
	return string(p.raw)
}

// ParsedText returns the plain-text projection: tags stripped, conversions applied and
// the content of self-contained items excluded.
func (p *Parser) ParsedText() string {
	return p.parsed.String()
}

// Tree returns the item tree. It's owned by the Parser and changes with every parse.
func (p *Parser) Tree() *Tree {
	return &p.tree
}

// Warnings returns the problems recovered since the last [Parser.Clear].
func (p *Parser) Warnings() []Warning {
	return p.warnings.List()
}

// CurrentItem returns the innermost open item, or [RootID].
func (p *Parser) CurrentItem() ItemID {
	return p.b.current()
}

// Push opens a programmatically built item inside the current one.
func (p *Parser) Push(it *Item) (ItemID, error) {
	if p.running {
		return NoItem, NewError(IssueReentrantParse, ErrReentrantParse)
	}
	p.flushText()
	return p.b.push(it), nil
}

// Pop closes the current item. It returns [ErrEmptyStack] if no item is open.
func (p *Parser) Pop() error {
	if p.running {
		return NewError(IssueReentrantParse, ErrReentrantParse)
	}
	_, err := p.b.pop()
	return err
}

// PopExpected closes the current item only if it was opened by the tag.
// On mismatch nothing changes and false is returned.
func (p *Parser) PopExpected(tag string) (bool, error) {
	if p.running {
		return false, NewError(IssueReentrantParse, ErrReentrantParse)
	}
	return p.b.popExpected(tag)
}

// Width returns the display width of the widest line of the parsed text, in terminal cells.
func (p *Parser) Width() int {
	p.measure()
	return p.width
}

// Height returns the number of lines of the parsed text.
func (p *Parser) Height() int {
	p.measure()
	return p.height
}

func (p *Parser) measure() {
	if p.extentValid {
		return
	}

	p.width, p.height = 0, 0
	if text := p.parsed.String(); text != "" {
		for line := range strings.SplitSeq(text, "\n") {
			p.width = max(p.width, runewidth.StringWidth(line))
			p.height++
		}
	}

	p.extentValid = true
}

// Serialize returns the document ready for JSON encoding.
func (p *Parser) Serialize() SerializableDocument {
	warns := p.warnings.List()
	if warns == nil {
		warns = []Warning{}
	}

	return SerializableDocument{
		Tree:       p.tree.Serialize(),
		ParsedText: p.ParsedText(),
		Width:      p.Width(),
		Height:     p.Height(),
		Warnings:   warns,
	}
}

func (p *Parser) warn(issue Issue, pos int, desc string) {
	p.warnings.Add(Warning{Issue: issue, Pos: pos, Description: desc})
	p.logger.Debug().Stringer("issue", issue).Int("pos", pos).Msg(desc)
}

func (p *Parser) warnErr(pos int, err error) {
	issue := IssueMalformedTag

	var e *Error
	if errors.As(err, &e) {
		issue = e.Issue
	}

	p.warn(issue, pos, err.Error())
}

// parseRange runs a single parse pass over [start, end) of the raw text.
func (p *Parser) parseRange(start, end int) error {
	sc := NewScanner(p.raw)
	sc.Reset(start, end)
	p.lastTagEnd = start

	if err := p.scan(sc); err != nil {
		p.warnErr(sc.Current(), err)
		p.logger.Error().Err(err).Int("pos", sc.Current()).Msg("parse pass truncated")
		p.flushText()
		return err
	}

	p.addRun(sc, p.lastTagEnd, end)
	p.flushText()
	return nil
}

// scan is the main loop of the pass. It returns only the errors which break the pass.
func (p *Parser) scan(sc *Scanner) error {
	for sc.SkipToAnyOf("[") {
		tagStart := sc.Current()

		tok, err := parseTag(sc, p.limits)
		if err != nil {
			p.warnErr(tagStart, err)
			if errors.Is(err, ErrUnterminatedTag) {
				return nil
			}
			sc.Seek(tagStart + 1)
			continue
		}

		if tok.closing {
			err = p.closeTag(sc, tok)
		} else {
			err = p.openTag(sc, tok)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (p *Parser) closeTag(sc *Scanner, tok tagToken) error {
	cur := p.b.current()
	if cur == RootID || p.tree.Item(cur).TagName != tok.name {
		p.warn(IssueMismatchedCloseTag, tok.start, fmt.Sprintf("closing tag %q does not match the open item", tok.name))
		sc.Seek(tok.start + 1)
		return nil
	}

	p.addRun(sc, p.lastTagEnd, tok.start)
	p.flushText()

	it := p.tree.Item(cur)
	it.EndTagStart, it.EndTagEnd = tok.start, tok.end
	it.ContentEnd = tok.start
	p.lastTagEnd = tok.end

	_, err := p.b.pop()
	return err
}

// greedyMatch is the raw content of a greedy tag. closeStart is -1 when
// a grasping tag took the rest of the range.
type greedyMatch struct {
	found        bool
	contentStart int
	contentEnd   int
	closeStart   int
	closeEnd     int
}

func (p *Parser) matchGreedy(sc *Scanner, tok tagToken, greed Greed) greedyMatch {
	lit := "[/" + tok.name + "]"

	if i := sc.IndexLiteral(lit); i >= 0 {
		return greedyMatch{
			found:        true,
			contentStart: tok.end,
			contentEnd:   i,
			closeStart:   i,
			closeEnd:     i + len(lit),
		}
	}

	if greed == Grasping {
		return greedyMatch{
			found:        true,
			contentStart: tok.end,
			contentEnd:   sc.End(),
			closeStart:   -1,
			closeEnd:     -1,
		}
	}

	return greedyMatch{}
}

func (p *Parser) newTagContext(tok tagToken) *TagContext {
	return &TagContext{
		Tag:           tok.name,
		Data:          tok.data,
		HasData:       tok.hasData,
		Options:       tok.options,
		StartTagStart: tok.start,
		StartTagEnd:   tok.end,
		Cursor:        p.b.cursor.Clone(),
		ContentStart:  -1,
		ContentEnd:    -1,
		Loader:        p.loader,
		Defaults:      p.defaults,
		Logger:        p.logger,
		warnings:      &p.warnings,
	}
}

func (p *Parser) openTag(sc *Scanner, tok tagToken) error {
	tc := p.newTagContext(tok)

	entry, hasEntry := p.reg.Entry(tok.name)
	void := hasEntry && entry.Void

	var greedy greedyMatch
	if hasEntry && entry.Greed > NonGreedy && !void {
		greedy = p.matchGreedy(sc, tok, entry.Greed)
		if greedy.found {
			tc.HasContent = true
			tc.ContentStart = greedy.contentStart
			tc.ContentEnd = greedy.contentEnd
			tc.Content = sc.Slice(greedy.contentStart, greedy.contentEnd)
		} else {
			p.warn(IssueUnclosedGreedyTag, tok.start, fmt.Sprintf("greedy tag %q has no closing tag", tok.name))
		}
	}

	// the nesting is checked before anything is built for the tag
	if !greedy.found && p.reg.nesting(tok.name) != nestNone {
		la := lookahead{
			text:    p.raw,
			limits:  p.limits,
			nesting: p.reg.nesting,
		}
		if !la.checkClosable(tok.name, tok.end, sc.End(), p.b.openTags()) {
			p.warn(IssueMisnestedTag, tok.start, fmt.Sprintf("tag %q would be closed outside of its parent", tok.name))
			sc.Seek(tok.start + 1)
			return nil
		}
	}

	res := p.reg.Resolve(tc)

	switch res.Kind {
	case ResolvedNone:
		p.warn(IssueUnknownTag, tok.start, fmt.Sprintf("tag %q is not registered", tok.name))
		sc.Seek(tok.start + 1)
		return nil

	case ResolvedText:
		p.addRun(sc, p.lastTagEnd, tok.start)
		p.addConverted(res.Text, tok.start, tok.end)
		p.lastTagEnd = tok.end
		return nil
	}

	p.addRun(sc, p.lastTagEnd, tok.start)
	p.flushText()

	it := res.Item
	it.ContentStart = tok.end
	id := p.b.push(it)
	p.lastTagEnd = tok.end

	switch {
	case void:
		return p.closeVoid(id, tok)
	case greedy.found:
		return p.consumeGreedy(sc, id, greedy, entry.TrimNewlines)
	}

	return nil
}

// closeVoid closes the item right after its opening tag. The item text, like the
// "\n" of "[br]", goes to the parsed text.
func (p *Parser) closeVoid(id ItemID, tok tagToken) error {
	it := p.tree.Item(id)
	it.ContentEnd = tok.end

	if text := it.Text; text != "" {
		p.parsed.WriteString(text)
		for _, l := range p.b.listeners {
			l.TextAppended(&p.tree, id, text)
		}
	}

	_, err := p.b.pop()
	return err
}

// consumeGreedy attaches the raw content of a greedy tag to the just opened item.
func (p *Parser) consumeGreedy(sc *Scanner, id ItemID, m greedyMatch, trim bool) error {
	start, stop := m.contentStart, m.contentEnd

	if trim {
		if start < stop {
			r, err := sc.PeekAt(start)
			if err != nil {
				return err
			}
			if r == '\n' {
				p.newlineRemoved(start)
				start++
			}
		}

		if start < stop {
			r, err := sc.PeekAt(stop - 1)
			if err != nil {
				return err
			}
			if r == '\n' {
				stop--
				p.newlineRemoved(stop)
			}
		}
	}

	it := p.tree.Item(id)
	it.ContentStart, it.ContentEnd = start, stop

	if it.SelfContained {
		it.Text = sc.Slice(start, stop)
	} else {
		p.addRun(sc, start, stop)
		p.flushText()
	}

	if m.closeStart < 0 {
		p.lastTagEnd = m.contentEnd
		sc.Seek(m.contentEnd)
		return nil
	}

	it = p.tree.Item(id)
	it.EndTagStart, it.EndTagEnd = m.closeStart, m.closeEnd
	p.lastTagEnd = m.closeEnd
	sc.Seek(m.closeEnd)

	_, err := p.b.pop()
	return err
}

func (p *Parser) newlineRemoved(pos int) {
	for _, l := range p.b.listeners {
		l.NewlineRemoved(pos)
	}
}

// addRun adds the raw text in [a, b) to the pending text run.
func (p *Parser) addRun(sc *Scanner, a, b int) {
	if a >= b {
		return
	}

	if p.pendingStart < 0 {
		p.pendingStart = a
	}
	p.pending.WriteString(sc.Slice(a, b))
	p.pendingEnd = b
}

// addConverted adds the replacement of the conversion tag in [a, b) to the pending text run.
func (p *Parser) addConverted(text string, a, b int) {
	if p.pendingStart < 0 {
		p.pendingStart = a
	}
	p.pending.WriteString(text)
	p.pendingEnd = b
}

// flushText attaches the pending text run to the current item.
func (p *Parser) flushText() {
	if p.pending.Len() == 0 {
		p.resetPending()
		return
	}

	text := p.pending.String()
	p.b.appendText(text, p.pendingStart, p.pendingEnd)
	p.parsed.WriteString(text)
	p.extentValid = false
	p.resetPending()
}

func (p *Parser) resetPending() {
	p.pending.Reset()
	p.pendingStart = -1
	p.pendingEnd = -1
}
