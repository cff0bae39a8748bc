package bbcode

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/Drolfothesgnir/bbtext/resource"
)

// Greed defines how the content of a tag is consumed.
type Greed uint8

const (
	// NonGreedy tags have their content parsed as markup.
	NonGreedy Greed = iota

	// Greedy tags consume everything up to their closing tag as raw content, markup included.
	// If the closing tag is missing, the tag is handled as a NonGreedy one.
	Greedy

	// Grasping tags behave like Greedy ones, but when the closing tag is missing,
	// the entire rest of the text becomes their content.
	Grasping
)

var greedNames = [...]string{
	NonGreedy: "non_greedy",
	Greedy:    "greedy",
	Grasping:  "grasping",
}

func (g Greed) String() string {
	if int(g) < len(greedNames) {
		return greedNames[g]
	}
	return "greed(" + strconv.Itoa(int(g)) + ")"
}

func (g Greed) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// Constructor builds the [Item] for a tag occurrence. Returning nil lets
// the registered [Handler]s try the tag.
type Constructor func(tc *TagContext) *Item

// Handler is a generic tag resolver consulted for the tags which are neither
// conversions nor resolved by a constructor. An error or an empty [Resolution]
// passes the tag to the next Handler.
type Handler func(tc *TagContext) (Resolution, error)

// HandlerID identifies a registered [Handler].
type HandlerID int

// Entry is a tag registered with a [Constructor].
type Entry struct {
	ClassName   string
	Constructor Constructor
	Greed       Greed

	// TrimNewlines drops a newline right after the opening tag and right before the closing
	// tag of a greedy content.
	TrimNewlines bool

	// Void tags have no content and no closing tag, like "[br]".
	Void bool
}

// EntryDecorator is a decorator function which allows to fill optional fields of the [Entry].
type EntryDecorator func(e *Entry)

func WithClassName(name string) EntryDecorator {
	return func(e *Entry) {
		e.ClassName = name
	}
}

func WithGreed(greed Greed) EntryDecorator {
	return func(e *Entry) {
		e.Greed = greed
	}
}

func WithNewlineTrim() EntryDecorator {
	return func(e *Entry) {
		e.TrimNewlines = true
	}
}

func WithVoid() EntryDecorator {
	return func(e *Entry) {
		e.Void = true
	}
}

type ResolutionKind int

const (
	// ResolvedNone means the tag is unknown and stays plain text.
	ResolvedNone ResolutionKind = iota

	// ResolvedText means the tag is replaced by a text, without a tree node.
	ResolvedText

	// ResolvedItem means the tag opens an item.
	ResolvedItem
)

// Resolution is the outcome of [Registry.Resolve].
type Resolution struct {
	Kind ResolutionKind
	Text string
	Item *Item
}

func TextResolution(text string) Resolution {
	return Resolution{Kind: ResolvedText, Text: text}
}

func ItemResolution(it *Item) Resolution {
	if it == nil {
		return Resolution{}
	}
	return Resolution{Kind: ResolvedItem, Item: it}
}

type registeredHandler struct {
	id HandlerID
	fn Handler
}

// Registry maps tag names to the way they are turned into items or text.
//
// A tag name can be either a constructor or a conversion, never both. Handlers are an
// ordered list consulted for whatever the two maps don't resolve.
//
// The Registry is not safe for concurrent mutation; it can be shared read-only by
// any number of [Parser]s.
type Registry struct {
	constructors map[string]Entry
	converters   map[string]string
	handlers     []registeredHandler
	nextHandler  HandlerID
}

// NewRegistry creates an empty Registry. Use [Registry.RegisterDefaults] for the built-in tags.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Entry),
		converters:   make(map[string]string),
	}
}

func (r *Registry) checkFree(tag string) error {
	if _, ok := r.constructors[tag]; ok {
		return newDuplicateRegistrationError(tag, "constructor")
	}
	if _, ok := r.converters[tag]; ok {
		return newDuplicateRegistrationError(tag, "conversion")
	}
	return nil
}

// RegisterConstructor registers the tag to be built by ctor.
// It returns [ErrDuplicateRegistration] if the tag is already a constructor or a conversion.
func (r *Registry) RegisterConstructor(tag string, ctor Constructor, opts ...EntryDecorator) error {
	if err := r.checkFree(tag); err != nil {
		return err
	}

	if ctor == nil {
		return fmt.Errorf("constructor for %q is nil", tag)
	}

	e := Entry{Constructor: ctor}
	for _, opt := range opts {
		opt(&e)
	}

	r.constructors[tag] = e
	return nil
}

// RegisterClass registers the tag to be built as an item of the class, e.g. "Bold" or "Image".
// The class name is one of the [Kind] names. Image and Dropcap read their content,
// so they are registered [Greedy] unless opts say otherwise.
func (r *Registry) RegisterClass(tag, className string, opts ...EntryDecorator) error {
	kind, ok := KindByName(className)
	if !ok || kind == KindRoot || kind == KindText {
		return NewError(IssueUnknownClass, fmt.Errorf("%w: %q", ErrUnknownClass, className))
	}

	base := []EntryDecorator{WithClassName(className)}
	switch kind {
	case KindImage, KindDropcap:
		base = append(base, WithGreed(Greedy))
	}
	opts = append(base, opts...)
	return r.RegisterConstructor(tag, classConstructor(kind), opts...)
}

// RegisterConversion registers the tag to be replaced by the text.
// It returns [ErrDuplicateRegistration] if the tag is already a constructor or a conversion.
func (r *Registry) RegisterConversion(tag, replacement string) error {
	if err := r.checkFree(tag); err != nil {
		return err
	}

	r.converters[tag] = replacement
	return nil
}

// RegisterHandler appends h to the list of handlers.
func (r *Registry) RegisterHandler(h Handler) HandlerID {
	id := r.nextHandler
	r.nextHandler++
	r.handlers = append(r.handlers, registeredHandler{id: id, fn: h})
	return id
}

// DeregisterHandler removes the handler. It returns false if there is no such handler.
func (r *Registry) DeregisterHandler(id HandlerID) bool {
	i := slices.IndexFunc(r.handlers, func(h registeredHandler) bool {
		return h.id == id
	})
	if i < 0 {
		return false
	}

	r.handlers = slices.Delete(r.handlers, i, i+1)
	return true
}

// DeregisterConstructor removes the constructor of the tag. It returns false if there is none.
func (r *Registry) DeregisterConstructor(tag string) bool {
	_, ok := r.constructors[tag]
	delete(r.constructors, tag)
	return ok
}

// DeregisterConversion removes the conversion of the tag. It returns false if there is none.
func (r *Registry) DeregisterConversion(tag string) bool {
	_, ok := r.converters[tag]
	delete(r.converters, tag)
	return ok
}

// Clear removes all the constructors, conversions and handlers.
func (r *Registry) Clear() {
	clear(r.constructors)
	clear(r.converters)
	r.handlers = nil
}

// IsRegistered reports whether the tag is a constructor or a conversion.
func (r *Registry) IsRegistered(tag string) bool {
	_, ctor := r.constructors[tag]
	_, conv := r.converters[tag]
	return ctor || conv
}

func (r *Registry) IsConversion(tag string) bool {
	_, ok := r.converters[tag]
	return ok
}

// Conversion returns the replacement text of the tag.
func (r *Registry) Conversion(tag string) (string, bool) {
	s, ok := r.converters[tag]
	return s, ok
}

// Entry returns the constructor entry of the tag.
func (r *Registry) Entry(tag string) (Entry, bool) {
	e, ok := r.constructors[tag]
	return e, ok
}

// HandlerCount is the number of registered handlers.
func (r *Registry) HandlerCount() int {
	return len(r.handlers)
}

// Tags returns the sorted names of all the constructors and conversions.
func (r *Registry) Tags() []string {
	out := make([]string, 0, len(r.constructors)+len(r.converters))
	for tag := range r.constructors {
		out = append(out, tag)
	}
	for tag := range r.converters {
		out = append(out, tag)
	}
	slices.Sort(out)
	return out
}

// nesting tells how an opening tag of the name affects the nesting of the items.
// Tags without an entry may open an item only through the handlers.
func (r *Registry) nesting(tag string) tagNesting {
	if _, ok := r.converters[tag]; ok {
		return nestNone
	}

	e, ok := r.constructors[tag]
	switch {
	case !ok && len(r.handlers) > 0:
		return nestItem
	case !ok, e.Void:
		return nestNone
	case e.Greed == Grasping:
		return nestGrasping
	case e.Greed == Greedy:
		return nestGreedy
	}

	return nestItem
}

// Resolve decides what the tag becomes. Conversions are looked up first, then
// constructors, then the handlers in registration order.
func (r *Registry) Resolve(tc *TagContext) Resolution {
	if text, ok := r.converters[tc.Tag]; ok {
		return TextResolution(text)
	}

	if e, ok := r.constructors[tc.Tag]; ok {
		if it := e.Constructor(tc); it != nil {
			if e.ClassName != "" {
				it.ClassName = e.ClassName
			}
			return ItemResolution(tc.complete(it))
		}
	}

	for _, h := range r.handlers {
		res, err := h.fn(tc)
		if err != nil {
			tc.warn(IssueHandlerFailed, tc.StartTagStart, fmt.Sprintf("handler %d failed on %q: %v", h.id, tc.Tag, err))
			tc.Logger.Debug().Err(err).Str("tag", tc.Tag).Int("handler", int(h.id)).Msg("tag handler failed")
			continue
		}

		switch res.Kind {
		case ResolvedText:
			return res
		case ResolvedItem:
			if res.Item != nil {
				res.Item = tc.complete(res.Item)
				return res
			}
		}
	}

	return Resolution{}
}

// TagContext is everything a [Constructor] or a [Handler] knows about the tag occurrence.
type TagContext struct {
	Tag     string
	Data    string
	HasData bool
	Options Options

	StartTagStart int
	StartTagEnd   int

	// Cursor is a copy of the active style. Constructors may change it and install
	// it with [Item.SetCursor].
	Cursor DrawCursor

	// Content is the raw content of a greedy tag.
	Content      string
	HasContent   bool
	ContentStart int
	ContentEnd   int

	Loader   resource.Loader
	Defaults Defaults
	Logger   zerolog.Logger

	warnings *Warnings
}

// NewItem creates an item of the kind filled with the tag values and the context cursor.
func (tc *TagContext) NewItem(kind Kind) *Item {
	it := NewItem(kind)
	it.TagName = tc.Tag
	it.TagData = tc.Data
	it.Options = tc.Options.clone()
	it.ClassName = kind.String()
	it.SetCursor(tc.Cursor)
	return it
}

// complete fills the tag fields a custom constructor might have left out.
func (tc *TagContext) complete(it *Item) *Item {
	if it.TagName == "" {
		it.TagName = tc.Tag
	}
	if it.ClassName == "" {
		it.ClassName = it.Kind.String()
	}
	it.StartTagStart = tc.StartTagStart
	it.StartTagEnd = tc.StartTagEnd
	return it
}

// Value returns the tag data if present, otherwise the option with the key.
func (tc *TagContext) Value(key string) (string, bool) {
	if tc.HasData {
		return tc.Data, true
	}
	return tc.Options.Get(key)
}

// Load loads the resource. A failure is logged and yields an empty [resource.Handle].
func (tc *TagContext) Load(path string, typ resource.Type) resource.Handle {
	if tc.Loader == nil || path == "" {
		return resource.Handle{}
	}

	h, err := tc.Loader.Load(path, typ)
	if err != nil {
		tc.warn(IssueResourceNotLoaded, tc.StartTagStart, err.Error())
		tc.Logger.Warn().Err(err).Str("tag", tc.Tag).Str("path", path).Stringer("type", typ).Msg("failed to load resource")
		return resource.Handle{}
	}

	return h
}

func (tc *TagContext) warn(issue Issue, pos int, desc string) {
	if tc.warnings == nil {
		return
	}
	tc.warnings.Add(Warning{Issue: issue, Pos: pos, Description: desc})
}
