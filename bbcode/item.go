package bbcode

// Kind defines the semantic kind of an [Item].
type Kind int

const (
	KindRoot Kind = iota
	KindText
	KindImage
	KindNewline
	KindDropcap
	KindFont
	KindFontSize
	KindOutlineSize
	KindNormal
	KindBold
	KindBoldItalics
	KindItalics
	KindMono
	KindColor
	KindOutlineColor
	KindUnderline
	KindStrikethrough
	KindParagraph
	KindIndent
	KindList
	KindMeta
	KindHint
	KindTable
	KindFade
	KindShake
	KindWave
	KindTornado
	KindRainbow
	KindBgColor
	KindFgColor
	KindCustom

	// NumKinds is the total number of Kinds. Should be placed as last const.
	NumKinds
)

var kindNames = [NumKinds]string{
	KindRoot:          "Root",
	KindText:          "Text",
	KindImage:         "Image",
	KindNewline:       "Newline",
	KindDropcap:       "Dropcap",
	KindFont:          "Font",
	KindFontSize:      "FontSize",
	KindOutlineSize:   "OutlineSize",
	KindNormal:        "Normal",
	KindBold:          "Bold",
	KindBoldItalics:   "BoldItalics",
	KindItalics:       "Italics",
	KindMono:          "Mono",
	KindColor:         "Color",
	KindOutlineColor:  "OutlineColor",
	KindUnderline:     "Underline",
	KindStrikethrough: "Strikethrough",
	KindParagraph:     "Paragraph",
	KindIndent:        "Indent",
	KindList:          "List",
	KindMeta:          "Meta",
	KindHint:          "Hint",
	KindTable:         "Table",
	KindFade:          "Fade",
	KindShake:         "Shake",
	KindWave:          "Wave",
	KindTornado:       "Tornado",
	KindRainbow:       "Rainbow",
	KindBgColor:       "BgColor",
	KindFgColor:       "FgColor",
	KindCustom:        "Custom",
}

func (k Kind) String() string {
	if k >= 0 && k < NumKinds {
		return kindNames[k]
	}
	return "Unknown"
}

// KindByName returns the Kind with the given class name, like "Bold" or "Image".
func KindByName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return 0, false
}

// ItemID is the index of an [Item] in the [Tree] arena.
type ItemID int

const (
	// NoItem marks an absent link.
	NoItem ItemID = -1

	// RootID is the ID of the root item, which is always present.
	RootID ItemID = 0
)

// Item is a single node of the parsed tree, like a text run, a bold span or an image.
//
// Items are stored in the [Tree] arena and linked via IDs. All offsets are character
// offsets in the raw text; unset offsets are -1.
type Item struct {
	Kind Kind

	// TagName is the name of the tag which opened the Item, e.g. "b" for "[b]". Empty for text runs.
	TagName string

	// TagData is the raw string after "=" in the opening tag, e.g. "red" for "[color=red]".
	TagData string

	Options Options

	// ClassName is the name given at the registration. It defaults to the Kind name.
	ClassName string

	StartTagStart int
	StartTagEnd   int

	// EndTagStart and EndTagEnd are set only if the matching closing tag was found.
	EndTagStart int
	EndTagEnd   int

	// ContentStart and ContentEnd cover the text between the tags. For text runs they cover
	// the raw text the run was produced from, tags of conversions included.
	ContentStart int
	ContentEnd   int

	// Text is the content of text runs and self-contained items.
	Text string

	// SelfContained items keep their content for themselves, like the image path of "[img]",
	// and it's not part of the parsed text.
	SelfContained bool

	// Payload carries the kind-specific values.
	Payload Payload

	// LastCursor is the style active before the Item was opened. It's restored when the Item closes.
	LastCursor DrawCursor

	// Cursor is the style the Item installs for its content.
	Cursor DrawCursor

	hasCursor bool

	Parent      ItemID
	FirstChild  ItemID
	LastChild   ItemID
	NextSibling ItemID

	// ChildCount is the number of children of this Item.
	ChildCount int
}

// NewItem creates an unlinked Item of the given kind with all the offsets unset.
func NewItem(kind Kind) *Item {
	return &Item{
		Kind:          kind,
		StartTagStart: -1,
		StartTagEnd:   -1,
		EndTagStart:   -1,
		EndTagEnd:     -1,
		ContentStart:  -1,
		ContentEnd:    -1,
		Parent:        NoItem,
		FirstChild:    NoItem,
		LastChild:     NoItem,
		NextSibling:   NoItem,
	}
}

// SetCursor sets the style the Item installs when it's pushed.
// Items without a cursor inherit the active one.
func (it *Item) SetCursor(c DrawCursor) {
	it.Cursor = c
	it.hasCursor = true
}

// IsClosed reports whether the matching closing tag was found.
func (it *Item) IsClosed() bool {
	return it.EndTagEnd >= 0
}
