package bbcode

import (
	"maps"

	"github.com/Drolfothesgnir/bbtext/resource"
)

const DefaultFontSize = 16

type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type HorizontalAlignment int

const (
	AlignLeft HorizontalAlignment = iota
	AlignCenter
	AlignRight
	AlignFill
)

type VerticalAlignment int

const (
	VAlignTop VerticalAlignment = iota
	VAlignCenter
	VAlignBottom
	VAlignFill
)

type InlineAlignment int

const (
	InlineTop InlineAlignment = iota
	InlineCenter
	InlineBaseline
	InlineBottom
)

type TextDirection int

const (
	DirectionInherited TextDirection = iota
	DirectionAuto
	DirectionLTR
	DirectionRTL
)

// DrawCursor is the style snapshot threaded through the nested items.
//
// It's a value type: every [Item] keeps its own copy, so use [DrawCursor.Clone]
// before changing the Metadata of a cursor obtained from elsewhere.
type DrawCursor struct {
	Color        Color           `json:"color"`
	Font         resource.Handle `json:"font"`
	FontSize     int             `json:"font_size"`
	OutlineColor Color           `json:"outline_color"`
	OutlineSize  int             `json:"outline_size"`
	Offset       Vector2         `json:"offset"`

	HorizontalAlignment HorizontalAlignment `json:"horizontal_alignment"`
	VerticalAlignment   VerticalAlignment   `json:"vertical_alignment"`
	InlineAlignment     InlineAlignment     `json:"inline_alignment"`
	TextDirection       TextDirection       `json:"text_direction"`
	StructuredParser    string              `json:"structured_parser,omitempty"`

	BackgroundColor Color `json:"background_color"`
	ForegroundColor Color `json:"foreground_color"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// Clone returns a copy of the cursor which shares nothing with the original.
func (c DrawCursor) Clone() DrawCursor {
	c.Metadata = maps.Clone(c.Metadata)
	return c
}

// SetMeta sets a metadata entry of the cursor.
func (c *DrawCursor) SetMeta(key, value string) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]string)
	}
	c.Metadata[key] = value
}

// Defaults are the document-wide style values the first cursor of every parse is created from.
type Defaults struct {
	FontSize     int
	Color        Color
	OutlineColor Color

	NormalFont      resource.Handle
	BoldFont        resource.Handle
	ItalicsFont     resource.Handle
	BoldItalicsFont resource.Handle
	MonoFont        resource.Handle
}

// NewDefaults returns white text of [DefaultFontSize] without fonts.
func NewDefaults() Defaults {
	return Defaults{
		FontSize:     DefaultFontSize,
		Color:        White,
		OutlineColor: Black,
	}
}

// NewDrawCursor creates the cursor active at the start of a parse.
func NewDrawCursor(d Defaults) DrawCursor {
	return DrawCursor{
		Color:        d.Color,
		Font:         d.NormalFont,
		FontSize:     d.FontSize,
		OutlineColor: d.OutlineColor,
	}
}
