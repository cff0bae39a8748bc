package bbcode

import (
	"golang.org/x/text/language"

	"github.com/Drolfothesgnir/bbtext/resource"
)

// Payload is the kind-specific part of an [Item]. The set of payloads is closed;
// custom handlers can attach arbitrary values via [CustomPayload].
type Payload interface {
	payload()
}

type ImagePayload struct {
	Texture resource.Handle `json:"texture"`

	// Width and Height are the requested size. Zero means the texture size.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Color   Color  `json:"color"`
	Tooltip string `json:"tooltip,omitempty"`
}

type DropcapPayload struct {
	Text         string          `json:"text"`
	Font         resource.Handle `json:"font"`
	FontSize     int             `json:"font_size"`
	Color        Color           `json:"color"`
	OutlineSize  int             `json:"outline_size,omitempty"`
	OutlineColor Color           `json:"outline_color"`

	// Margins are left, top, right and bottom.
	Margins [4]int `json:"margins"`
}

type FontPayload struct {
	Font     resource.Handle `json:"font"`
	FontSize int             `json:"font_size,omitempty"`

	// Features are the OpenType features of "[opentype_features]", in order.
	Features Options `json:"features,omitempty"`
}

type FontSizePayload struct {
	Size int `json:"size"`
}

type OutlineSizePayload struct {
	Size int `json:"size"`
}

// ColorPayload is used by the color, outline_color, bgcolor and fgcolor items.
type ColorPayload struct {
	Color Color `json:"color"`
}

type ParagraphPayload struct {
	Alignment        HorizontalAlignment `json:"alignment"`
	Direction        TextDirection       `json:"direction"`
	Language         language.Tag        `json:"language"`
	StructuredParser string              `json:"structured_parser,omitempty"`
}

type IndentPayload struct {
	Level int `json:"level"`
}

// ListType is the marker style of a list.
type ListType int

const (
	ListNumbers ListType = iota
	ListLetters
	ListRoman
	ListDots
)

type ListPayload struct {
	Type       ListType `json:"type"`
	Capitalize bool     `json:"capitalize,omitempty"`
	Bullet     string   `json:"bullet,omitempty"`
}

// TablePayload is used both by "[table]" and by its "[cell]" children.
type TablePayload struct {
	Columns int  `json:"columns,omitempty"`
	Cell    bool `json:"cell,omitempty"`

	// Expand is the expand ratio of a cell.
	Expand int `json:"expand,omitempty"`

	Alignment InlineAlignment `json:"alignment"`
}

type MetaPayload struct {
	Value string `json:"value"`
}

type HintPayload struct {
	Description string `json:"description"`
}

type FadePayload struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

type ShakePayload struct {
	Rate     float64 `json:"rate"`
	Strength float64 `json:"strength"`
}

type WavePayload struct {
	Amplitude float64 `json:"amplitude"`
	Frequency float64 `json:"frequency"`
}

type TornadoPayload struct {
	Radius    float64 `json:"radius"`
	Frequency float64 `json:"frequency"`
}

type RainbowPayload struct {
	Saturation float64 `json:"saturation"`
	Value      float64 `json:"value"`
	Frequency  float64 `json:"frequency"`
}

// CustomPayload carries any value produced by a user [Constructor] or [Handler].
type CustomPayload struct {
	Value any `json:"value"`
}

func (ImagePayload) payload()       {}
func (DropcapPayload) payload()     {}
func (FontPayload) payload()        {}
func (FontSizePayload) payload()    {}
func (OutlineSizePayload) payload() {}
func (ColorPayload) payload()       {}
func (ParagraphPayload) payload()   {}
func (IndentPayload) payload()      {}
func (ListPayload) payload()        {}
func (TablePayload) payload()       {}
func (MetaPayload) payload()        {}
func (HintPayload) payload()        {}
func (FadePayload) payload()        {}
func (ShakePayload) payload()       {}
func (WavePayload) payload()        {}
func (TornadoPayload) payload()     {}
func (RainbowPayload) payload()     {}
func (CustomPayload) payload()      {}
