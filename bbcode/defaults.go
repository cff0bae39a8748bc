package bbcode

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/Drolfothesgnir/bbtext/resource"
)

// conversions are the reserved tags replaced by a single character.
var conversions = map[string]string{
	"lb":   "[",
	"rb":   "]",
	"lrm":  "\u200e",
	"rlm":  "\u200f",
	"lre":  "\u202a",
	"rle":  "\u202b",
	"lro":  "\u202d",
	"rlo":  "\u202e",
	"pdf":  "\u202c",
	"alm":  "\u061c",
	"lri":  "\u2066",
	"rli":  "\u2067",
	"fsi":  "\u2068",
	"pdi":  "\u2069",
	"zwj":  "\u200d",
	"zwnj": "\u200c",
	"wj":   "\u2060",
	"shy":  "\u00ad",
}

type defaultTag struct {
	ctor Constructor
	opts []EntryDecorator
}

var defaultTags = map[string]defaultTag{
	"b":                 {ctor: newBold},
	"i":                 {ctor: newItalics},
	"bi":                {ctor: newBoldItalics},
	"u":                 {ctor: classConstructor(KindUnderline)},
	"s":                 {ctor: classConstructor(KindStrikethrough)},
	"normal":            {ctor: newNormal},
	"code":              {ctor: newMono, opts: []EntryDecorator{WithGreed(Greedy)}},
	"codeblock":         {ctor: newMono, opts: []EntryDecorator{WithGreed(Greedy), WithNewlineTrim()}},
	"p":                 {ctor: newParagraph},
	"center":            {ctor: newParagraph},
	"left":              {ctor: newParagraph},
	"right":             {ctor: newParagraph},
	"fill":              {ctor: newParagraph},
	"indent":            {ctor: newIndent},
	"ul":                {ctor: newList},
	"ol":                {ctor: newList},
	"table":             {ctor: newTable},
	"cell":              {ctor: newCell},
	"url":               {ctor: newMeta},
	"hint":              {ctor: newHint},
	"img":               {ctor: newImage, opts: []EntryDecorator{WithGreed(Greedy)}},
	"dropcap":           {ctor: newDropcap, opts: []EntryDecorator{WithGreed(Greedy)}},
	"font":              {ctor: newFont},
	"opentype_features": {ctor: newFont},
	"size":              {ctor: newFontSize},
	"font_size":         {ctor: newFontSize},
	"outline_size":      {ctor: newOutlineSize},
	"color":             {ctor: newColor(KindColor)},
	"outline_color":     {ctor: newColor(KindOutlineColor)},
	"bgcolor":           {ctor: newColor(KindBgColor)},
	"fgcolor":           {ctor: newColor(KindFgColor)},
	"fade":              {ctor: newFade},
	"shake":             {ctor: newShake},
	"wave":              {ctor: newWave},
	"tornado":           {ctor: newTornado},
	"rainbow":           {ctor: newRainbow},
	"br":                {ctor: newNewline, opts: []EntryDecorator{WithVoid()}},
}

// RegisterDefaults registers the reserved conversions and the built-in tags.
// It fails if any of the names is already taken.
func (r *Registry) RegisterDefaults() error {
	for tag, text := range conversions {
		if err := r.RegisterConversion(tag, text); err != nil {
			return err
		}
	}

	for tag, d := range defaultTags {
		if err := r.RegisterConstructor(tag, d.ctor, d.opts...); err != nil {
			return err
		}
	}

	return nil
}

// classConstructor returns the constructor used by [Registry.RegisterClass].
// Kinds with a payload reuse their default constructor.
func classConstructor(kind Kind) Constructor {
	switch kind {
	case KindImage:
		return newImage
	case KindDropcap:
		return newDropcap
	case KindFont:
		return newFont
	case KindFontSize:
		return newFontSize
	case KindOutlineSize:
		return newOutlineSize
	case KindNormal:
		return newNormal
	case KindBold:
		return newBold
	case KindItalics:
		return newItalics
	case KindBoldItalics:
		return newBoldItalics
	case KindMono:
		return newMono
	case KindColor, KindOutlineColor, KindBgColor, KindFgColor:
		return newColor(kind)
	case KindParagraph:
		return newParagraph
	case KindIndent:
		return newIndent
	case KindList:
		return newList
	case KindMeta:
		return newMeta
	case KindHint:
		return newHint
	case KindTable:
		return newTable
	case KindFade:
		return newFade
	case KindShake:
		return newShake
	case KindWave:
		return newWave
	case KindTornado:
		return newTornado
	case KindRainbow:
		return newRainbow
	case KindNewline:
		return newNewline
	}

	return func(tc *TagContext) *Item {
		return tc.NewItem(kind)
	}
}

func intOr(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback
	}
	return n
}

func floatOr(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return f
}

func (tc *TagContext) intOption(key string, fallback int) int {
	return intOr(tc.Options.GetOr(key, ""), fallback)
}

func (tc *TagContext) floatOption(key string, fallback float64) float64 {
	return floatOr(tc.Options.GetOr(key, ""), fallback)
}

// color parses s, falling back to the given color on failure.
func (tc *TagContext) color(s string, fallback Color) Color {
	if s == "" {
		return fallback
	}

	c, err := ParseColor(s)
	if err != nil {
		tc.warn(IssueInvalidColor, tc.StartTagStart, err.Error())
		return fallback
	}
	return c
}

func styled(tc *TagContext, kind Kind, font resource.Handle) *Item {
	it := tc.NewItem(kind)
	if !font.IsEmpty() {
		c := tc.Cursor.Clone()
		c.Font = font
		it.SetCursor(c)
	}
	return it
}

func newBold(tc *TagContext) *Item        { return styled(tc, KindBold, tc.Defaults.BoldFont) }
func newItalics(tc *TagContext) *Item     { return styled(tc, KindItalics, tc.Defaults.ItalicsFont) }
func newBoldItalics(tc *TagContext) *Item { return styled(tc, KindBoldItalics, tc.Defaults.BoldItalicsFont) }
func newNormal(tc *TagContext) *Item      { return styled(tc, KindNormal, tc.Defaults.NormalFont) }
func newMono(tc *TagContext) *Item        { return styled(tc, KindMono, tc.Defaults.MonoFont) }

func newNewline(tc *TagContext) *Item {
	it := tc.NewItem(KindNewline)
	it.Text = "\n"
	return it
}

// newImage handles "[img]path[/img]", "[img=WxH]path[/img]" and
// "[img width=W height=H color=C tooltip=T]path[/img]".
func newImage(tc *TagContext) *Item {
	it := tc.NewItem(KindImage)
	it.SelfContained = true

	p := ImagePayload{
		Color:   tc.color(tc.Options.GetOr("color", ""), White),
		Width:   tc.intOption("width", 0),
		Height:  tc.intOption("height", 0),
		Tooltip: tc.Options.GetOr("tooltip", ""),
	}

	if tc.HasData {
		w, h, found := strings.Cut(tc.Data, "x")
		p.Width = intOr(w, p.Width)
		if found {
			p.Height = intOr(h, p.Height)
		}
	}

	if tc.HasContent {
		p.Texture = tc.Load(strings.TrimSpace(tc.Content), resource.TypeTexture)
	}

	it.Payload = p
	return it
}

// newDropcap handles "[dropcap font=F font_size=N color=C outline_size=N outline_color=C margins=L,T,R,B]X[/dropcap]".
func newDropcap(tc *TagContext) *Item {
	it := tc.NewItem(KindDropcap)

	p := DropcapPayload{
		Text:         tc.Content,
		Font:         tc.Cursor.Font,
		FontSize:     tc.intOption("font_size", tc.Cursor.FontSize*3),
		Color:        tc.color(tc.Options.GetOr("color", ""), tc.Cursor.Color),
		OutlineSize:  tc.intOption("outline_size", 0),
		OutlineColor: tc.color(tc.Options.GetOr("outline_color", ""), tc.Cursor.OutlineColor),
	}

	if font, ok := tc.Options.Get("font"); ok {
		if h := tc.Load(font, resource.TypeFont); !h.IsEmpty() {
			p.Font = h
		}
	}

	if margins, ok := tc.Options.Get("margins"); ok {
		for i, m := range strings.SplitN(margins, ",", 4) {
			p.Margins[i] = intOr(m, 0)
		}
	}

	it.Payload = p
	return it
}

// newFont handles "[font=path]", "[font name=path size=N]" and "[opentype_features=a=1,b]".
func newFont(tc *TagContext) *Item {
	it := tc.NewItem(KindFont)
	c := tc.Cursor.Clone()

	var p FontPayload

	if tc.Tag == "opentype_features" {
		p.Font = c.Font
		for _, f := range strings.Split(tc.Data, ",") {
			k, v, _ := strings.Cut(strings.TrimSpace(f), "=")
			if k != "" {
				p.Features = append(p.Features, Option{Key: k, Value: v})
			}
		}
	} else {
		path, _ := tc.Value("name")
		p.Font = tc.Load(path, resource.TypeFont)
		if !p.Font.IsEmpty() {
			c.Font = p.Font
		}
		if size := tc.intOption("size", 0); size > 0 {
			p.FontSize = size
			c.FontSize = size
		}
	}

	it.SetCursor(c)
	it.Payload = p
	return it
}

func newFontSize(tc *TagContext) *Item {
	it := tc.NewItem(KindFontSize)
	size := intOr(tc.Data, tc.Cursor.FontSize)

	c := tc.Cursor.Clone()
	c.FontSize = size
	it.SetCursor(c)
	it.Payload = FontSizePayload{Size: size}
	return it
}

func newOutlineSize(tc *TagContext) *Item {
	it := tc.NewItem(KindOutlineSize)
	size := max(intOr(tc.Data, 0), 0)

	c := tc.Cursor.Clone()
	c.OutlineSize = size
	it.SetCursor(c)
	it.Payload = OutlineSizePayload{Size: size}
	return it
}

func newColor(kind Kind) Constructor {
	return func(tc *TagContext) *Item {
		it := tc.NewItem(kind)
		c := tc.Cursor.Clone()

		var col Color
		switch kind {
		case KindOutlineColor:
			col = tc.color(tc.Data, c.OutlineColor)
			c.OutlineColor = col
		case KindBgColor:
			col = tc.color(tc.Data, c.BackgroundColor)
			c.BackgroundColor = col
		case KindFgColor:
			col = tc.color(tc.Data, c.ForegroundColor)
			c.ForegroundColor = col
		default:
			col = tc.color(tc.Data, c.Color)
			c.Color = col
		}

		it.SetCursor(c)
		it.Payload = ColorPayload{Color: col}
		return it
	}
}

var alignments = map[string]HorizontalAlignment{
	"left":   AlignLeft,
	"center": AlignCenter,
	"right":  AlignRight,
	"fill":   AlignFill,
}

var directions = map[string]TextDirection{
	"auto":     DirectionAuto,
	"a":        DirectionAuto,
	"ltr":      DirectionLTR,
	"l":        DirectionLTR,
	"rtl":      DirectionRTL,
	"r":        DirectionRTL,
	"inherit":  DirectionInherited,
	"inherits": DirectionInherited,
}

// newParagraph handles "[p align=A direction=D language=L st=S]" and the
// "[center]", "[left]", "[right]" and "[fill]" shortcuts.
func newParagraph(tc *TagContext) *Item {
	it := tc.NewItem(KindParagraph)
	c := tc.Cursor.Clone()

	p := ParagraphPayload{
		Alignment: c.HorizontalAlignment,
		Direction: c.TextDirection,
	}

	if a, ok := alignments[tc.Tag]; ok {
		p.Alignment = a
	}
	if a, ok := alignments[tc.Options.GetOr("align", "")]; ok {
		p.Alignment = a
	}
	if d, ok := directions[tc.Options.GetOr("direction", "")]; ok {
		p.Direction = d
	}

	if lang, ok := tc.Options.Get("language"); ok {
		tag, err := language.Parse(lang)
		if err != nil {
			tc.Logger.Debug().Err(err).Str("language", lang).Msg("invalid paragraph language")
		} else {
			p.Language = tag
		}
	}

	p.StructuredParser = tc.Options.GetOr("st", "")

	c.HorizontalAlignment = p.Alignment
	c.TextDirection = p.Direction
	c.StructuredParser = p.StructuredParser
	it.SetCursor(c)
	it.Payload = p
	return it
}

func newIndent(tc *TagContext) *Item {
	it := tc.NewItem(KindIndent)
	it.Payload = IndentPayload{Level: max(intOr(tc.Data, 1), 1)}
	return it
}

var listTypes = map[string]ListType{
	"1": ListNumbers,
	"a": ListLetters,
	"A": ListLetters,
	"i": ListRoman,
	"I": ListRoman,
}

// newList handles "[ul]", "[ul bullet=*]" and "[ol type=1|a|A|i|I]".
func newList(tc *TagContext) *Item {
	it := tc.NewItem(KindList)

	if tc.Tag == "ul" {
		it.Payload = ListPayload{
			Type:   ListDots,
			Bullet: tc.Options.GetOr("bullet", "•"),
		}
		return it
	}

	typ, _ := tc.Value("type")
	lt, ok := listTypes[typ]
	if !ok {
		lt = ListNumbers
	}

	it.Payload = ListPayload{
		Type:       lt,
		Capitalize: typ == "A" || typ == "I",
	}
	return it
}

var inlineAlignments = map[string]InlineAlignment{
	"top":      InlineTop,
	"center":   InlineCenter,
	"baseline": InlineBaseline,
	"bottom":   InlineBottom,
}

// newTable handles "[table=N]" and "[table=N,valign]".
func newTable(tc *TagContext) *Item {
	it := tc.NewItem(KindTable)

	cols, valign, _ := strings.Cut(tc.Data, ",")
	p := TablePayload{Columns: max(intOr(cols, 1), 1)}
	if a, ok := inlineAlignments[strings.TrimSpace(valign)]; ok {
		p.Alignment = a
	}

	it.Payload = p
	return it
}

// newCell handles "[cell]" and "[cell=ratio]" inside a table.
func newCell(tc *TagContext) *Item {
	it := tc.NewItem(KindTable)
	it.Payload = TablePayload{
		Cell:   true,
		Expand: max(intOr(tc.Data, 1), 1),
	}
	return it
}

func newMeta(tc *TagContext) *Item {
	it := tc.NewItem(KindMeta)
	it.Payload = MetaPayload{Value: tc.Data}
	return it
}

func newHint(tc *TagContext) *Item {
	it := tc.NewItem(KindHint)
	it.Payload = HintPayload{Description: tc.Data}
	return it
}

func newFade(tc *TagContext) *Item {
	it := tc.NewItem(KindFade)
	it.Payload = FadePayload{
		Start:  tc.intOption("start", 0),
		Length: tc.intOption("length", 10),
	}
	return it
}

func newShake(tc *TagContext) *Item {
	it := tc.NewItem(KindShake)
	it.Payload = ShakePayload{
		Rate:     tc.floatOption("rate", 20),
		Strength: tc.floatOption("level", 5),
	}
	return it
}

func newWave(tc *TagContext) *Item {
	it := tc.NewItem(KindWave)
	it.Payload = WavePayload{
		Amplitude: tc.floatOption("amp", 20),
		Frequency: tc.floatOption("freq", 5),
	}
	return it
}

func newTornado(tc *TagContext) *Item {
	it := tc.NewItem(KindTornado)
	it.Payload = TornadoPayload{
		Radius:    tc.floatOption("radius", 10),
		Frequency: tc.floatOption("freq", 1),
	}
	return it
}

func newRainbow(tc *TagContext) *Item {
	it := tc.NewItem(KindRainbow)
	it.Payload = RainbowPayload{
		Saturation: tc.floatOption("sat", 0.8),
		Value:      tc.floatOption("val", 0.8),
		Frequency:  tc.floatOption("freq", 1),
	}
	return it
}

func (t ListType) String() string {
	switch t {
	case ListNumbers:
		return "numbers"
	case ListLetters:
		return "letters"
	case ListRoman:
		return "roman"
	case ListDots:
		return "dots"
	}
	return fmt.Sprintf("ListType(%d)", int(t))
}
