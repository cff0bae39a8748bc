package bbcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Drolfothesgnir/bbtext/resource"
)

func testParser(t testing.TB, opts ...ParserOption) *Parser {
	t.Helper()

	p, err := New(testRegistry(t), opts...)
	require.NoError(t, err)
	return p
}

// children returns the direct children of the item.
func children(p *Parser, id ItemID) []*Item {
	tree := p.Tree()
	ids := tree.Children(id)
	out := make([]*Item, len(ids))
	for i, c := range ids {
		out[i] = tree.Item(c)
	}
	return out
}

func issues(p *Parser) []Issue {
	var out []Issue
	for _, w := range p.Warnings() {
		out = append(out, w.Issue)
	}
	return out
}

func TestParse_WellFormed(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[b]x[/b]"))

	root := children(p, RootID)
	require.Len(t, root, 1)

	bold := root[0]
	require.Equal(t, KindBold, bold.Kind)
	require.Equal(t, "b", bold.TagName)
	require.True(t, bold.IsClosed())
	require.Equal(t, 0, bold.StartTagStart)
	require.Equal(t, 3, bold.StartTagEnd)
	require.Equal(t, 4, bold.EndTagStart)
	require.Equal(t, 8, bold.EndTagEnd)
	require.Equal(t, 3, bold.ContentStart)
	require.Equal(t, 4, bold.ContentEnd)

	kids := children(p, p.Tree().Children(RootID)[0])
	require.Len(t, kids, 1)
	require.Equal(t, KindText, kids[0].Kind)
	require.Equal(t, "x", kids[0].Text)

	require.Equal(t, "x", p.ParsedText())
	require.Empty(t, p.Warnings())
	require.Equal(t, RootID, p.CurrentItem())
}

func TestParse_MismatchedClose(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[b]x[/i]"))

	root := children(p, RootID)
	require.Len(t, root, 1)
	require.Equal(t, KindBold, root[0].Kind)
	require.False(t, root[0].IsClosed())
	require.Equal(t, -1, root[0].EndTagStart)

	kids := children(p, p.Tree().Children(RootID)[0])
	require.Len(t, kids, 1)
	require.Equal(t, "x[/i]", kids[0].Text)

	require.Empty(t, p.Tree().Find(KindItalics))
	require.Equal(t, "x[/i]", p.ParsedText())
	require.Equal(t, []Issue{IssueMismatchedCloseTag}, issues(p))
	require.Equal(t, 4, p.Warnings()[0].Pos)
}

func TestParse_UnregisteredTag(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[nope]x[/nope]"))

	root := children(p, RootID)
	require.Len(t, root, 1)
	require.Equal(t, KindText, root[0].Kind)
	require.Equal(t, "[nope]x[/nope]", p.ParsedText())
	require.Equal(t, []Issue{IssueUnknownTag, IssueMismatchedCloseTag}, issues(p))
}

func TestParse_Conversions(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[lb]b[rb]"))

	root := children(p, RootID)
	require.Len(t, root, 1)
	require.Equal(t, KindText, root[0].Kind)
	require.Equal(t, "[b]", root[0].Text)
	require.Equal(t, 0, root[0].ContentStart)
	require.Equal(t, 9, root[0].ContentEnd)

	require.Equal(t, "[b]", p.ParsedText())
	require.Empty(t, p.Tree().Find(KindBold))
}

func TestParse_ConversionInsideItem(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[i]a[zwj]b[/i]"))

	require.Equal(t, "a\u200db", p.ParsedText())
	require.Equal(t, "a\u200db", p.Tree().ContentText(p.Tree().Find(KindItalics)[0]))
}

func TestParse_Idempotent(t *testing.T) {
	inputs := []string{
		"[b]x[/b]",
		"plain [i]italic [b]both[/b][/i] and [color=#ff000080]red[/color]",
		"[b]x[/i] [nope]y[/nope] [lb]z[rb]",
		"[img=16x16]a.png[/img][ul]one[br]two[/ul][table=2][cell]a[/cell][cell]b[/cell][/table]",
		"[p language=fr align=right]bonjour[/p][code][b][/code][url=https://x.y]x[/url]",
		"[wave amp=50 freq=2]w[/wave][shake rate=5]s[/shake][fade start=4]f[/fade][rainbow]r[/rainbow][tornado]t[/tornado]",
		"unterminated [b",
	}

	for i, input := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			p := testParser(t)

			require.NoError(t, p.Parse(input))
			first := p.Tree().Serialize()
			firstText := p.ParsedText()

			require.NoError(t, p.Clear())
			require.NoError(t, p.Parse(input))
			require.Equal(t, first, p.Tree().Serialize())
			require.Equal(t, firstText, p.ParsedText())

			other := testParser(t)
			require.NoError(t, other.Parse(input))
			require.Equal(t, first, other.Tree().Serialize())
		})
	}
}

func TestAppend_MatchesFullParse(t *testing.T) {
	testCases := []struct {
		name   string
		first  string
		second string
	}{
		{name: "inside_open_item", first: "[b]hello ", second: "world[/b] and [i]more[/i]"},
		{name: "between_items", first: "[i]a[/i] ", second: "[b]b[/b]"},
		{name: "open_item_closed_later", first: "[color=red]x", second: "y[/color]z"},
		{name: "nested_open_items", first: "[u][s]a", second: "b[/s]c[/u]"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			streamed := testParser(t)
			require.NoError(t, streamed.Parse(tc.first))
			require.NoError(t, streamed.Append(tc.second))

			full := testParser(t)
			require.NoError(t, full.Parse(tc.first+tc.second))

			require.Equal(t, full.ParsedText(), streamed.ParsedText())
			require.Equal(t, full.RawText(), streamed.RawText())
			require.Equal(t, full.Tree().Serialize(), streamed.Tree().Serialize())
		})
	}
}

func TestAppend_TagAcrossBoundaryStaysText(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("a[b"))
	require.NoError(t, p.Append("]x"))

	require.Equal(t, "a[b]x", p.ParsedText())
	require.Empty(t, p.Tree().Find(KindBold))
	require.Contains(t, issues(p), IssueUnterminatedTag)
}

func TestParse_CursorStack(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[color=red]a[b]b[/b]c[/color]d"))

	red, err := ParseColor("red")
	require.NoError(t, err)

	tree := p.Tree()
	colorID := tree.Find(KindColor)[0]
	col := tree.Item(colorID)
	require.Equal(t, red, col.Cursor.Color)
	require.Equal(t, White, col.LastCursor.Color)
	require.Equal(t, ColorPayload{Color: red}, col.Payload)

	kids := children(p, colorID)
	require.Len(t, kids, 3)
	require.Equal(t, KindText, kids[0].Kind)
	require.Equal(t, KindBold, kids[1].Kind)
	require.Equal(t, red, kids[1].Cursor.Color)
	require.Equal(t, "c", kids[2].Text)
	require.Equal(t, red, kids[2].Cursor.Color)

	root := children(p, RootID)
	require.Len(t, root, 2)
	require.Equal(t, "d", root[1].Text)
	require.Equal(t, White, root[1].Cursor.Color)
}

func TestParse_Misnested(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[i][b]x[/i][/b]"))

	root := children(p, RootID)
	require.Len(t, root, 2)
	require.Equal(t, KindItalics, root[0].Kind)
	require.True(t, root[0].IsClosed())
	require.Equal(t, "[/b]", root[1].Text)

	require.Equal(t, "[b]x", p.Tree().ContentText(p.Tree().Children(RootID)[0]))
	require.Equal(t, "[b]x[/b]", p.ParsedText())
	require.Contains(t, issues(p), IssueMisnestedTag)
}

func TestParse_MisnestedAcrossVoid(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[u][b]x[br]y[/u][/b]"))

	root := children(p, RootID)
	require.Len(t, root, 2)
	require.Equal(t, KindUnderline, root[0].Kind)
	require.True(t, root[0].IsClosed())
	require.Equal(t, "[/b]", root[1].Text)

	under := children(p, p.Tree().Children(RootID)[0])
	require.Len(t, under, 3)
	require.Equal(t, "[b]x", under[0].Text)
	require.Equal(t, KindNewline, under[1].Kind)
	require.Equal(t, "y", under[2].Text)

	require.Empty(t, p.Tree().Find(KindBold))
	require.Equal(t, "[b]x\ny[/b]", p.ParsedText())
	require.Contains(t, issues(p), IssueMisnestedTag)
}

func TestParse_MisnestedAcrossGreedy(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[u][b][code][i][/code]y[/u][/b]"))

	root := children(p, RootID)
	require.Len(t, root, 2)
	require.Equal(t, KindUnderline, root[0].Kind)
	require.True(t, root[0].IsClosed())
	require.Equal(t, "[/b]", root[1].Text)

	under := children(p, p.Tree().Children(RootID)[0])
	require.Len(t, under, 3)
	require.Equal(t, "[b]", under[0].Text)
	require.Equal(t, KindMono, under[1].Kind)
	require.Equal(t, "y", under[2].Text)

	require.Empty(t, p.Tree().Find(KindBold))
	require.Equal(t, "[b][i]y[/b]", p.ParsedText())
}

func TestParse_MisnestedBuildsNothing(t *testing.T) {
	loads := 0
	loader := resource.LoaderFunc(func(path string, typ resource.Type) (resource.Handle, error) {
		loads++
		return resource.Handle{}, resource.ErrNotFound
	})

	p := testParser(t, WithLoader(loader))
	require.NoError(t, p.Parse("[u][font=a.ttf]x[/u][/font]"))

	require.Zero(t, loads)
	require.Empty(t, p.Tree().Find(KindFont))
	require.Contains(t, issues(p), IssueMisnestedTag)
	require.NotContains(t, issues(p), IssueResourceNotLoaded)

	require.NoError(t, p.Parse("[u][font=a.ttf]x[/font][/u]"))
	require.Equal(t, 1, loads)
	require.Len(t, p.Tree().Find(KindFont), 1)
	require.Contains(t, issues(p), IssueResourceNotLoaded)
}

func TestParse_MisnestedSkipsHandlers(t *testing.T) {
	reg := testRegistry(t)

	calls := 0
	reg.RegisterHandler(func(tc *TagContext) (Resolution, error) {
		calls++
		return ItemResolution(tc.NewItem(KindCustom)), nil
	})

	p, err := New(reg)
	require.NoError(t, err)

	require.NoError(t, p.Parse("[u][custom]x[/u][/custom]"))
	require.Zero(t, calls)
	require.Empty(t, p.Tree().Find(KindCustom))

	require.NoError(t, p.Parse("[custom]x[/custom]"))
	require.Equal(t, 1, calls)
	require.Len(t, p.Tree().Find(KindCustom), 1)
}

func TestParse_GreedyCode(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[code][b]x[/b][/code]"))

	root := children(p, RootID)
	require.Len(t, root, 1)

	mono := root[0]
	require.Equal(t, KindMono, mono.Kind)
	require.True(t, mono.IsClosed())
	require.Equal(t, 14, mono.EndTagStart)
	require.Equal(t, 21, mono.EndTagEnd)

	require.Empty(t, p.Tree().Find(KindBold))
	require.Equal(t, "[b]x[/b]", p.ParsedText())
}

func TestParse_GreedyUnclosedFallsBack(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[code]x"))

	root := children(p, RootID)
	require.Len(t, root, 1)
	require.Equal(t, KindMono, root[0].Kind)
	require.False(t, root[0].IsClosed())
	require.Equal(t, "x", p.ParsedText())
	require.Equal(t, []Issue{IssueUnclosedGreedyTag}, issues(p))
}

func TestParse_Grasping(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterClass("raw", "Mono", WithGreed(Grasping)))

	p, err := New(reg)
	require.NoError(t, err)
	require.NoError(t, p.Parse("a[raw][b]rest"))

	mono := p.Tree().Item(p.Tree().Find(KindMono)[0])
	require.False(t, mono.IsClosed())
	require.Equal(t, 6, mono.ContentStart)
	require.Equal(t, 13, mono.ContentEnd)
	require.Equal(t, "a[b]rest", p.ParsedText())
	require.Equal(t, p.Tree().Find(KindMono)[0], p.CurrentItem())
}

func TestParse_Image(t *testing.T) {
	var loaded []string
	loader := resource.LoaderFunc(func(path string, typ resource.Type) (resource.Handle, error) {
		loaded = append(loaded, path)
		if path == "missing.png" {
			return resource.Handle{}, resource.ErrNotFound
		}
		return resource.Handle{Path: path, Type: typ, Width: 64, Height: 32}, nil
	})

	p := testParser(t, WithLoader(loader))
	require.NoError(t, p.Parse("a[img width=10 color=red]icon.png[/img]b"))

	root := children(p, RootID)
	require.Len(t, root, 3)

	img := root[1]
	require.Equal(t, KindImage, img.Kind)
	require.True(t, img.SelfContained)
	require.Equal(t, "icon.png", img.Text)
	require.Equal(t, 0, img.ChildCount)

	payload, ok := img.Payload.(ImagePayload)
	require.True(t, ok)
	require.Equal(t, 10, payload.Width)
	require.Equal(t, "icon.png", payload.Texture.Path)
	require.Equal(t, 64, payload.Texture.Width)
	require.Equal(t, 1.0, payload.Color.R)

	require.Equal(t, "ab", p.ParsedText())
	require.Equal(t, "ab", p.Tree().ContentText(RootID))

	// a missing texture keeps the item with an empty handle
	require.NoError(t, p.Parse("[img=8x4]missing.png[/img]"))
	img = p.Tree().Item(p.Tree().Find(KindImage)[0])
	payload = img.Payload.(ImagePayload)
	require.True(t, payload.Texture.IsEmpty())
	require.Equal(t, 8, payload.Width)
	require.Equal(t, 4, payload.Height)
	require.Equal(t, []Issue{IssueResourceNotLoaded}, issues(p))
	require.Equal(t, []string{"icon.png", "missing.png"}, loaded)
}

func TestParse_ImageClass(t *testing.T) {
	var loaded []string
	loader := resource.LoaderFunc(func(path string, typ resource.Type) (resource.Handle, error) {
		loaded = append(loaded, path)
		return resource.Handle{Path: path, Type: typ, Width: 16, Height: 16}, nil
	})

	reg := testRegistry(t)
	require.NoError(t, reg.RegisterClass("pic", "Image"))

	p, err := New(reg, WithLoader(loader))
	require.NoError(t, err)
	require.NoError(t, p.Parse("[pic]a.png[/pic]"))

	root := children(p, RootID)
	require.Len(t, root, 1)

	img := root[0]
	require.Equal(t, KindImage, img.Kind)
	require.Equal(t, "Image", img.ClassName)
	require.Equal(t, "a.png", img.Text)
	require.Equal(t, 0, img.ChildCount)

	payload, ok := img.Payload.(ImagePayload)
	require.True(t, ok)
	require.Equal(t, "a.png", payload.Texture.Path)
	require.Equal(t, []string{"a.png"}, loaded)
	require.Empty(t, p.ParsedText())
}

func TestParse_CodeblockTrimsNewlines(t *testing.T) {
	var removed []int
	p := testParser(t, WithListener(ListenerFuncs{
		OnNewlineRemoved: func(pos int) { removed = append(removed, pos) },
	}))

	require.NoError(t, p.Parse("[codeblock]\nline\n[/codeblock]"))

	require.Equal(t, []int{11, 16}, removed)
	require.Equal(t, "line", p.ParsedText())

	mono := p.Tree().Item(p.Tree().Find(KindMono)[0])
	require.Equal(t, 12, mono.ContentStart)
	require.Equal(t, 16, mono.ContentEnd)
}

func TestParse_VoidNewline(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("a[br]b"))

	root := children(p, RootID)
	require.Len(t, root, 3)
	require.Equal(t, KindNewline, root[1].Kind)
	require.Equal(t, 0, root[1].ChildCount)
	require.Equal(t, "b", root[2].Text)

	require.Equal(t, "a\nb", p.ParsedText())
	require.Equal(t, "a\nb", p.Tree().ContentText(RootID))
	require.Equal(t, RootID, p.CurrentItem())
}

func TestParse_Unterminated(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("a [b x"))

	root := children(p, RootID)
	require.Len(t, root, 1)
	require.Equal(t, "a [b x", root[0].Text)
	require.Equal(t, []Issue{IssueUnterminatedTag}, issues(p))
}

func TestParse_MalformedResumesNextChar(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[[b]x[/b]"))

	root := children(p, RootID)
	require.Len(t, root, 2)
	require.Equal(t, "[", root[0].Text)
	require.Equal(t, KindBold, root[1].Kind)
	require.Equal(t, "[x", p.ParsedText())
}

func TestParse_BraceData(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterHandler(func(tc *TagContext) (Resolution, error) {
		if tc.Tag != "x" {
			return Resolution{}, nil
		}
		return ItemResolution(tc.NewItem(KindCustom)), nil
	})

	p, err := New(reg)
	require.NoError(t, err)
	require.NoError(t, p.Parse("[x={a:{b:1}}]"))

	it := p.Tree().Item(p.Tree().Find(KindCustom)[0])
	require.Equal(t, "{a:{b:1}}", it.TagData)
	require.Equal(t, "", p.ParsedText())
}

func TestParse_Paragraph(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[p language=de-CH align=center direction=rtl]x[/p][right]y[/right]"))

	ids := p.Tree().Find(KindParagraph)
	require.Len(t, ids, 2)

	first := p.Tree().Item(ids[0]).Payload.(ParagraphPayload)
	require.Equal(t, language.MustParse("de-CH"), first.Language)
	require.Equal(t, AlignCenter, first.Alignment)
	require.Equal(t, DirectionRTL, first.Direction)
	require.Equal(t, AlignCenter, p.Tree().Item(ids[0]).Cursor.HorizontalAlignment)

	second := p.Tree().Item(ids[1]).Payload.(ParagraphPayload)
	require.Equal(t, AlignRight, second.Alignment)
}

func TestParse_Lists(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[ol type=I]a[/ol][ul]b[/ul][ol=a]c[/ol]"))

	ids := p.Tree().Find(KindList)
	require.Len(t, ids, 3)

	require.Equal(t, ListPayload{Type: ListRoman, Capitalize: true}, p.Tree().Item(ids[0]).Payload)
	require.Equal(t, ListPayload{Type: ListDots, Bullet: "•"}, p.Tree().Item(ids[1]).Payload)
	require.Equal(t, ListPayload{Type: ListLetters}, p.Tree().Item(ids[2]).Payload)
}

func TestParse_FontSizeCursor(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[size=32]big[/size]small"))

	size := p.Tree().Item(p.Tree().Find(KindFontSize)[0])
	require.Equal(t, 32, size.Cursor.FontSize)
	require.Equal(t, DefaultFontSize, size.LastCursor.FontSize)

	root := children(p, RootID)
	require.Equal(t, DefaultFontSize, root[1].Cursor.FontSize)
}

func TestParse_Events(t *testing.T) {
	var events []string

	p := testParser(t)
	p.AddListener(ListenerFuncs{
		OnItemEntered: func(tree *Tree, id ItemID) {
			events = append(events, "enter "+tree.Item(id).Kind.String())
		},
		OnItemExited: func(tree *Tree, id ItemID) {
			events = append(events, "exit "+tree.Item(id).Kind.String())
		},
		OnTextAppended: func(tree *Tree, id ItemID, text string) {
			events = append(events, "text "+text)
		},
	})

	require.NoError(t, p.Parse("[b]x[/b]y"))

	require.Equal(t, []string{
		"enter Bold",
		"enter Text",
		"text x",
		"exit Text",
		"exit Bold",
		"enter Text",
		"text y",
		"exit Text",
	}, events)
}

func TestFinish_ClosesOpenItems(t *testing.T) {
	var exited []Kind

	p := testParser(t, WithListener(ListenerFuncs{
		OnItemExited: func(tree *Tree, id ItemID) {
			exited = append(exited, tree.Item(id).Kind)
		},
	}))

	require.NoError(t, p.Parse("[b][i]x"))
	require.Equal(t, KindItalics, p.Tree().Item(p.CurrentItem()).Kind)

	exited = nil
	require.NoError(t, p.Finish())

	require.Equal(t, []Kind{KindItalics, KindBold}, exited)
	require.Equal(t, RootID, p.CurrentItem())

	bold := p.Tree().Item(p.Tree().Find(KindBold)[0])
	require.False(t, bold.IsClosed())
	require.Equal(t, 7, bold.ContentEnd)

	// finishing twice is harmless
	require.NoError(t, p.Finish())
}

func TestParse_Reentrant(t *testing.T) {
	p := testParser(t)

	var inner error
	p.AddListener(ListenerFuncs{
		OnItemEntered: func(tree *Tree, id ItemID) {
			if inner == nil {
				inner = p.Append("nested")
			}
		},
	})

	require.NoError(t, p.Parse("[b]x[/b]"))
	require.ErrorIs(t, inner, ErrReentrantParse)
	require.Equal(t, "[b]x[/b]", p.RawText())

	var e *Error
	require.True(t, errors.As(inner, &e))
	require.Equal(t, IssueReentrantParse, e.Issue)
}

func TestParser_PushPop(t *testing.T) {
	p := testParser(t)

	require.ErrorIs(t, p.Pop(), ErrEmptyStack)

	_, err := p.PopExpected("b")
	require.ErrorIs(t, err, ErrEmptyStack)

	it := NewItem(KindCustom)
	it.TagName = "widget"

	id, err := p.Push(it)
	require.NoError(t, err)
	require.Equal(t, id, p.CurrentItem())
	require.Equal(t, RootID, p.Tree().Item(id).Parent)

	ok, err := p.PopExpected("other")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, id, p.CurrentItem())

	// streamed text goes into the pushed item
	require.NoError(t, p.Append("inside"))
	require.Equal(t, "inside", p.Tree().ContentText(id))

	ok, err = p.PopExpected("widget")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, RootID, p.CurrentItem())
}

func TestParser_CursorsAreOwned(t *testing.T) {
	p := testParser(t)

	it := NewItem(KindCustom)
	it.TagName = "widget"
	c := NewDrawCursor(NewDefaults())
	c.SetMeta("layer", "top")
	it.SetCursor(c)

	id, err := p.Push(it)
	require.NoError(t, err)
	require.NoError(t, p.Append("a"))
	require.NoError(t, p.Pop())
	require.NoError(t, p.Append("[b]b[/b]"))

	tree := p.Tree()
	widget := tree.Item(id)
	inner := children(p, id)[0]
	require.Equal(t, "top", inner.Cursor.Metadata["layer"])
	require.Equal(t, "top", inner.LastCursor.Metadata["layer"])

	inner.Cursor.SetMeta("layer", "text")
	inner.LastCursor.SetMeta("layer", "last")
	require.Equal(t, "top", widget.Cursor.Metadata["layer"])

	widget.Cursor.SetMeta("layer", "changed")
	widget.LastCursor.SetMeta("layer", "changed")

	root := children(p, RootID)
	require.Len(t, root, 2)
	require.NotContains(t, root[1].Cursor.Metadata, "layer")
	require.NotContains(t, root[1].LastCursor.Metadata, "layer")

	// the builder keeps its own copy as well
	require.NoError(t, p.Append("c"))
	last := tree.Item(tree.Children(RootID)[2])
	require.Equal(t, "c", last.Text)
	require.NotContains(t, last.Cursor.Metadata, "layer")
}

func TestParser_Extent(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[b]ab[/b]\n日本"))

	require.Equal(t, 4, p.Width())
	require.Equal(t, 2, p.Height())

	require.NoError(t, p.Append("[br]longer line"))
	require.Equal(t, 11, p.Width())
	require.Equal(t, 3, p.Height())

	require.NoError(t, p.Clear())
	require.Equal(t, 0, p.Width())
	require.Equal(t, 0, p.Height())
}

func TestParser_Clear(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[b]x [nope]"))
	require.NotEmpty(t, p.Warnings())

	require.NoError(t, p.Clear())
	require.Equal(t, "", p.RawText())
	require.Equal(t, "", p.ParsedText())
	require.Equal(t, 1, p.Tree().Len())
	require.Equal(t, 0, p.Tree().Root().ChildCount)
	require.Equal(t, RootID, p.CurrentItem())
	require.Empty(t, p.Warnings())
}

func TestParser_WarningsOverflow(t *testing.T) {
	p, err := New(NewRegistry(), WithWarnings(WarnOverflowTrunc, 2))
	require.NoError(t, err)

	require.NoError(t, p.Parse("[x][y][z]"))
	require.Equal(t, []Issue{IssueUnknownTag, IssueWarningsTruncated}, issues(p))
	require.Equal(t, 3, p.Warnings()[1].Pos)
	require.Equal(t, "[x][y][z]", p.ParsedText())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)

	_, err = New(NewRegistry(), WithLimits(Limits{MaxTagLen: -1}))
	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, IssueNegativeLimit, e.Issue)

	_, err = New(NewRegistry(), WithWarnings(WarnOverflowDrop, -1))
	require.ErrorAs(t, err, &e)
	require.Equal(t, IssueNegativeWarningsCap, e.Issue)
}

func TestParser_Serialize(t *testing.T) {
	p := testParser(t)
	require.NoError(t, p.Parse("[b]x[/b] [nope]"))

	doc := p.Serialize()
	require.Equal(t, "x [nope]", doc.ParsedText)
	require.Equal(t, 8, doc.Width)
	require.Equal(t, 1, doc.Height)
	require.Len(t, doc.Warnings, 1)

	require.Equal(t, "Root", doc.Tree.Kind)
	require.Equal(t, 0, doc.Tree.Start)
	require.Equal(t, 15, doc.Tree.End)
	require.Len(t, doc.Tree.Children, 2)

	bold := doc.Tree.Children[0]
	require.Equal(t, "Bold", bold.Kind)
	require.True(t, bold.Closed)
	require.Equal(t, 0, bold.Start)
	require.Equal(t, 8, bold.End)
	require.Equal(t, "x", bold.Children[0].Text)
}
