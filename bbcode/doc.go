// Package bbcode parses BBCode-like rich text markup.
//
// The markup is a plain text with tags in square brackets:
//
//	[b]bold[/b] [color=red]red[/color] [img width=16]res://icon.png[/img] [lb]literal[rb]
//
// A [Parser] turns it into an arena-backed [Tree] of typed [Item]s plus a plain-text
// projection, the parsed text. Tags are looked up in a [Registry], which maps a tag name
// either to a [Constructor] building an item, or to a conversion replacing the tag with
// a fixed text. Generic [Handler]s are consulted for the names the Registry doesn't know.
//
// # Policies
//
//  1. The parser never fails on bad markup. A bracket which doesn't start a valid,
//     known and properly nested tag is a plain text, and a [Warning] is recorded.
//  2. A closing tag must name the innermost open item, BBCode has no mis-nesting.
//  3. Before an item is opened, the text after it is scanned for its closing tag. If an
//     enclosing item is closed first, the tag is a plain text. If the closing tag is
//     missing altogether, the item is opened and implicitly closed at the end.
//  4. Greedy tags, like "[code]", take their content raw: tags inside are not parsed.
//  5. Offsets are character (rune) offsets in the raw text.
//  6. The text can be streamed with [Parser.Append]. Open items stay open between the
//     calls, but a tag split between two calls is not recognized.
//
// The structure of the tree is also reported as it's built to the [Listener]s, which
// is how renderers and indexers like the plaintext package consume it.
package bbcode
