package bbcode

import "strings"

// Tree is the arena-backed item tree. Items[0] is always the root.
type Tree struct {
	Items []Item

	// MaxDepth is the deepest nesting level reached, the root being level 1.
	MaxDepth int
}

func newTree() Tree {
	t := Tree{Items: make([]Item, 0, 16)}
	t.reset()
	return t
}

// reset destroys all the items except the root.
func (t *Tree) reset() {
	root := NewItem(KindRoot)
	root.ClassName = KindRoot.String()

	t.Items = append(t.Items[:0], *root)
	t.MaxDepth = 1
}

// Len is the number of items including the root.
func (t *Tree) Len() int {
	return len(t.Items)
}

// Item returns the item with the given id. The pointer is valid until the next item is added.
func (t *Tree) Item(id ItemID) *Item {
	return &t.Items[id]
}

// Root returns the root item.
func (t *Tree) Root() *Item {
	return &t.Items[RootID]
}

// link appends the item to the arena as the last child of it.Parent.
func (t *Tree) link(it Item) ItemID {
	id := ItemID(len(t.Items))
	t.Items = append(t.Items, it)

	parent := &t.Items[it.Parent]
	if parent.LastChild == NoItem {
		parent.FirstChild = id
	} else {
		t.Items[parent.LastChild].NextSibling = id
	}
	parent.LastChild = id
	parent.ChildCount++

	return id
}

// Children returns the IDs of the direct children of the item, in order.
func (t *Tree) Children(id ItemID) []ItemID {
	it := &t.Items[id]
	out := make([]ItemID, 0, it.ChildCount)
	for c := it.FirstChild; c != NoItem; c = t.Items[c].NextSibling {
		out = append(out, c)
	}
	return out
}

// Walk visits the item and all its descendants in document order. Returning false from fn
// skips the children of the visited item.
func (t *Tree) Walk(id ItemID, fn func(id ItemID, depth int) bool) {
	type frame struct {
		id    ItemID
		depth int
	}

	stack := make([]frame, 0, t.MaxDepth)
	stack = append(stack, frame{id, 0})

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !fn(f.id, f.depth) {
			continue
		}

		// push children in reverse so the first child is visited first
		children := t.Children(f.id)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
}

// ContentText returns the plain text of the item's descendants, i.e. its part of the parsed text.
func (t *Tree) ContentText(id ItemID) string {
	var sb strings.Builder

	t.Walk(id, func(c ItemID, _ int) bool {
		it := &t.Items[c]
		if it.SelfContained {
			return false
		}
		sb.WriteString(it.Text)
		return true
	})

	return sb.String()
}

// Find returns the IDs of all the items of the given kind, in document order.
func (t *Tree) Find(kind Kind) []ItemID {
	var out []ItemID
	t.Walk(RootID, func(id ItemID, _ int) bool {
		if t.Items[id].Kind == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}
