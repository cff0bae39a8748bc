package bbcode

// builder attaches items to the [Tree] and keeps the stack of the open ones.
//
// The stack holds the path from the root to the current open item. The bottom
// element is always [RootID] and is never popped. The active [DrawCursor] moves
// in lock-step with the stack: pushing an item installs its cursor, popping it
// restores the cursor the item saw when it was opened. Every item owns its
// cursors; none of them shares Metadata with the builder or another item.
type builder struct {
	tree      *Tree
	stack     []ItemID
	cursor    DrawCursor
	listeners []Listener
}

func (b *builder) reset(cursor DrawCursor) {
	b.stack = append(b.stack[:0], RootID)
	b.cursor = cursor.Clone()
}

// current returns the item new children get appended to.
func (b *builder) current() ItemID {
	// the root is always present, so the stack is never empty
	return b.stack[len(b.stack)-1]
}

// depth is the number of open items, the root excluded.
func (b *builder) depth() int {
	return len(b.stack) - 1
}

// openTags returns the tag names of the open items, outermost first.
func (b *builder) openTags() []string {
	out := make([]string, 0, b.depth())
	for _, id := range b.stack[1:] {
		out = append(out, b.tree.Items[id].TagName)
	}
	return out
}

// push attaches the item to the current one and opens it.
func (b *builder) push(it *Item) ItemID {
	it.Parent = b.current()
	it.FirstChild, it.LastChild, it.NextSibling, it.ChildCount = NoItem, NoItem, NoItem, 0

	it.LastCursor = b.cursor.Clone()
	if !it.hasCursor {
		it.SetCursor(b.cursor.Clone())
	}
	b.cursor = it.Cursor.Clone()

	id := b.tree.link(*it)
	b.stack = append(b.stack, id)
	b.tree.MaxDepth = max(b.tree.MaxDepth, len(b.stack))

	for _, l := range b.listeners {
		l.ItemEntered(b.tree, id)
	}

	return id
}

// pop closes the current item.
func (b *builder) pop() (ItemID, error) {
	if len(b.stack) <= 1 {
		return NoItem, NewError(IssueEmptyStack, ErrEmptyStack)
	}

	last := len(b.stack) - 1
	id := b.stack[last]
	b.stack = b.stack[:last]

	for _, l := range b.listeners {
		l.ItemExited(b.tree, id)
	}

	b.cursor = b.tree.Items[id].LastCursor.Clone()

	return id, nil
}

// popExpected closes the current item only if it was opened by the tag.
func (b *builder) popExpected(tag string) (bool, error) {
	if len(b.stack) <= 1 {
		return false, NewError(IssueEmptyStack, ErrEmptyStack)
	}

	if b.tree.Items[b.current()].TagName != tag {
		return false, nil
	}

	_, err := b.pop()
	return err == nil, err
}

// appendText adds the text run covering [start, end) of the raw text to the current item.
// A run directly continuing the last child text run is merged into it.
func (b *builder) appendText(text string, start, end int) ItemID {
	parent := &b.tree.Items[b.current()]

	if last := parent.LastChild; last != NoItem {
		prev := &b.tree.Items[last]
		if prev.Kind == KindText && prev.ContentEnd == start {
			prev.Text += text
			prev.ContentEnd = end

			for _, l := range b.listeners {
				l.TextAppended(b.tree, last, text)
			}
			return last
		}
	}

	it := NewItem(KindText)
	it.ClassName = KindText.String()
	it.Text = text
	it.ContentStart = start
	it.ContentEnd = end
	it.Parent = b.current()
	it.LastCursor = b.cursor.Clone()
	it.SetCursor(b.cursor.Clone())

	id := b.tree.link(*it)

	for _, l := range b.listeners {
		l.ItemEntered(b.tree, id)
		l.TextAppended(b.tree, id, text)
		l.ItemExited(b.tree, id)
	}

	return id
}
