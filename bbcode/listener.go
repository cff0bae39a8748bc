package bbcode

// Listener receives the structural events of the parse, in document order.
//
// The *Tree passed to the callbacks is owned by the [Parser]: read it during the
// call, but don't keep item pointers after returning.
type Listener interface {
	// ItemEntered is called right after the item is attached to the tree.
	ItemEntered(t *Tree, id ItemID)

	// ItemExited is called when the item is closed, either by its closing tag or by [Parser.Finish].
	// Text runs are entered and exited at once.
	ItemExited(t *Tree, id ItemID)

	// TextAppended is called with every piece of text added to a text run.
	TextAppended(t *Tree, id ItemID, text string)

	// NewlineRemoved is called when a newline at pos is dropped from the content of a tag
	// registered with [WithNewlineTrim].
	NewlineRemoved(pos int)
}

// ListenerFuncs is an adapter to allow the use of ordinary functions as a [Listener].
// Nil fields are skipped.
type ListenerFuncs struct {
	OnItemEntered    func(t *Tree, id ItemID)
	OnItemExited     func(t *Tree, id ItemID)
	OnTextAppended   func(t *Tree, id ItemID, text string)
	OnNewlineRemoved func(pos int)
}

func (f ListenerFuncs) ItemEntered(t *Tree, id ItemID) {
	if f.OnItemEntered != nil {
		f.OnItemEntered(t, id)
	}
}

func (f ListenerFuncs) ItemExited(t *Tree, id ItemID) {
	if f.OnItemExited != nil {
		f.OnItemExited(t, id)
	}
}

func (f ListenerFuncs) TextAppended(t *Tree, id ItemID, text string) {
	if f.OnTextAppended != nil {
		f.OnTextAppended(t, id, text)
	}
}

func (f ListenerFuncs) NewlineRemoved(pos int) {
	if f.OnNewlineRemoved != nil {
		f.OnNewlineRemoved(pos)
	}
}
