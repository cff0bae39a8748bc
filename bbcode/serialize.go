package bbcode

type SerializableItem struct {
	Kind          string             `json:"kind"`
	Class         string             `json:"class,omitempty"`
	Tag           string             `json:"tag,omitempty"`
	Data          string             `json:"data,omitempty"`
	Options       Options            `json:"options,omitempty"`
	Text          string             `json:"text,omitempty"`
	SelfContained bool               `json:"self_contained,omitempty"`
	Closed        bool               `json:"closed"`
	Start         int                `json:"start"`
	End           int                `json:"end"`
	Payload       Payload            `json:"payload,omitempty"`
	Children      []SerializableItem `json:"children"`
}

type serializeTask struct {
	parent   *SerializableItem
	childIdx int // index in parent.Children
	id       ItemID
}

func serializeItem(it *Item) SerializableItem {
	end := it.EndTagEnd
	if end < 0 {
		end = it.ContentEnd
	}

	start := it.StartTagStart
	if start < 0 {
		start = it.ContentStart
	}

	return SerializableItem{
		Kind:          it.Kind.String(),
		Class:         it.ClassName,
		Tag:           it.TagName,
		Data:          it.TagData,
		Options:       it.Options,
		Text:          it.Text,
		SelfContained: it.SelfContained,
		Closed:        it.IsClosed(),
		Start:         start,
		End:           end,
		Payload:       it.Payload,
		Children:      make([]SerializableItem, it.ChildCount),
	}
}

// Serialize converts the arena into a nested structure, ready for JSON encoding.
func (t *Tree) Serialize() SerializableItem {
	root := &t.Items[RootID]
	tree := serializeItem(root)

	stack := make([]serializeTask, 0, t.MaxDepth)
	childIdx := root.FirstChild
	for i := 0; i < root.ChildCount; i++ {
		stack = append(stack, serializeTask{&tree, i, childIdx})
		childIdx = t.Items[childIdx].NextSibling
	}

	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		it := &t.Items[task.id]
		task.parent.Children[task.childIdx] = serializeItem(it)

		placed := &task.parent.Children[task.childIdx]
		childIdx := it.FirstChild
		for i := 0; i < it.ChildCount; i++ {
			stack = append(stack, serializeTask{
				parent:   placed,
				childIdx: i,
				id:       childIdx,
			})
			childIdx = t.Items[childIdx].NextSibling
		}
	}

	return tree
}

// SerializableDocument is the full result of a parse.
type SerializableDocument struct {
	Tree       SerializableItem `json:"tree"`
	ParsedText string           `json:"parsed_text"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Warnings   []Warning        `json:"warnings"`
}
