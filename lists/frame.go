package lists

type frameKind int

const (
	listFrame frameKind = iota
	itemFrame
)

// frame is an open ul/ol/li element tracked by the repairer. It is either read from the source
// or synthesized by one of the repair rules.
type frame struct {
	kind frameKind

	// name is the tag name the frame is written with in the output: the source spelling of the
	// opening tag, "li" for a synthesized item, "ul" for an orphan wrapper until a hint tag
	// renames it.
	name string

	// open is the output index of the opening tag. It is -1 for an orphan wrapper, whose opening
	// tag is only materialized when the run is delimited.
	open int

	// start is the output index right after the opening tag. For an orphan wrapper it is the
	// index where the opening tag is inserted.
	start int

	// offset is the source offset of the token that opened the frame.
	offset int

	// boundary is the output index right after the last completed item of a list; the pending
	// region of the list runs from here to the end of the output.
	boundary int

	// items counts the completed, non-empty items of a list.
	items int

	// orphan marks a list synthesized around items that had no enclosing list.
	orphan bool

	// synthetic marks an item synthesized in front of a list nested directly in a list.
	synthetic bool
}

func newList(name string, open, offset int) *frame {
	return &frame{
		kind:     listFrame,
		name:     name,
		open:     open,
		start:    open + 1,
		boundary: open + 1,
		offset:   offset,
	}
}

func newOrphanList(at, offset int) *frame {
	return &frame{
		kind:     listFrame,
		name:     "ul",
		open:     -1,
		start:    at,
		boundary: at,
		offset:   offset,
		orphan:   true,
	}
}

func newItem(name string, open, offset int) *frame {
	return &frame{
		kind:   itemFrame,
		name:   name,
		open:   open,
		start:  open + 1,
		offset: offset,
	}
}

func (f *frame) isList() bool { return f.kind == listFrame }
func (f *frame) isItem() bool { return f.kind == itemFrame }

// openTag returns the opening tag written for a synthesized frame.
func (f *frame) openTag() string {
	return "<" + f.name + ">"
}

// closeTag returns the closing tag written when the frame is closed without a source tag.
func (f *frame) closeTag() string {
	return "</" + f.name + ">"
}
