package lists

import (
	"io"
	"strings"
)

// piece is a unit of output: a pass-through token, a source tag or a synthesized tag.
type piece struct {
	text    string
	dropped bool
}

// output collects the resolved pieces of a fragment. Pieces are mostly appended; the repair rules
// that act on an earlier position (a synthesized opening tag, a close moved back to the last item)
// insert at an index remembered by a frame. Removed tags are marked dropped rather than deleted so
// remembered indices stay valid.
type output struct {
	pieces []piece
	size   int
}

// len returns the index the next appended piece gets.
func (o *output) len() int {
	return len(o.pieces)
}

// append adds s at the end and returns its index.
func (o *output) append(s string) int {
	o.pieces = append(o.pieces, piece{text: s})
	o.size += len(s)
	return len(o.pieces) - 1
}

// insert places s before the piece at index i, shifting it and every later piece by one.
func (o *output) insert(i int, s string) {
	if i < 0 || i > len(o.pieces) {
		panic("lists: insert out of range")
	}
	o.pieces = append(o.pieces, piece{})
	copy(o.pieces[i+1:], o.pieces[i:])
	o.pieces[i] = piece{text: s}
	o.size += len(s)
}

// drop removes the piece at index i from the rendered output.
func (o *output) drop(i int) {
	if o.pieces[i].dropped {
		panic("lists: piece dropped twice")
	}
	o.pieces[i].dropped = true
	o.size -= len(o.pieces[i].text)
}

// text returns the text of the piece at index i.
func (o *output) text(i int) string {
	return o.pieces[i].text
}

// blank reports whether the kept pieces from index i to the end hold only whitespace.
func (o *output) blank(i int) bool {
	for _, p := range o.pieces[i:] {
		if !p.dropped && !isBlank(p.text) {
			return false
		}
	}
	return true
}

// WriteTo writes the kept pieces to w. A space separates a piece ending in a literal '<' from a
// following piece that would turn it into markup; the two only meet when a tag between them was
// dropped.
func (o *output) WriteTo(w io.Writer) (int64, error) {
	var (
		n    int64
		last string
	)
	for _, p := range o.pieces {
		if p.dropped || p.text == "" {
			continue
		}
		s := p.text
		if splices(last, s) {
			s = " " + s
		}
		m, err := io.WriteString(w, s)
		n += int64(m)
		if err != nil {
			return n, err
		}
		last = p.text
	}
	return n, nil
}

// splices reports whether next written right after prev starts a tag, an end tag or a comment at
// the '<' that ends prev.
func splices(prev, next string) bool {
	if !strings.HasSuffix(prev, "<") || next == "" {
		return false
	}
	switch c := next[0]; {
	case c == '/', c == '!', c == '?':
		return true
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	}
	return false
}

func (o *output) String() string {
	var sb strings.Builder
	sb.Grow(o.size + 1)
	_, _ = o.WriteTo(&sb)
	return sb.String()
}
