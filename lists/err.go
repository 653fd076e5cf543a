package lists

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Structure problems reported by Check.
var (
	ErrListInList      = errors.New("list directly inside a list")
	ErrItemOutsideList = errors.New("item outside a list")
	ErrUnmatchedClose  = errors.New("closing tag does not match an open element")
	ErrUnclosed        = errors.New("element is not closed")
)

// StructureError locates a list tag that breaks the list structure of a fragment.
type StructureError struct {
	// Tag is the source text of the offending tag.
	Tag  string
	Span Span
	err  error
}

func newStructureError(src string, tok Token, err error) *StructureError {
	return &StructureError{
		Tag:  tok.Raw,
		Span: spanAt(src, tok.Offset, len(tok.Raw)),
		err:  err,
	}
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Span, e.Tag, e.err)
}

func (e *StructureError) Unwrap() error {
	return e.err
}

// Context returns the source lines around the error, n lines before and after, numbered and with
// the offending tag underlined. It returns "" when the span does not lie within src.
func (e *StructureError) Context(src string, n int) string {
	lines := strings.Split(src, "\n")
	if e.Span.IsZero() || e.Span.Line > len(lines) || e.Span.End() > len(src) {
		return ""
	}

	from := max(1, e.Span.Line-n)
	to := min(len(lines), e.Span.Line+n)
	width := len(fmt.Sprint(to))

	// underline the part of the tag on the error line
	mark := src[e.Span.Offset:e.Span.End()]
	if i := strings.IndexByte(mark, '\n'); i >= 0 {
		mark = mark[:i]
	}
	underline := "^" + strings.Repeat("~", max(0, utf8.RuneCountInString(mark)-1))

	var b strings.Builder
	for i := from; i <= to; i++ {
		fmt.Fprintf(&b, "%*d | %s\n", width, i, lines[i-1])
		if i == e.Span.Line {
			fmt.Fprintf(&b, "%*s | %s%s\n", width, "", strings.Repeat(" ", e.Span.Column-1), underline)
		}
	}
	return b.String()
}
