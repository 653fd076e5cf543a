package lists

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Span represents a location in a source fragment.
type Span struct {
	Offset int // Byte offset in the fragment
	Line   int // 1-based line number
	Column int // 1-based column number (in runes, not bytes)
	Length int // Length in bytes
}

// IsZero returns true if the span is uninitialized
func (s Span) IsZero() bool {
	return s.Offset == 0 && s.Line == 0 && s.Column == 0 && s.Length == 0
}

// End returns the end offset of the span
func (s Span) End() int {
	return s.Offset + s.Length
}

func (s Span) String() string {
	return strconv.Itoa(s.Line) + ":" + strconv.Itoa(s.Column)
}

// spanAt locates length bytes at offset in src.
func spanAt(src string, offset, length int) Span {
	before := src[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return Span{
		Offset: offset,
		Line:   1 + strings.Count(before, "\n"),
		Column: 1 + utf8.RuneCountInString(before[lineStart:]),
		Length: length,
	}
}
