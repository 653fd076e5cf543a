package lists

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	type problem struct {
		err  error
		tag  string
		span string
	}
	tests := []struct {
		name string
		src  string
		want []problem
	}{
		{"well formed", "<ul>\n  <li>A<ol><li>1</li></ol></li>\n</ul>", nil},
		{"no lists", "<p>text</p>", nil},
		{"close names are case insensitive", "<UL><li>A</LI></ul>", nil},
		{
			name: "item outside list",
			src:  "<li>A</li>",
			want: []problem{{ErrItemOutsideList, "<li>", "1:1"}},
		},
		{
			name: "list in list",
			src:  "<ul><ol></ol></ul>",
			want: []problem{{ErrListInList, "<ol>", "1:5"}},
		},
		{
			name: "mismatched close",
			src:  "<ul>\n  <li>A</li>\n  </ol>\n</ul>",
			want: []problem{{ErrUnmatchedClose, "</ol>", "3:3"}},
		},
		{
			name: "stray close",
			src:  "a</li>",
			want: []problem{{ErrUnmatchedClose, "</li>", "1:2"}},
		},
		{
			name: "unclosed",
			src:  "<ol>\n<li>A",
			want: []problem{
				{ErrUnclosed, "<ol>", "1:1"},
				{ErrUnclosed, "<li>", "2:1"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.src)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)

			joined, ok := err.(interface{ Unwrap() []error })
			require.True(t, ok, "Check() should join its errors")
			errs := joined.Unwrap()
			require.Len(t, errs, len(tt.want))

			for i, w := range tt.want {
				var se *StructureError
				require.True(t, errors.As(errs[i], &se))
				assert.ErrorIs(t, se, w.err)
				assert.Equal(t, w.tag, se.Tag)
				assert.Equal(t, w.span, se.Span.String())
			}
		})
	}
}

func TestStructureError(t *testing.T) {
	src := "<ul>\n  <li>A</li>\n  </ol>\n</ul>"
	err := Check(src)
	require.ErrorIs(t, err, ErrUnmatchedClose)
	require.EqualError(t, err, "3:3: </ol>: closing tag does not match an open element")

	var se *StructureError
	require.ErrorAs(t, err, &se)
	require.Equal(t, Span{Offset: 20, Line: 3, Column: 3, Length: 5}, se.Span)
	require.Equal(t, 25, se.Span.End())

	want := "2 |   <li>A</li>\n" +
		"3 |   </ol>\n" +
		"  |   ^~~~~\n" +
		"4 | </ul>\n"
	require.Equal(t, want, se.Context(src, 1))
	require.Empty(t, se.Context("", 1))
	require.Empty(t, se.Context(src[:22], 1), "tag cut off")
	require.Empty(t, (&StructureError{}).Context(src, 1))
}

func TestSpanAt(t *testing.T) {
	src := "ab\ncé<li>"
	s := spanAt(src, 6, 4)
	require.Equal(t, Span{Offset: 6, Line: 2, Column: 3, Length: 4}, s)
	require.Equal(t, "2:3", s.String())
	require.False(t, s.IsZero())
	require.True(t, Span{}.IsZero())
}
