package conformance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	fx := &Fixture{
		Description: "Missing closing li.",
		Input:       "<ul><li>a</ul>",
		Expected:    "<ul><li>a</li></ul>",
		Tags:        []string{"unclosed"},
	}

	tests := []struct {
		src  string
		want bool
	}{
		{"", true},
		{`"unclosed" in tags`, true},
		{`"orphan" in tags`, false},
		{`suite == "cleantest" && index == 12`, true},
		{`index < 3`, false},
		{`description contains "closing"`, true},
		{`len(input) < len(expected)`, true},
		{`input startsWith "<ol"`, false},
		{`expected endsWith "</ul>"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := NewFilter(tt.src)
			require.NoError(t, err)
			require.Equal(t, tt.src, f.String())

			got, err := f.Match("cleantest", 12, fx)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Errors(t *testing.T) {
	for _, src := range []string{
		`index +`,
		`index + 1`,
		`unknown == 1`,
	} {
		_, err := NewFilter(src)
		require.Error(t, err, src)
		require.ErrorContains(t, err, "compile filter")
	}
}

func TestFilter_Nil(t *testing.T) {
	var f *Filter
	ok, err := f.Match("s", 0, &Fixture{})
	require.NoError(t, err)
	require.True(t, ok)
}
