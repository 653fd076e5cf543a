package conformance

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	suites := Builtin()
	require.Len(t, suites, 2)

	require.Equal(t, "cleantest", suites[0].Name)
	require.Len(t, suites[0].Fixtures, 37)
	require.Equal(t, &Fixture{
		Description: "Single orphan li.",
		Input:       "<li>Something</li>",
		Expected:    "<ul><li>Something</li></ul>",
		Tags:        []string{"orphan"},
	}, suites[0].Fixtures[0])

	require.Equal(t, "edge-cases", suites[1].Name)
	require.Len(t, suites[1].Fixtures, 16)
	require.Equal(t, "", suites[1].Fixtures[0].Input)
}

func TestDecode(t *testing.T) {
	src := `
name: sample
fixtures:
- description: orphan
  input: <li>x</li>
  expected: <ul><li>x</li></ul>
- description: multi line
  input: |-
    <ol>
      <li>a</li>
    </ol>
  expected: |-
    <ol>
      <li>a</li>
    </ol>
  tags: [clean]
`
	s, err := Decode(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, "sample", s.Name)
	require.Len(t, s.Fixtures, 2)
	require.Equal(t, "<ol>\n  <li>a</li>\n</ol>", s.Fixtures[1].Input)
	require.Equal(t, []string{"clean"}, s.Fixtures[1].Tags)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
		invalid bool
	}{
		{
			name:    "empty",
			src:     "",
			wantErr: "empty document",
		},
		{
			name:    "unknown field",
			src:     "name: a\nfixtures:\n- description: d\n  output: x\n",
			wantErr: "field output not found",
		},
		{
			name:    "missing name",
			src:     "fixtures:\n- description: d\n",
			wantErr: "Suite.Name",
			invalid: true,
		},
		{
			name:    "no fixtures",
			src:     "name: a\nfixtures: []\n",
			wantErr: "Suite.Fixtures",
			invalid: true,
		},
		{
			name:    "missing description",
			src:     "name: a\nfixtures:\n- input: x\n  expected: x\n",
			wantErr: "Description",
			invalid: true,
		},
		{
			name:    "blank tag",
			src:     "name: a\nfixtures:\n- description: d\n  tags: ['']\n",
			wantErr: "Tags[0]",
			invalid: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			require.ErrorContains(t, err, tt.wantErr)

			var verrs validator.ValidationErrors
			require.Equal(t, tt.invalid, errors.As(err, &verrs))
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"suites/b.yaml":   {Data: []byte("name: b\nfixtures:\n- description: d\n")},
		"suites/a.yaml":   {Data: []byte("name: a\nfixtures:\n- description: d\n")},
		"suites/bad.yml":  {Data: []byte("name: [\n")},
		"suites/note.txt": {Data: []byte("not a suite")},
	}

	suites, err := LoadFS(fsys, "suites/*.yaml")
	require.NoError(t, err)
	require.Len(t, suites, 2)
	require.Equal(t, "a", suites[0].Name)
	require.Equal(t, "b", suites[1].Name)

	_, err = LoadFS(fsys, "suites/*.yml")
	require.ErrorContains(t, err, "suites/bad.yml: decode suite")

	_, err = LoadFS(fsys, "other/*.yaml")
	require.ErrorIs(t, err, ErrNoSuites)
}
