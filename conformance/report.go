package conformance

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Format is an output format of a report.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatJUnit Format = "junit"
)

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatJUnit:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

// Write writes rep to w in format f. Verbose text reports list passing fixtures too.
func (rep *Report) Write(w io.Writer, f Format, verbose bool) error {
	switch f {
	case FormatText:
		return rep.WriteText(w, verbose)
	case FormatJSON:
		return rep.WriteJSON(w)
	case FormatJUnit:
		return rep.WriteJUnit(w)
	}
	return fmt.Errorf("unknown report format %q", string(f))
}

// WriteText writes a human readable report: a diff for every failing fixture and the summary.
func (rep *Report) WriteText(w io.Writer, verbose bool) error {
	var b strings.Builder
	for _, res := range rep.Results {
		switch {
		case !res.Pass:
			fmt.Fprintf(&b, "--- FAIL: %s\n", res.Name())
			fmt.Fprintf(&b, "    input: %q\n", res.Input)
			fmt.Fprintf(&b, "    output mismatch (-expected +output):\n%s", indent(cmp.Diff(res.Expected, res.Output), "    "))
		case verbose:
			fmt.Fprintf(&b, "--- PASS: %s (%s)\n", res.Name(), res.Elapsed)
		}
		if !res.Stable {
			fmt.Fprintf(&b, "--- UNSTABLE: %s: output changes when repaired again\n", res.Name())
		}
	}
	b.WriteString(rep.Summary())
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the report as an indented JSON document.
func (rep *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(rep)
}

// Name identifies the fixture of the result as suite/index followed by its description.
func (res *Result) Name() string {
	return fmt.Sprintf("%s/%d %s", res.Suite, res.Index, res.Description)
}

func indent(s, prefix string) string {
	lines := strings.SplitAfter(s, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(l)
	}
	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}
	return b.String()
}
