package conformance

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"
)

func identity(src string) string { return src }

var sample = []*Suite{
	{
		Name: "s",
		Fixtures: []*Fixture{
			{Description: "orphan", Input: "<li>a</li>", Expected: "<ul><li>a</li></ul>", Tags: []string{"orphan"}},
			{Description: "clean", Input: "<p>a</p>", Expected: "<p>a</p>"},
		},
	},
	{
		Name: "t",
		Fixtures: []*Fixture{
			{Description: "empty", Input: "", Expected: ""},
		},
	},
}

func TestRunner_Builtin(t *testing.T) {
	rep, err := (&Runner{}).Run(context.Background(), Builtin())
	require.NoError(t, err)

	for _, res := range rep.Results {
		require.True(t, res.Pass, "%s\n got: %q\nwant: %q", res.Name(), res.Output, res.Expected)
		require.True(t, res.Stable, res.Name())
	}
	require.True(t, rep.OK())
	require.Equal(t, 53, rep.Passed)
	require.Equal(t, 0, rep.Unstable)
	require.Equal(t, "All 53 tests passed!", rep.Summary())
}

func TestRunner_Failures(t *testing.T) {
	rep, err := (&Runner{Repair: identity}).Run(context.Background(), Builtin())
	require.NoError(t, err)
	require.False(t, rep.OK())
	require.Equal(t, 43, rep.Failed)
	require.Equal(t, 10, rep.Passed)
	require.Equal(t, "43 out of 53 tests failed!", rep.Summary())
}

func TestRunner_Filter(t *testing.T) {
	f, err := NewFilter(`"orphan" in tags`)
	require.NoError(t, err)

	rep, err := (&Runner{Filter: f}).Run(context.Background(), Builtin())
	require.NoError(t, err)
	require.Len(t, rep.Results, 11)
	require.Equal(t, 42, rep.Skipped)
	require.Equal(t, "cleantest", rep.Results[0].Suite)
	require.Equal(t, 0, rep.Results[0].Index)
	require.Equal(t, "edge-cases", rep.Results[10].Suite)
}

func TestRunner_Unstable(t *testing.T) {
	rep, err := (&Runner{Repair: func(src string) string { return src + "x" }}).Run(context.Background(), sample)
	require.NoError(t, err)
	require.Equal(t, 3, rep.Unstable)
	require.Equal(t, 3, rep.Failed)
}

func TestRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep, err := (&Runner{}).Run(ctx, sample)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, rep.Results)
}

func TestReport_WriteText(t *testing.T) {
	rep, err := (&Runner{Repair: identity}).Run(context.Background(), sample)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.WriteText(&buf, true))
	out := buf.String()

	require.Contains(t, out, "--- FAIL: s/0 orphan\n")
	require.Contains(t, out, `    input: "<li>a</li>"`)
	require.Contains(t, out, "-expected +output")
	require.Contains(t, out, "--- PASS: s/1 clean")
	require.Contains(t, out, "--- PASS: t/0 empty")
	require.True(t, strings.HasSuffix(out, "1 out of 3 tests failed!\n"), out)

	buf.Reset()
	require.NoError(t, rep.WriteText(&buf, false))
	require.NotContains(t, buf.String(), "PASS")
}

func TestReport_WriteJSON(t *testing.T) {
	rep, err := (&Runner{}).Run(context.Background(), sample)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.Write(&buf, FormatJSON, false))

	var got struct {
		Results []struct {
			Suite  string `json:"suite"`
			Output string `json:"output"`
			Pass   bool   `json:"pass"`
		} `json:"results"`
		Passed int `json:"passed"`
		Failed int `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Results, 3)
	require.Equal(t, "<ul><li>a</li></ul>", got.Results[0].Output)
	require.Equal(t, 3, got.Passed)
	require.Equal(t, 0, got.Failed)
}

func TestReport_WriteJUnit(t *testing.T) {
	rep, err := (&Runner{Repair: identity}).Run(context.Background(), sample)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, rep.Write(&buf, FormatJUnit, false))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	root := doc.SelectElement("testsuites")
	require.NotNil(t, root)
	require.Equal(t, "3", root.SelectAttrValue("tests", ""))
	require.Equal(t, "1", root.SelectAttrValue("failures", ""))

	suites := root.SelectElements("testsuite")
	require.Len(t, suites, 2)
	require.Equal(t, "s", suites[0].SelectAttrValue("name", ""))
	require.Equal(t, "2", suites[0].SelectAttrValue("tests", ""))
	require.Equal(t, "1", suites[0].SelectAttrValue("failures", ""))
	require.Equal(t, "0", suites[1].SelectAttrValue("failures", ""))

	failures := doc.FindElements("//testcase/failure")
	require.Len(t, failures, 1)
	require.Equal(t, "0 orphan", failures[0].Parent().SelectAttrValue("name", ""))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JUnit")
	require.NoError(t, err)
	require.Equal(t, FormatJUnit, f)

	_, err = ParseFormat("html")
	require.Error(t, err)
	require.Error(t, (&Report{}).Write(&bytes.Buffer{}, Format("html"), false))
}
