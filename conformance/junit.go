package conformance

import (
	"fmt"
	"io"
	"strconv"

	"github.com/beevik/etree"
	"github.com/google/go-cmp/cmp"
)

// WriteJUnit writes the report as a JUnit XML document with one testsuite element per suite, for
// CI systems that collect test results.
func (rep *Report) WriteJUnit(w io.Writer) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("testsuites")
	root.CreateAttr("name", "listfix")
	root.CreateAttr("tests", strconv.Itoa(len(rep.Results)))
	root.CreateAttr("failures", strconv.Itoa(rep.Failed))
	root.CreateAttr("skipped", strconv.Itoa(rep.Skipped))

	var (
		suite    *etree.Element
		tests    int
		failures int
	)
	closeSuite := func() {
		if suite != nil {
			suite.CreateAttr("tests", strconv.Itoa(tests))
			suite.CreateAttr("failures", strconv.Itoa(failures))
		}
	}

	for _, res := range rep.Results {
		if suite == nil || suite.SelectAttrValue("name", "") != res.Suite {
			closeSuite()
			suite = root.CreateElement("testsuite")
			suite.CreateAttr("name", res.Suite)
			tests, failures = 0, 0
		}
		tests++

		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", res.Suite)
		tc.CreateAttr("name", fmt.Sprintf("%d %s", res.Index, res.Description))
		tc.CreateAttr("time", fmt.Sprintf("%.6f", res.Elapsed.Seconds()))

		if !res.Pass {
			failures++
			fail := tc.CreateElement("failure")
			fail.CreateAttr("message", "output does not match expected")
			fail.SetText(cmp.Diff(res.Expected, res.Output))
		}
		if !res.Stable {
			out := tc.CreateElement("system-out")
			out.SetText("output changes when repaired again")
		}
	}
	closeSuite()

	doc.Indent(2)
	_, err := doc.WriteTo(w)
	return err
}
