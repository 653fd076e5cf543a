package lists_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/dpotapov/go-listfix/conformance"
	"github.com/dpotapov/go-listfix/lists"
)

func TestCorpus(t *testing.T) {
	for _, s := range conformance.Builtin() {
		for i, fx := range s.Fixtures {
			t.Run(fmt.Sprintf("%s/%d", s.Name, i), func(t *testing.T) {
				res := lists.RepairFragment(fx.Input, &lists.Options{Strict: true})
				require.Equal(t, fx.Expected, res.HTML, fx.Description)
				require.Equal(t, fx.Input != fx.Expected, res.Changed())
				require.Equal(t, res.HTML, lists.Repair(res.HTML))
			})
		}
	}
}

// TestCorpus_BrowserModel parses every expected fragment the way a browser does and checks that
// every li element ends up inside a list.
func TestCorpus_BrowserModel(t *testing.T) {
	for _, s := range conformance.Builtin() {
		for i, fx := range s.Fixtures {
			require.NoError(t, lists.Check(fx.Expected), "%s/%d", s.Name, i)

			doc, err := goquery.NewDocumentFromReader(strings.NewReader(fx.Expected))
			require.NoError(t, err)

			doc.Find("li").Each(func(_ int, li *goquery.Selection) {
				require.Equal(t, 1, li.Closest("ul, ol").Length(),
					"%s/%d: li outside a list: %s", s.Name, i, fx.Description)
			})
		}
	}
}

func ExampleRepair() {
	fmt.Printf("%q\n", lists.Repair("<li>Something</li>"))
	fmt.Printf("%q\n", lists.Repair("<ol>\n  <li>One</li>\n  <li>Two\n</ul>"))
	// Output:
	// "<ul><li>Something</li></ul>"
	// "<ol>\n  <li>One</li>\n  <li>Two\n</li></ol>"
}

func ExampleRepairFragment() {
	res := lists.RepairFragment("<ul><li>A</ul></ul>", nil)
	fmt.Println(res.HTML)
	for _, f := range res.Fixes {
		fmt.Println(f)
	}
	// Output:
	// <ul><li>A</li></ul>
	// 9: insert </li> (unclosed item)
	// 14: drop </ul> (closing tag without open element)
}
