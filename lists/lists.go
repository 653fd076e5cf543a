// Package lists repairs malformed ul, ol and li markup in HTML fragments, such as the markup a
// rich-text editor receives when users paste or hand-edit HTML.
//
// The repair is a single left-to-right pass over the fragment. List tags are matched on a stack of
// open list and item frames; missing tags are synthesized, stray ones dropped, mismatched ones
// reconciled with the tag that opened the list. Everything that is not a ul, ol or li tag is kept
// byte for byte, in order:
//
//	lists.Repair("<li>Something</li>") // "<ul><li>Something</li></ul>"
//	lists.Repair("<ol>\n</ul>")        // "\n"
//
// Repair never fails: every input has a defined output, and the output is stable under a second
// repair.
package lists

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
)

// Options configure RepairFragment.
type Options struct {
	// Strict verifies every repaired fragment with Check. A failure never changes the output; it
	// is reported in Result.Err.
	Strict bool

	// Logger receives a debug record for every fix and a warning for a failed strict check.
	// Nothing is logged when it is nil.
	Logger *slog.Logger
}

// Result is a repaired fragment with the list of changes made to it.
type Result struct {
	HTML  string `json:"html"`
	Fixes []Fix  `json:"fixes"`

	// Err is set in strict mode when HTML fails Check. It wraps the *StructureError values.
	Err error `json:"-"`
}

// Changed reports whether the repair made any change to the fragment.
func (r *Result) Changed() bool {
	return len(r.Fixes) > 0
}

// verify runs Check on the repaired fragment and records a failure in r.Err.
func (r *Result) verify() {
	if err := Check(r.HTML); err != nil {
		r.Err = fmt.Errorf("repaired fragment is not well formed: %w", err)
	}
}

// Repair returns src with its list markup repaired.
func Repair(src string) string {
	return RepairFragment(src, nil).HTML
}

// RepairFragment repairs the list markup of src and reports the fixes it applied, ordered by
// source offset.
func RepairFragment(src string, opts *Options) *Result {
	if opts == nil {
		opts = &Options{}
	}

	r := &repairer{}
	for tok := range Tokens(src) {
		r.process(tok)
	}
	r.finish(len(src))

	res := &Result{
		HTML:  r.out.String(),
		Fixes: r.fixes,
	}
	if res.Fixes == nil {
		res.Fixes = []Fix{}
	}
	slices.SortStableFunc(res.Fixes, func(a, b Fix) int {
		return cmp.Compare(a.Offset, b.Offset)
	})

	if opts.Logger != nil {
		for _, f := range res.Fixes {
			opts.Logger.Debug("Repair list markup",
				"action", f.Action.String(), "tag", f.Tag, "offset", f.Offset, "reason", f.Reason)
		}
	}

	if opts.Strict {
		res.verify()
		if res.Err != nil && opts.Logger != nil {
			opts.Logger.Warn("Repaired fragment is not well formed", "error", res.Err)
		}
	}

	return res
}
