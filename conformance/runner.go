package conformance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dpotapov/go-listfix/lists"
)

// RepairFunc is a list repair implementation under test.
type RepairFunc func(src string) string

// Runner runs fixture suites through a RepairFunc.
type Runner struct {
	// Repair is the implementation under test. Defaults to lists.Repair.
	Repair RepairFunc

	// Filter selects the fixtures to run. All fixtures run when nil.
	Filter *Filter

	Logger *slog.Logger
}

// Result is the outcome of a single fixture.
type Result struct {
	Suite       string `json:"suite"`
	Index       int    `json:"index"`
	Description string `json:"description"`
	Input       string `json:"input"`
	Expected    string `json:"expected"`
	Output      string `json:"output"`

	// Pass is set when Output equals Expected.
	Pass bool `json:"pass"`

	// Stable is set when repairing Output again leaves it unchanged.
	Stable bool `json:"stable"`

	Elapsed time.Duration `json:"elapsed"`
}

// Report collects the results of a run, in suite and fixture order.
type Report struct {
	Results []*Result `json:"results"`
	Passed  int       `json:"passed"`
	Failed  int       `json:"failed"`
	// Unstable counts results whose output changes under a second repair.
	Unstable int `json:"unstable"`
	// Skipped counts fixtures not selected by the filter.
	Skipped int `json:"skipped"`
}

// OK reports whether every selected fixture passed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Summary returns the one line verdict of the run.
func (r *Report) Summary() string {
	total := len(r.Results)
	if r.Failed > 0 {
		return fmt.Sprintf("%d out of %d tests failed!", r.Failed, total)
	}
	return fmt.Sprintf("All %d tests passed!", total)
}

// Run runs the fixtures of suites selected by the filter. It stops early only when ctx is done or
// the filter fails to evaluate.
func (r *Runner) Run(ctx context.Context, suites []*Suite) (*Report, error) {
	repair := r.Repair
	if repair == nil {
		repair = lists.Repair
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rep := &Report{Results: []*Result{}}
	for _, s := range suites {
		for i, fx := range s.Fixtures {
			if err := ctx.Err(); err != nil {
				return rep, err
			}

			ok, err := r.Filter.Match(s.Name, i, fx)
			if err != nil {
				return rep, err
			}
			if !ok {
				rep.Skipped++
				continue
			}

			res := runFixture(repair, s.Name, i, fx)
			rep.Results = append(rep.Results, res)
			if res.Pass {
				rep.Passed++
			} else {
				rep.Failed++
			}
			if !res.Stable {
				rep.Unstable++
			}

			logger.Debug("Run fixture", "suite", s.Name, "index", i, "pass", res.Pass,
				"stable", res.Stable, "elapsed", res.Elapsed)
		}
	}

	logger.Info(rep.Summary(), "passed", rep.Passed, "failed", rep.Failed,
		"unstable", rep.Unstable, "skipped", rep.Skipped)

	return rep, nil
}

func runFixture(repair RepairFunc, suite string, index int, fx *Fixture) *Result {
	start := time.Now()
	out := repair(fx.Input)
	elapsed := time.Since(start)

	return &Result{
		Suite:       suite,
		Index:       index,
		Description: fx.Description,
		Input:       fx.Input,
		Expected:    fx.Expected,
		Output:      out,
		Pass:        out == fx.Expected,
		Stable:      repair(out) == out,
		Elapsed:     elapsed,
	}
}
