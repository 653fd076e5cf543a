package conformance

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// filterEnv is the environment a filter expression is evaluated in, once per fixture.
type filterEnv struct {
	Suite       string   `expr:"suite"`
	Index       int      `expr:"index"`
	Description string   `expr:"description"`
	Input       string   `expr:"input"`
	Expected    string   `expr:"expected"`
	Tags        []string `expr:"tags"`
}

// Filter selects fixtures with a boolean expression, for example
//
//	"orphan" in tags && suite == "cleantest"
//	description contains "closing" || index < 3
type Filter struct {
	src  string
	prog *vm.Program
}

// NewFilter compiles src. An empty src selects every fixture.
func NewFilter(src string) (*Filter, error) {
	f := &Filter{src: src}
	if src == "" {
		return f, nil
	}

	prog, err := expr.Compile(src, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	f.prog = prog
	return f, nil
}

func (f *Filter) String() string {
	return f.src
}

// Match reports whether the fixture at index of suite is selected.
func (f *Filter) Match(suite string, index int, fx *Fixture) (bool, error) {
	if f == nil || f.prog == nil {
		return true, nil
	}

	out, err := expr.Run(f.prog, filterEnv{
		Suite:       suite,
		Index:       index,
		Description: fx.Description,
		Input:       fx.Input,
		Expected:    fx.Expected,
		Tags:        fx.Tags,
	})
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.src, err)
	}
	return out.(bool), nil
}
