package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dpotapov/go-listfix/conformance"
	"github.com/dpotapov/go-listfix/lists"
)

func (a *app) conformanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conformance",
		Short: "Run the repair against fixture suites",
		Long: `Conformance repairs the input of every fixture and compares the result with the
expected output byte for byte. The built-in corpus is used unless --fixtures
names suite files. The exit status is 1 when a fixture fails or its output
changes when repaired again.

Filter expressions see the fields suite, index, description, input, expected
and tags:

  listfix conformance --where 'suite == "cleantest" && index < 10'
  listfix conformance --where '"orphan" in tags' --format junit`,
		Args: cobra.NoArgs,
		RunE: a.runConformance,
	}

	flags := cmd.Flags()
	flags.String("fixtures", "", "glob of YAML suite files, e.g. testdata/*.yaml (default: built-in corpus)")
	flags.String("where", "", "filter expression selecting the fixtures to run")
	flags.String("format", string(conformance.FormatText), "report format: text, json, junit")
	flags.BoolP("verbose", "v", false, "list passing fixtures too")
	flags.Bool("strict", false, "verify the structure of every repaired fragment")

	return cmd
}

// loadSuites returns the built-in corpus, or the suites matching glob. Wildcards are only
// expanded in the last path element.
func loadSuites(glob string) ([]*conformance.Suite, error) {
	if glob == "" {
		return conformance.Builtin(), nil
	}
	return conformance.LoadFS(os.DirFS(filepath.Dir(glob)), filepath.Base(glob))
}

func (a *app) runConformance(cmd *cobra.Command, _ []string) error {
	format, err := conformance.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}

	suites, err := loadSuites(a.cfg.Fixtures)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	filter, err := conformance.NewFilter(a.cfg.Where)
	if err != nil {
		return err
	}

	opts := &lists.Options{Strict: a.cfg.Strict, Logger: a.logger}
	runner := &conformance.Runner{
		Repair: func(src string) string { return lists.RepairFragment(src, opts).HTML },
		Filter: filter,
		Logger: a.logger,
	}
	rep, err := runner.Run(cmd.Context(), suites)
	if err != nil {
		return err
	}

	if err := rep.Write(cmd.OutOrStdout(), format, a.cfg.Verbose); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if !rep.OK() || rep.Unstable > 0 {
		return errReported
	}
	return nil
}
