package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dpotapov/go-listfix/lists"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Report list tags that break the list structure",
		Long: `Check reads an HTML fragment from a file or stdin and reports every list tag
that leaves the list structure dangling: items outside lists, lists directly
inside lists, unmatched closing tags and unclosed elements. The exit status is
1 when a problem is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runCheck,
	}
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	src, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	err = lists.Check(src)
	if err == nil {
		a.logger.Info("List structure is well formed", "input", name)
		return nil
	}

	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	out := cmd.OutOrStdout()
	for _, err := range errs {
		fmt.Fprintf(out, "%s:%v\n", name, err)

		var se *lists.StructureError
		if errors.As(err, &se) {
			fmt.Fprint(out, se.Context(src, 1))
		}
	}
	a.logger.Debug("List structure is broken", "input", name, "problems", len(errs))
	return errReported
}
