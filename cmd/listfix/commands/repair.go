package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dpotapov/go-listfix/lists"
)

func (a *app) repairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Repair the list markup of an HTML fragment",
		Long: `Repair reads an HTML fragment from a file or stdin and writes it back with its
ul, ol and li markup repaired.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runRepair,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.Bool("fixes", false, "print the applied fixes to stderr")
	flags.Bool("strict", false, "verify the structure of the repaired fragment")

	return cmd
}

func (a *app) runRepair(cmd *cobra.Command, args []string) error {
	src, name, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	res := lists.RepairFragment(src, &lists.Options{
		Strict: a.cfg.Strict,
		Logger: a.logger,
	})
	a.logger.Debug("Repair fragment", "input", name, "bytes", len(src), "fixes", len(res.Fixes))

	if a.cfg.Fixes {
		for _, f := range res.Fixes {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", name, f)
		}
	}

	if a.cfg.Output == "" {
		if _, err := fmt.Fprint(cmd.OutOrStdout(), res.HTML); err != nil {
			return err
		}
	} else if err := os.WriteFile(a.cfg.Output, []byte(res.HTML), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return res.Err
}
