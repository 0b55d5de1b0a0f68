package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"bladesplit/internal/fileops"
	"bladesplit/internal/refactor"
)

// lintCmd checks marker structure before anything is extracted
var lintCmd = &cobra.Command{
	Use:   "lint [file...]",
	Short: "Check section markers for balance, naming and drift",
	Long: `Tokenizes every Start/End marker in the templates (default: the plan's
source) and reports:

  orphan-end       End marker with no open section
  unclosed-start   Start marker that is never closed
  name-mismatch    End marker naming a different section than the open one
  nested-start     Start marker inside an open section
  dash-drift       marker the strict extractor will not see (warning)
  uncaptured-gap   content between two sections that no partial holds (warning)

Errors make the command fail; with --strict warnings do too.`,
	RunE: runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	cfg, err := currentPlan()
	if err != nil {
		return err
	}
	paths := []string{cfg.Path(cfg.Source)}
	if len(args) > 0 {
		paths = make([]string, len(args))
		for i, a := range args {
			paths[i] = fileops.Resolve(cfg.Workspace, a)
		}
	}

	results, err := refactor.LintFiles(ctx, cfg.Markers, paths...)
	if err != nil {
		return err
	}

	con := newConsole(cmd.OutOrStdout())
	errs, warns := 0, 0
	for _, res := range results {
		con.Findings(res.Path, res.Report)
		errs += res.Report.Errors()
		warns += res.Report.Warnings()
	}

	if errs > 0 {
		return fmt.Errorf("%d marker errors in %d files", errs, len(results))
	}
	if strict && warns > 0 {
		return fmt.Errorf("%d marker warnings (strict mode)", warns)
	}
	return nil
}
