package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bladesplit/internal/fileops"
	"bladesplit/internal/refactor"
)

var runSteps []string

// composeCmd builds the final template from the wrapper
var composeCmd = &cobra.Command{
	Use:   "compose [partial...]",
	Short: "Splice @include lines for the partials into the wrapper",
	Long: `Reads the wrapper, finds its empty <ul class="dash-navbar"> list and
inserts one @include line per partial, in order. The result is written
to the final path. The previous final file is kept once as
<final>.original before it is first overwritten.

Without arguments the order from the plan is used.`,
	RunE: runCompose,
}

// runCmd executes the whole plan
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the refactor plan: extract, stragglers, gaps, compose",
	Long: `Runs the plan steps in order. A failed section is reported and the run
continues; only a missing source template stops it.

Example:
  bladesplit run --dry-run
  bladesplit run --steps extract,stragglers --report run.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	runCmd.Flags().StringSliceVar(&runSteps, "steps", nil, "Steps to run (default: all)")
}

func runCompose(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	r, con, err := newRunner(cmd)
	if err != nil {
		return err
	}
	var order []string
	if len(args) > 0 {
		order = args
	}
	if err := r.Compose(ctx, order); errors.Is(err, fileops.ErrMissingInput) {
		return err
	}
	return finish(r, con)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	steps := make([]refactor.Step, 0, len(runSteps))
	for _, s := range runSteps {
		step, err := refactor.ParseStep(s)
		if err != nil {
			return err
		}
		steps = append(steps, step)
	}

	r, con, err := newRunner(cmd)
	if err != nil {
		return err
	}
	if _, err := r.Run(ctx, steps...); err != nil {
		con.Summary(r.Report())
		return fmt.Errorf("run aborted: %w", err)
	}
	return finish(r, con)
}
