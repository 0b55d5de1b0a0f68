package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bladesplit/internal/config"
	"bladesplit/internal/fileops"
)

var (
	sectionPartial string

	gapPartial string
	gapAfter   string
	gapBefore  string
)

// extractCmd splits the source into partials and the wrapper
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Split every strictly delimited section into a partial",
	Long: `Finds every section whose markers follow the strict dash layout and
writes each body to <partials_dir>/<name>.blade.php, then writes the
markup outside the first and last section to the wrapper.

A start marker without a matching end is reported and skipped.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

// extractSectionCmd recovers sections whose markers drifted
var extractSectionCmd = &cobra.Command{
	Use:   "extract-section [name...]",
	Short: "Extract one section by name, trying alternate spellings in order",
	Long: `Extracts a section with the tolerant marker grammar: any number of
dashes, flexible spacing, case-insensitive words. Names are tried in
order and the first one that matches wins.

Without arguments every straggler in the plan is extracted.

Example:
  bladesplit extract-section --partial user-management \
      "User Managaement System" "User Management System"`,
	RunE: runExtractSection,
}

// extractBetweenCmd recovers a block that sits between two sections
var extractBetweenCmd = &cobra.Command{
	Use:   "extract-between",
	Short: "Extract the unmarked content between two sections",
	Long: `Writes the text between 'End <after>' and 'Start <before>' to a partial.
The source backup (<source>.original) is read first when present, since
compose may already have replaced the source.

Without flags every gap in the plan is extracted.

Example:
  bladesplit extract-between --partial other-features \
      --after "POs System" --before "System Setup"`,
	Args: cobra.NoArgs,
	RunE: runExtractBetween,
}

func init() {
	extractSectionCmd.Flags().StringVar(&sectionPartial, "partial", "", "Partial to write (required with names)")

	extractBetweenCmd.Flags().StringVar(&gapPartial, "partial", "", "Partial to write")
	extractBetweenCmd.Flags().StringVar(&gapAfter, "after", "", "Section whose End marker opens the gap")
	extractBetweenCmd.Flags().StringVar(&gapBefore, "before", "", "Section whose Start marker closes the gap")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	r, con, err := newRunner(cmd)
	if err != nil {
		return err
	}
	if err := r.Extract(ctx); errors.Is(err, fileops.ErrMissingInput) {
		return err
	}
	return finish(r, con)
}

func runExtractSection(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if len(args) > 0 && sectionPartial == "" {
		return fmt.Errorf("--partial is required when names are given")
	}

	r, con, err := newRunner(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		err = r.Stragglers(ctx)
	} else {
		err = r.ExtractSection(sectionPartial, args...)
	}
	if errors.Is(err, fileops.ErrMissingInput) {
		return err
	}
	return finish(r, con)
}

func runExtractBetween(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	given := 0
	for _, v := range []string{gapPartial, gapAfter, gapBefore} {
		if v != "" {
			given++
		}
	}
	if given != 0 && given != 3 {
		return fmt.Errorf("--partial, --after and --before must be given together")
	}

	r, con, err := newRunner(cmd)
	if err != nil {
		return err
	}
	if given == 0 {
		err = r.Gaps(ctx)
	} else {
		err = r.ExtractBetween(config.Gap{Partial: gapPartial, After: gapAfter, Before: gapBefore})
	}
	if errors.Is(err, fileops.ErrMissingInput) {
		return err
	}
	return finish(r, con)
}
