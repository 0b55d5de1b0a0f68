package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bladesplit/internal/config"
)

var initForce bool

// initCmd writes the default plan file
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default plan file to the workspace",
	Long: `Writes bladesplit.yaml with the built-in admin menu plan: paths,
marker layout, compose order, straggler spellings and gaps. Edit it to
fit another template. An existing plan is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing plan file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := resolveConfigPath()
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(out, "%s already exists (use --force to overwrite)\n", path)
		return nil
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}
