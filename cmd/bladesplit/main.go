// Package main implements the bladesplit CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bladesplit/internal/config"
	"bladesplit/internal/fileops"
	"bladesplit/internal/logging"
	"bladesplit/internal/refactor"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	dryRun     bool
	reportPath string
	strict     bool

	// Loaded once per invocation by the root pre-run hook.
	plan *config.Config

	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bladesplit",
	Short: "Split a Blade template into named partials and compose it back",
	Long: `bladesplit refactors one large template into partial files.

Sections are delimited by comment markers such as
  <!--------------------- Start Dashboard ----------------------------------->
  <!--------------------- End Dashboard ----------------------------------->

Each section becomes a partial, the remaining markup becomes the wrapper,
and compose splices @include lines for the partials back into the wrapper.
Paths, section order, alternate spellings and gaps come from bladesplit.yaml
(see 'bladesplit init'); without one the built-in admin menu plan is used.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		opts := config.DefaultConfig().Logging.Options(verbose)
		if cmd != initCmd {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			plan = cfg
			opts = cfg.Logging.Options(verbose)
		}

		var err error
		logger, err = logging.Initialize(opts)
		if err != nil {
			return err
		}
		logging.Boot("bladesplit %s: workspace=%s", cmd.Name(), resolveWorkspace())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Plan file (default: <workspace>/"+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Show a diff of every file instead of writing it")
	rootCmd.PersistentFlags().StringVar(&reportPath, "report", "", "Save the run report as YAML to this path")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Exit non-zero when any step (or lint warning) fails")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(extractSectionCmd)
	rootCmd.AddCommand(extractBetweenCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(resolveWorkspace(), config.DefaultPath)
}

// loadConfig reads the plan. The --workspace flag wins over the plan
// file and the environment; a relative workspace in the plan file is
// taken relative to the current workspace.
func loadConfig() (*config.Config, error) {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	ws := resolveWorkspace()
	switch {
	case workspace != "" || cfg.Workspace == "":
		cfg.Workspace = ws
	default:
		cfg.Workspace = fileops.Resolve(ws, cfg.Workspace)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %s: %w", path, err)
	}
	logging.Config("loaded plan %s (workspace %s)", path, cfg.Workspace)
	return cfg, nil
}

// currentPlan returns the plan loaded by the pre-run hook, loading it
// when a command runs without one.
func currentPlan() (*config.Config, error) {
	if plan != nil {
		return plan, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	plan = cfg
	return plan, nil
}

// commandContext is cancelled by SIGINT/SIGTERM so a run stops between steps.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// newRunner builds a runner for the current plan that prints to cmd's output.
func newRunner(cmd *cobra.Command) (*refactor.Runner, *console, error) {
	cfg, err := currentPlan()
	if err != nil {
		return nil, nil, err
	}
	con := newConsole(cmd.OutOrStdout())
	r := refactor.New(cfg, refactor.WithDryRun(dryRun), refactor.WithSink(con))
	return r, con, nil
}

// finish prints the summary, saves the report when asked, and turns
// recorded failures into an exit error under --strict.
func finish(r *refactor.Runner, con *console) error {
	rep := r.Report()
	con.Summary(rep)

	if reportPath != "" {
		path := fileops.Resolve(plan.Workspace, reportPath)
		if err := rep.Save(path); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		logger.Info("Report saved", zap.String("path", path), zap.String("run_id", rep.RunID))
	}

	if strict && rep.Failures() > 0 {
		return fmt.Errorf("%d failures (strict mode)", rep.Failures())
	}
	return nil
}
