package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/embedx/targetman/internal/log"
	"github.com/embedx/targetman/internal/orchestrator"
	"github.com/embedx/targetman/internal/proc"
	"github.com/embedx/targetman/internal/term"
)

var (
	flagConfig      string
	flagReconfigure bool
	flagKeepGoing   bool
	flagVerbose     bool
	flagModules     []string
	flagTargets     []string
	flagNoColor     bool
	flagReportRoot  string
)

var rootCmd = &cobra.Command{
	Use:   "targetman",
	Short: "Run module build targets from a YAML configuration",
	Long: `targetman drives a fleet of independently-buildable modules through a
shared set of build targets, aggregates pass/fail results, and reports
progress as a live terminal table.

Modules are discovered under the configured search roots (or listed
explicitly), each module's target list is derived from the common,
additional and excluded target declarations, and targets run strictly
one at a time against the selected build tool.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// ExecuteContext runs the root command with the given context.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.Flags().StringVarP(&flagConfig, "config", "c", "config.yaml", "path to YAML configuration file")
	rootCmd.Flags().BoolVarP(&flagReconfigure, "reconfigure", "r", false, "remove existing 'out' directories and re-run the generator")
	rootCmd.Flags().BoolVarP(&flagKeepGoing, "keep-going", "k", false, "continue executing remaining targets/modules even if a target fails")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "show full command output and verbose informational messages")
	rootCmd.Flags().StringSliceVarP(&flagModules, "modules", "m", nil, "run targets only for the selected module(s)")
	rootCmd.Flags().StringSliceVarP(&flagTargets, "targets", "t", nil, "run only the selected target(s)")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	rootCmd.Flags().StringVar(&flagReportRoot, "report-root", "", "override the report output directory")
}

func runRoot(cmd *cobra.Command, args []string) error {
	logCfg := log.DefaultConfig()
	if flagVerbose {
		logCfg = log.VerboseConfig()
	}
	logger := log.New(logCfg)
	log.SetGlobal(logger)

	capability := term.Detect(os.Stdout)
	if flagNoColor {
		capability.Color = false
	}

	procRunner := &proc.ExecRunner{
		Verbose: flagVerbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	orch := orchestrator.New(orchestrator.Options{
		ConfigPath:  flagConfig,
		Reconfigure: flagReconfigure,
		KeepGoing:   flagKeepGoing,
		Verbose:     flagVerbose,
		Modules:     flagModules,
		Targets:     flagTargets,
		Capability:  capability,
		ReportRoot:  flagReportRoot,
	}, os.Stdout, procRunner, logger)

	return orch.Run(cmd.Context())
}
