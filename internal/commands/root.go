package commands

import (
	"github.com/spf13/cobra"

	"github.com/tracker-spend/spendtrack/internal/buildinfo"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	repo      string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "spendtrack",
		Short:   "Bank statement import and spending tracker",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.repo, "repo", ".", "project directory")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console or json (default from config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(opts),
		newDetectCommand(opts),
		newDashboardCommand(opts),
		newSyncCommand(opts),
	)

	return rootCmd
}
