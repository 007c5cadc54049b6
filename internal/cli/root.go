// Package cli is the terminal surface over the progress engine. Commands
// return their results synchronously; there is no daemon.
package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"kinetrack/internal/app"
)

// RootOptions holds global flags shared by every command.
type RootOptions struct {
	Config  app.Config
	Format  string // "text" | "json"
	Verbose bool
}

var validFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	// Environment supplies defaults; flags override.
	if err := env.Parse(&opts.Config); err != nil {
		log.Default().Warn("parse environment", "err", err)
	}

	cmd := &cobra.Command{
		Use:          "kinetrack",
		Short:        "Offline progress tracking for rehabilitation exercises",
		Long:         "kinetrack records exercise sessions and derives streaks, difficulty unlocks, achievements and levels from them, all stored locally.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range validFormats {
				if opts.Format == f {
					return nil
				}
			}
			return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Config.DataDir, "data-dir", opts.Config.DataDir, "directory for the progress database")
	cmd.PersistentFlags().StringVar(&opts.Config.CatalogPath, "catalog", opts.Config.CatalogPath, "exercise catalog YAML (default: builtin)")
	cmd.PersistentFlags().StringVar(&opts.Config.JournalPath, "journal", opts.Config.JournalPath, "append progress events to this JSON-lines file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(newRecordCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newTiersCommand(opts))
	cmd.AddCommand(newAchievementsCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newResetCommand(opts))

	return cmd
}

func openApp(opts *RootOptions) (*app.App, error) {
	logger := log.Default()
	if opts.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return app.New(opts.Config, logger)
}
