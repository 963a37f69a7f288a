package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"docsync/internal/config"
	"docsync/internal/log"
)

func newRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "docsync",
		Short: "Maintenance toolkit for the documentation site",
		Long: `docsync keeps the documentation site healthy: it mirrors external
README and OpenAPI documents into the local content cache, compile-checks
MDX syntax, verifies frontmatter headers, and runs one-off shortcode
migrations.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to an alternate settings file")

	root.AddCommand(
		newSyncCmd(&cfgFile),
		newCheckMDXCmd(&cfgFile),
		newCheckFrontmatterCmd(&cfgFile),
		newMigrateCmd(&cfgFile),
		newHistoryCmd(&cfgFile),
	)
	return root
}

// setup loads configuration and builds the logger shared by all commands.
// Configuration problems are the only errors that abort before any work
// is attempted.
func setup(cfgFile string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log.SetupLogger(&cfg.Logging), nil
}
