package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsync/internal/domain"
	"docsync/internal/transform"
)

func newMigrateCmd(cfgFile *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate-shortcodes",
		Short: "Apply the configured shortcode replacements across the content tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgFile)
			if err != nil {
				return err
			}
			rules := cfg.MigrationRules()
			if len(rules) == 0 {
				return errors.New("no shortcode rules configured")
			}

			out := cmd.OutOrStdout()
			changedFiles := 0
			totalEdits := 0

			err = filepath.WalkDir(cfg.ContentDir, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !domain.IsMarkupPath(path) {
					return nil
				}

				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				migrated, n, err := transform.Migrate(string(data), rules)
				if err != nil {
					return err
				}
				if n == 0 {
					return nil
				}

				changedFiles++
				totalEdits += n
				if dryRun {
					fmt.Fprintf(out, "%s %s: %d replacement(s)\n", paint(warnStyle, "~"), path, n)
					return nil
				}
				logger.Info("migrating shortcodes", "path", path, "replacements", n)
				return os.WriteFile(path, []byte(migrated), 0644)
			})
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			verb := "applied"
			if dryRun {
				verb = "would apply"
			}
			fmt.Fprintf(out, "%s %s %d replacement(s) in %d file(s)\n",
				paint(okStyle, "✓"), verb, totalEdits, changedFiles)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list would-be edits without writing files")
	return cmd
}
