package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docsync/internal/config"
	"docsync/internal/domain"
	"docsync/internal/fetch"
	"docsync/internal/journal"
	"docsync/internal/sync"
)

// journalFile is the run-history database, kept alongside the cache.
const journalFile = "docsync.db"

func newSyncCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-readme",
		Short: "Mirror remote README and OpenAPI documents into the content cache",
		Long: `sync-readme fetches every configured source and writes it under the
cache directory, normalizing HTML in markup outputs. A source that cannot
be fetched gets the fallback document instead; the run only fails when
every source does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*cfgFile)
			if err != nil {
				return err
			}
			return runSync(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}
}

func runSync(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	sources := cfg.SourceList()
	logger.Info("starting sync", "sources", len(sources), "cache_dir", cfg.CacheDir)

	if len(sources) == 0 {
		logger.Warn("nothing to synchronize: no sources configured")
		fmt.Fprintln(out, "Nothing to synchronize: no sources configured.")
		return nil
	}

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	fetcher := fetch.NewFetcher(cfg.Token, logger)
	syncer := sync.New(fetcher, sync.Options{
		CacheDir:     cfg.CacheDir,
		FallbackFile: cfg.FallbackFile,
		TokenSet:     cfg.Token != "",
	}, logger)

	summary := syncer.SyncAll(ctx, sources)
	recordRun(cfg, logger, summary)
	printSummary(out, summary)

	logger.Info("sync finished",
		"total", summary.Total, "succeeded", summary.Succeeded, "failed", summary.Failed)

	if summary.Failed == summary.Total {
		return domain.ErrAllSourcesFailed
	}
	return nil
}

// recordRun appends the summary to the run journal. History is best
// effort; a journal problem never fails a sync that otherwise worked.
func recordRun(cfg *config.Config, logger *slog.Logger, summary *domain.Summary) {
	j, err := journal.Open(filepath.Join(cfg.CacheDir, journalFile))
	if err != nil {
		logger.Warn("could not open run journal", "error", err)
		return
	}
	defer j.Close()
	if err := j.Append(summary); err != nil {
		logger.Warn("could not record run in journal", "error", err)
	}
}
