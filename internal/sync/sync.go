// Package sync mirrors configured remote documents into the local content
// cache, substituting fallback content for any source that cannot be
// fetched. Sources are processed strictly sequentially so log output stays
// ordered, cache-directory writes never race, and upstream rate limits see
// a predictable request pattern.
package sync

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"docsync/internal/domain"
	"docsync/internal/fetch"
	"docsync/internal/transform"
)

// fallbackPlaceholder is written when the fallback document itself cannot
// be read. A failing source must still leave a file behind.
const fallbackPlaceholder = "# Content unavailable\n\n" +
	"This document could not be fetched and no fallback content was available.\n"

// Fetcher downloads one remote document.
type Fetcher interface {
	Fetch(ctx context.Context, url string, private bool) (*fetch.Result, error)
}

// Options configures a Syncer.
type Options struct {
	CacheDir     string // Output root; parents of each output are created as needed
	FallbackFile string // Document substituted for failing sources
	TokenSet     bool   // Whether an API token is configured (pre-run warning only)
}

// Syncer drives the per-source fetch/transform/write pipeline.
type Syncer struct {
	fetcher Fetcher
	opts    Options
	logger  *slog.Logger
}

// New creates a Syncer.
func New(fetcher Fetcher, opts Options, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{fetcher: fetcher, opts: opts, logger: logger}
}

// SyncAll processes every source in order and returns the run summary.
// A failing source falls back; it never aborts the run, so the summary
// always carries one outcome per source, in input order.
func (s *Syncer) SyncAll(ctx context.Context, sources []domain.Source) *domain.Summary {
	started := time.Now()

	if !s.opts.TokenSet {
		for _, src := range sources {
			if src.Private {
				s.logger.Warn("private sources configured without a token; they will use fallback content")
				break
			}
		}
	}

	outcomes := make([]domain.Outcome, 0, len(sources))
	for _, src := range sources {
		outcomes = append(outcomes, s.syncOne(ctx, src))
	}
	return domain.Summarize(started, outcomes)
}

// syncOne fetches a single source and writes either its (possibly
// normalized) content or the fallback document to the output path.
func (s *Syncer) syncOne(ctx context.Context, src domain.Source) domain.Outcome {
	dest := filepath.Join(s.opts.CacheDir, src.Output)
	s.logger.Info("downloading source", "url", src.URL, "output", src.Output, "private", src.Private)

	res, err := s.fetcher.Fetch(ctx, src.URL, src.Private)
	if err == nil {
		content := res.Content
		if src.IsMarkup() {
			content = transform.Normalize(content)
		}
		if werr := writeFile(dest, content); werr != nil {
			err = werr
		} else {
			s.logger.Info("source synchronized",
				"url", src.URL, "final_url", res.FinalURL, "bytes", len(content))
			return domain.Outcome{URL: src.URL, Output: src.Output, Success: true}
		}
	}

	s.logger.Error("source failed, substituting fallback content", "url", src.URL, "error", err)
	s.writeFallback(dest)
	return domain.Outcome{URL: src.URL, Output: src.Output, Success: false, Error: err.Error()}
}

// writeFallback writes the fallback document (or the inline placeholder if
// it cannot be read) to dest. Failures here are logged but not propagated;
// the source is already counted as failed.
func (s *Syncer) writeFallback(dest string) {
	content, err := os.ReadFile(s.opts.FallbackFile)
	if err != nil {
		s.logger.Warn("fallback document unreadable, using placeholder",
			"path", s.opts.FallbackFile, "error", err)
		content = []byte(fallbackPlaceholder)
	}
	if err := writeFile(dest, string(content)); err != nil {
		s.logger.Error("failed to write fallback content", "output", dest, "error", err)
	}
}

// writeFile replaces the file at path with content, creating parent
// directories as needed.
func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
