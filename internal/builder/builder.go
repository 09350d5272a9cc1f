// Package builder assembles the entity graph from the filmography dataset and
// the social feeds, and returns only after all ingestion has settled.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/ajitpratap0/sixdegrees/internal/filmography"
	"github.com/ajitpratap0/sixdegrees/internal/social"
	"github.com/ajitpratap0/sixdegrees/internal/store"
)

// Options configures a Build.
type Options struct {
	Target      string
	DatasetPath string
	FeedURLs    []string
	Fetcher     social.Fetcher
	Social      social.Options
}

// Report combines the per-source ingestion reports.
type Report struct {
	Filmography    filmography.Report `json:"filmography"`
	FilmographyErr error              `json:"-"`
	Social         social.Report      `json:"social"`
}

// Build creates a store, inserts the target before anything else, ingests the
// dataset synchronously, then ingests every feed and waits for the tasks.
// Dataset and feed failures are logged and reported; only a target that
// cannot be created is returned as an error.
func Build(ctx context.Context, opts Options, logger *slog.Logger) (*store.MemoryStore, Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var rep Report

	st := store.NewMemoryStore()
	soc := social.NewIngestor(st, opts.Fetcher, opts.Target, opts.Social, logger)
	if err := soc.EnsureTarget(); err != nil {
		return nil, rep, fmt.Errorf("builder: %w", err)
	}

	if opts.DatasetPath != "" {
		frep, err := filmography.NewIngestor(st, logger).IngestFile(opts.DatasetPath)
		if err != nil {
			logger.Warn("filmography unavailable, continuing with social graph only", "path", opts.DatasetPath, "error", err)
			rep.FilmographyErr = err
		}
		rep.Filmography = frep
	}

	if len(opts.FeedURLs) > 0 && opts.Fetcher != nil {
		rep.Social = soc.Start(ctx, opts.FeedURLs).Wait()
	}

	stats := st.Stats()
	logger.Info("graph built",
		"people", stats.People,
		"movies", stats.Movies,
		"edges", stats.Edges,
		"evidence_links", stats.EvidenceLinks,
	)
	return st, rep, nil
}

// FeedURLs merges the URLs from the list file at listPath with inline. A
// missing list file is not an error.
func FeedURLs(listPath string, inline []string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var urls []string
	if listPath != "" {
		fromFile, err := social.LoadURLList(listPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Warn("feed URL list not found", "path", listPath)
		case err != nil:
			return nil, fmt.Errorf("builder: %w", err)
		default:
			urls = append(urls, fromFile...)
		}
	}
	seen := make(map[string]bool, len(urls)+len(inline))
	out := make([]string, 0, len(urls)+len(inline))
	for _, u := range append(urls, inline...) {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out, nil
}
