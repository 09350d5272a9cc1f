package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/sixdegrees/internal/builder"
	"github.com/ajitpratap0/sixdegrees/internal/config"
	"github.com/ajitpratap0/sixdegrees/internal/imagecache"
	"github.com/ajitpratap0/sixdegrees/internal/social"
	"github.com/ajitpratap0/sixdegrees/internal/store"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "sixdegrees",
		Short: "sixdegrees: how many movies away is anyone from the target?",
		Long: "sixdegrees builds a graph of actors and movies from a filmography dataset, links people " +
			"photographed with the target from social feeds, and finds the shortest chain between them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		pathCmd(),
		lookupCmd(),
		randomCmd(),
		statsCmd(),
		healthCmd(),
		serveCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn", "warning":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && strings.EqualFold(cfg.Logging.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// buildGraph ingests the configured dataset and feeds into a fresh store.
func buildGraph(ctx context.Context, logger *slog.Logger) (*store.MemoryStore, builder.Report, error) {
	urls, err := builder.FeedURLs(cfg.Feeds.ListPath, cfg.Feeds.URLs, logger)
	if err != nil {
		return nil, builder.Report{}, err
	}
	fetcher := social.NewHTTPFetcher(&http.Client{}, cfg.Feeds.MaxBodyBytes, logger)
	return builder.Build(ctx, builder.Options{
		Target:      cfg.Target.Name,
		DatasetPath: cfg.Dataset.Path,
		FeedURLs:    urls,
		Fetcher:     fetcher,
		Social: social.Options{
			Concurrency: cfg.Feeds.Concurrency,
			Timeout:     cfg.Feeds.Timeout,
		},
	}, logger)
}

func newImageCache(logger *slog.Logger) *imagecache.Cache {
	client := &http.Client{Timeout: cfg.Images.Timeout}
	return imagecache.New(social.NewHTTPFetcher(client, cfg.Images.MaxBytes, logger), logger)
}
