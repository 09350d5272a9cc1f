package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/sixdegrees/internal/builder"
	"github.com/ajitpratap0/sixdegrees/internal/filmography"
	"github.com/ajitpratap0/sixdegrees/internal/social"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the dataset parses and the feeds are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()
			allOK := true

			// Check dataset
			data, err := os.ReadFile(cfg.Dataset.Path)
			if err != nil {
				fmt.Printf("Dataset: FAIL (%v)\n", err)
				allOK = false
			} else if records, recErrs, parseErr := filmography.Parse(data); parseErr != nil {
				fmt.Printf("Dataset: FAIL (%v)\n", parseErr)
				allOK = false
			} else {
				fmt.Printf("Dataset: OK (%d records, %d malformed)\n", len(records), len(recErrs))
			}

			// Check feeds
			urls, err := builder.FeedURLs(cfg.Feeds.ListPath, cfg.Feeds.URLs, logger)
			if err != nil {
				fmt.Printf("Feeds: FAIL (%v)\n", err)
				allOK = false
			} else if len(urls) == 0 {
				fmt.Println("Feeds: FAIL (no feed URLs configured)")
				allOK = false
			}

			fetcher := social.NewHTTPFetcher(&http.Client{}, cfg.Feeds.MaxBodyBytes, logger)
			for _, url := range urls {
				posts, err := probeFeed(ctx, fetcher, url)
				if err != nil {
					fmt.Printf("Feed %s: FAIL (%v)\n", url, err)
					allOK = false
					continue
				}
				fmt.Printf("Feed %s: OK (%d posts)\n", url, posts)
			}

			if !allOK {
				return fmt.Errorf("one or more health checks failed")
			}
			return nil
		},
	}
}

func probeFeed(ctx context.Context, fetcher social.Fetcher, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Feeds.Timeout)
	defer cancel()

	body, err := fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}
	posts, _, err := social.ParseFeed(body)
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}
