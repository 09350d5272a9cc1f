package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Build the graph and show ingestion statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, rep, err := buildGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("stats: %w", err)
			}
			stats := st.Stats()

			fmt.Printf("People:          %d\n", stats.People)
			fmt.Printf("Movies:          %d\n", stats.Movies)
			fmt.Printf("Edges:           %d\n", stats.Edges)
			fmt.Printf("Evidence links:  %d\n\n", stats.EvidenceLinks)

			fmt.Println("Filmography:")
			if rep.FilmographyErr != nil {
				fmt.Printf("  unavailable (%v)\n", rep.FilmographyErr)
			} else {
				fmt.Printf("  %-14s %d\n", "records", rep.Filmography.Records)
				fmt.Printf("  %-14s %d\n", "skipped", rep.Filmography.Skipped)
			}

			fmt.Println("\nSocial feeds:")
			fmt.Printf("  %-14s %s\n", "run", rep.Social.RunID)
			fmt.Printf("  %-14s %d/%d\n", "feeds ok", rep.Social.FeedsOK, rep.Social.Feeds)
			fmt.Printf("  %-14s %d\n", "posts", rep.Social.Posts)
			fmt.Printf("  %-14s %d\n", "hashtag links", rep.Social.HashtagLinks)
			for _, e := range rep.Social.Errors {
				fmt.Printf("  error: %s\n", e)
			}
			return nil
		},
	}
}
