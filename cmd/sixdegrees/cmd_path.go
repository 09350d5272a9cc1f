package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/sixdegrees/internal/models"
	"github.com/ajitpratap0/sixdegrees/internal/pathfinder"
)

func pathCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "path [name]",
		Short: "Find the shortest connection from a person or movie to the target",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()
			name := strings.Join(args, " ")

			st, _, err := buildGraph(ctx, logger)
			if err != nil {
				return fmt.Errorf("path: %w", err)
			}

			path, err := pathfinder.New(st, logger).FindPath(ctx, name)
			if errors.Is(err, models.ErrNotFound) {
				fmt.Printf("No connection found between %s and %s.\n", name, cfg.Target.Name)
				return nil
			}
			if err != nil {
				return fmt.Errorf("path: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(path.Summary())
			}

			fmt.Println(strings.Join(path.Names(), " -> ") + " -> " + cfg.Target.Name)
			fmt.Printf("Degrees of separation: %d\n", path.Hops()+1)
			if ev := path.Evidence(); ev != nil {
				fmt.Printf("Photo: %s\n", ev.ImageURL)
				if ev.Location != "" {
					fmt.Printf("Taken at: %s\n", ev.Location)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the path as JSON")
	return cmd
}
