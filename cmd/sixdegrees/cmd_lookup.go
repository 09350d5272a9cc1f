package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func lookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [name]",
		Short: "Show an entity and its direct neighbors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			name := strings.Join(args, " ")

			st, _, err := buildGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("lookup: %w", err)
			}

			entity, ok := st.Get(name)
			if !ok {
				return fmt.Errorf("lookup: no entity named %q", name)
			}
			neighbors, _ := st.Neighbors(name)

			fmt.Printf("Name: %s\n", entity.DisplayName)
			fmt.Printf("Kind: %s\n", entity.Kind)
			fmt.Printf("Key:  %s\n", entity.Key)
			if entity.Evidence != nil {
				fmt.Printf("Photo with %s: %s\n", cfg.Target.Name, entity.Evidence.ImageURL)
			}
			fmt.Printf("\nNeighbors (%d):\n", len(neighbors))
			for i := range neighbors {
				fmt.Printf("  %-8s %s\n", neighbors[i].Kind, neighbors[i].DisplayName)
			}
			return nil
		},
	}
}
