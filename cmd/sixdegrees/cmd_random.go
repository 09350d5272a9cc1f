package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func randomCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print random person names to try",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			st, _, err := buildGraph(cmd.Context(), logger)
			if err != nil {
				return fmt.Errorf("random: %w", err)
			}

			names := st.RandomPersonNames()
			if count > 0 && len(names) > count {
				names = names[:count]
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of names to print")
	return cmd
}
