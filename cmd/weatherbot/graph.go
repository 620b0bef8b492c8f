package main

import (
	"fmt"

	"github.com/aretw0/weatherbot/internal/presentation/graph"
	"github.com/aretw0/weatherbot/internal/runtime"
	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialog state machine as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetString("current")

		var overlay *graph.Overlay
		if current != "" {
			s := domain.StateName(current)
			if !s.Valid() {
				return fmt.Errorf("unknown state %q", current)
			}
			overlay = &graph.Overlay{Current: s}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(runtime.Edges(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("current", "", "Highlight this state")
}
