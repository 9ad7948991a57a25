package main

import (
	"github.com/senacirak/DEU-DevClubGames/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <story-id>",
	Short: "Export the scene graph of a story",
	Long: `Outputs a Mermaid diagram (graph TD) of the story's scenes and choices.
--history highlights a playthrough, e.g. --history yol-ayrimi,tepe.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetStringSlice("history")
		return cli.Graph(cmd.Context(), storyDir(cmd), args[0], history, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("history", nil, "Scene IDs visited so far, start scene first")
}
