package main

import (
	"github.com/senacirak/DEU-DevClubGames/internal/cli"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the available stories",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.List(cmd.Context(), storyDir(cmd), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
