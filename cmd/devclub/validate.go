package main

import (
	"fmt"

	"github.com/senacirak/DEU-DevClubGames/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check the stories for consistency",
	Long: `Loads every story and reports dead links, unreachable scenes, endings with
choices and dead ends, story by story.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := storyDir(cmd)
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			dir = args[0]
		}
		if err := cli.Validate(cmd.Context(), dir, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Hikayeler geçerli! ✅")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
