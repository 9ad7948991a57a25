package main

import (
	"github.com/senacirak/DEU-DevClubGames/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [story-id]",
	Short: "Play a story in the terminal",
	Long: `Starts an interactive playthrough. Without a story ID the available stories
are listed first.

Commands: a choice number, b (back), r (restart), p (pause/resume), q (quit).
With --session the progress is saved under .devclub/sessions and resumed on
the next run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.PlayOptions{
			Dir: storyDir(cmd),
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
		}
		if len(args) > 0 {
			opts.StoryID = args[0]
		}
		opts.SessionID, _ = cmd.Flags().GetString("session")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.LogLevel, _ = cmd.Flags().GetString("log-level")
		return cli.Play(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("session", "s", "", "Save and resume progress under this name")
	playCmd.Flags().Bool("fresh", false, "Discard the saved progress of --session first")
	playCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	playCmd.Flags().BoolP("watch", "w", false, "Reload the stories whenever a file in --dir changes")

	// Plain 'devclub' plays.
	rootCmd.Args = playCmd.Args
	rootCmd.RunE = playCmd.RunE
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}
