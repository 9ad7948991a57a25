package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devclub",
	Short: "DEU DevClub Games interactive story engine",
	Long: `devclub plays branching Turkish-language stories in the terminal and serves
them over HTTP and MCP.

Stories come from --dir: a directory of YAML story files, a Markdown story
repository (story.md plus one file per scene), or a directory of such
repositories. Without --dir the built-in sample stories are used.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Story directory (empty = built-in samples)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}

func storyDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("dir")
	return dir
}
