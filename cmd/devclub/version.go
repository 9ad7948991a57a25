package main

import (
	"fmt"

	devclub "github.com/senacirak/DEU-DevClubGames"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of devclub",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "devclub version %s\n", devclub.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
