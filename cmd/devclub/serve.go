package main

import (
	"github.com/senacirak/DEU-DevClubGames/internal/cli"
	"github.com/senacirak/DEU-DevClubGames/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serves the story catalog and managed playthroughs as a JSON API.

Settings come from DEVCLUB_* environment variables (see --env-help); --dir,
--port and --log-level override them. With DEVCLUB_REDIS_ADDR set, sessions
are kept in Redis so several replicas can share them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if help, _ := cmd.Flags().GetBool("env-help"); help {
			return config.Usage()
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dir") {
			cfg.StoriesDir = storyDir(cmd)
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}

		logger, err := cli.NewLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		return cli.Serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().Bool("env-help", false, "Print the supported environment variables")
}
