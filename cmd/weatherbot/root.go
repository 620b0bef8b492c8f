package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/weatherbot/internal/cli"
	"github.com/aretw0/weatherbot/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "weatherbot",
	Short: "A stateless weather chatbot",
	Long: `weatherbot asks for a city, confirms it and answers with the current weather.
The server keeps no conversation state: clients send back the state of the previous turn.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Log.Level = level
		}
		logger, err = cli.NewLogger(cfg.Log)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "weatherbot.yaml", "Configuration file (YAML or JSON); a missing file is ignored")
	rootCmd.PersistentFlags().String("log-level", "", "Override the log level (debug, info, warn, error)")
}
