package main

import (
	"context"
	"os"
	"time"

	"github.com/aretw0/weatherbot/internal/cli"
	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Show a live status board for a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("target")
		interval, _ := cmd.Flags().GetDuration("interval")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Monitor(ctx, cli.MonitorOptions{Target: target, Interval: interval}, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().String("target", "http://localhost:3000", "Base URL of the server to watch")
	monitorCmd.Flags().Duration("interval", 5*time.Second, "Refresh interval")
}
