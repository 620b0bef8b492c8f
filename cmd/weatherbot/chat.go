package main

import (
	"context"
	"os"

	"github.com/aretw0/weatherbot/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the bot in the terminal",
	Long: `Starts an interactive conversation. Without --remote the engine runs in-process;
with --remote the turns are sent to a running server. Type 'exit' to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, _ := cmd.Flags().GetString("remote")
		session, _ := cmd.Flags().GetString("session")
		plain, _ := cmd.Flags().GetBool("plain")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Chat(ctx, cfg, cli.ChatOptions{
			Remote:    remote,
			SessionID: session,
			Plain:     plain,
		}, os.Stdin, os.Stdout, logger)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("remote", "", "Base URL of a running weatherbot server (e.g. http://localhost:3000)")
	chatCmd.Flags().String("session", "", "Session id; a random one is generated when empty")
	chatCmd.Flags().Bool("plain", false, "Disable markdown rendering and the banner")
}
