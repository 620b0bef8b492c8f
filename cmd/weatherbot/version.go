package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/weatherbot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of weatherbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("weatherbot version %s\n", strings.TrimSpace(weatherbot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
