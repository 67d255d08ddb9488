package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "homehub",
	Short: "HomeHub household service",
	Long: `HomeHub tracks a household's shared tasks, weekly schedule,
points and rewards, and serves them over a JSON API.

Configuration is read from defaults, the YAML file named by HOMEHUB_CONFIG,
a .env file and HOMEHUB_* environment variables.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
