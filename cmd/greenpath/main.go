package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "greenpath",
	Short: "greenpath - gamified environmental-education backend",
	Long: `greenpath serves the learning game API: sign-in, profile resolution,
the level curriculum, the carbon meter and the eco-city shop.

Configuration is read from the environment, optionally seeded from a .env file.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	rootCmd.AddCommand(serveCmd, seedCmd, classifyCmd, carbonCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
