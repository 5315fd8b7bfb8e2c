package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/botanica-backend/internal/config"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "botanica",
	Short: "Botanica storefront API",
	Long: `Botanica serves the storefront API: catalog, session carts, community
impact projects with live updates, recommendations, orders, learning and
gamification. Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.yaml (default ./, ./deploy, /etc/botanica)")
}

func loadConfig() (*config.Config, error) {
	var opts []config.Option
	if configDir != "" {
		opts = append(opts, config.WithConfigPaths(configDir))
	}
	return config.Load(opts...)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
