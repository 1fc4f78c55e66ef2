package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GharsallahDev/memory-palace/internal/config"
	"github.com/GharsallahDev/memory-palace/palaceservice"
)

var rootCmd = &cobra.Command{
	Use:          "palace-ai",
	Short:        "Memory Palace AI model service",
	SilenceUsage: true,
}

func main() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the models and serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.HTTPHost, _ = cmd.Flags().GetString("host")
			}
			if cmd.Flags().Changed("port") {
				cfg.HTTPPort, _ = cmd.Flags().GetInt("port")
				if err := cfg.ResolveDefaults(); err != nil {
					return err
				}
			}
			return palaceservice.Run(cfg)
		},
	}
	serveCmd.Flags().String("host", "", "Override PALACE_AI_HTTP_HOST")
	serveCmd.Flags().IntP("port", "p", 0, "Override PALACE_AI_HTTP_PORT")
	rootCmd.AddCommand(serveCmd)

	var allowDegraded bool
	healthCmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe GET /health of a running service",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _ := cmd.Flags().GetString("url")
			return runHealthcheck(url, allowDegraded, os.Stdout)
		},
	}
	healthCmd.Flags().StringP("url", "u", "http://127.0.0.1:5000", "Service base URL")
	healthCmd.Flags().BoolVar(&allowDegraded, "allow-degraded", false, "Exit 0 when some components are not ready")
	rootCmd.AddCommand(healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
