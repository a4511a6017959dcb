package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "devdash-api",
		Short:   "DevDash backend: idea map editor, snippets and study notes",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", envOr("DEVDASH_CONFIG", "config.yaml"),
		"YAML config file; environment variables override it")

	rootCmd.AddCommand(newServeCommand(&configPath))
	rootCmd.AddCommand(newBootstrapCommand(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
