package main

import (
	"github.com/spf13/cobra"

	"talentai/internal/shared/config"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:          "talentai",
	Short:        "Resume summaries and comparisons backed by OCR and an LLM",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves environment configuration once per command.
func loadConfig() config.Config {
	cfg := config.Load()
	if debug {
		cfg.Debug = true
	}
	return cfg
}
