// Copyright Ginger Science, 2026. All rights reserved.

// Package main is the entry point for the hypogen CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the hypogen CLI.
var rootCmd = &cobra.Command{
	Use:   "hypogen",
	Short: "Knowledge graph engine for research hypotheses",
	Long: `hypogen turns research hypothesis artifacts into typed knowledge graphs
with hierarchical concept chains, cross-domain links, and summary statistics.

The extract command ingests a hypothesis artifact and commits the extracted
graph; the graph command group reads, refreshes, exports, or clears the
committed graph.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./hypogen.yaml or ~/.config/hypogen/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "directory for the graph store database (default: data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("hypogen")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "hypogen"))
		}
	}

	viper.SetEnvPrefix("HYPOGEN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dataDir resolves the store directory: flag, then config, then default.
func dataDir() string {
	if dir, _ := rootCmd.PersistentFlags().GetString("data-dir"); dir != "" {
		return dir
	}
	if dir := viper.GetString("store.data_dir"); dir != "" {
		return dir
	}
	return "data"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
