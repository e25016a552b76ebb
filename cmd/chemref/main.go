// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the chemref CLI.
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

// rootCmd is the base command for the chemref CLI.
var rootCmd = &cobra.Command{
	Use:   "chemref",
	Short: "Build per-organism chemistry reference databases",
	Long: `chemref builds per-organism chemistry reference databases for a
mass-spectrometry annotation workflow. It loads metabolite lists from
spreadsheet exports, JSON metabolic models, or SBML models, normalizes them
into uniform records with concrete elemental compositions, and persists a
reference database per organism.

Organisms can be defined ad hoc with flags or as presets under "organisms:"
in the config file. Each organism run is independent: a bad source aborts
that organism only.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./chemref.yaml or ~/.config/chemref/config.yaml)")
	rootCmd.PersistentFlags().String("output-dir", "db", "destination directory for databases and reports")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("chemref")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "chemref"))
		}
	}

	viper.SetEnvPrefix("CHEMREF")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
