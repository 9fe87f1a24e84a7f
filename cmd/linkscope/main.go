// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command linkscope analyzes linker-generated linkinfo.xml documents:
// size reports, dependency graphs, icicle plots, and LLM-based feature
// grouping.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "linkscope",
		Short: "Linker map analysis for embedded binaries",
		Long: "linkscope parses a linker-generated linkinfo.xml document and produces\n" +
			"size reports, dependency graphs, and visualizations from the resolved model.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(viper.GetBool("verbose"))
		},
	}

	// Global flags.
	rootCmd.PersistentFlags().String("config", "", "Config file (default $HOME/.linkscope.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("filter-debug", false, "Exclude .debug_* sections from the model")

	// Bind flags to viper.
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("filter-debug", rootCmd.PersistentFlags().Lookup("filter-debug"))

	// Env vars: LINKSCOPE_FILTER_DEBUG, LINKSCOPE_API_KEY, etc.
	viper.SetEnvPrefix("LINKSCOPE")
	viper.AutomaticEnv()

	// Config file.
	cobra.OnInitialize(func() {
		if cfg := viper.GetString("config"); cfg != "" {
			viper.SetConfigFile(cfg)
		} else {
			viper.SetConfigName(".linkscope")
			viper.SetConfigType("yaml")
			viper.AddConfigPath(".")
			if home, err := os.UserHomeDir(); err == nil {
				viper.AddConfigPath(home)
			}
		}
		viper.ReadInConfig() // Ignore error; config file is optional.
	})

	// Add commands.
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newGraphCmd())
	rootCmd.AddCommand(newIcicleCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging installs a tinted slog handler on stderr as the default
// logger.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print linkscope version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("linkscope %s\n", version)
		},
	}
}
