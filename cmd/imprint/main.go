// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the imprint CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/imprint/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is installed by the root command before any subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for the imprint CLI.
var rootCmd = &cobra.Command{
	Use:   "imprint",
	Short: "Book metadata, ISBN barcodes and layout assignment for print production",
	Long: `imprint prepares a book project for a desktop-publishing application.
It reads the book's front-matter metadata, validates and encodes its ISBNs,
and assigns each content file to a layout template and an output position.

The layout application applies the resulting plan; imprint never opens
layout documents itself.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./imprint.yaml or ~/.config/imprint/imprint.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug details to stderr")
	rootCmd.PersistentFlags().StringP("dir", "C", "", "book project directory (default .)")
	rootCmd.PersistentFlags().String("db", "", "catalog database file (default catalog.db)")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("project.dir", rootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("db"))

	viper.SetDefault("project.dir", ".")
	viper.SetDefault("project.metadata_file", "metadata.md")
	viper.SetDefault("project.content_dir", "content")
	viper.SetDefault("project.templates_dir", "templates")
	viper.SetDefault("project.output_dir", "output")
	viper.SetDefault("catalog.path", "catalog.db")
	viper.SetDefault("catalog.max_results", 20)
	viper.SetDefault("server.addr", "127.0.0.1:8750")
	viper.SetDefault("server.read_timeout", 10*time.Second)
	viper.SetDefault("server.max_body", 1<<20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("imprint")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "imprint"))
		}
	}

	viper.SetEnvPrefix("IMPRINT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintln(os.Stderr, "Reading config:", err)
		}
	}
}

// loadConfig decodes the layered configuration.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
