// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the refsys CLI: citation
// verification, consensus scoring, and reference formatting over
// CSL-JSON/YAML reference lists.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/refsys/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys and contact addresses loaded from
// .secrets/ at startup.
var loadedSecrets map[string]string

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "refsys/0.1"
)

// secretDefault returns fallback if set, otherwise the secret value for
// key, otherwise "".
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the refsys CLI.
var rootCmd = &cobra.Command{
	Use:   "refsys",
	Short: "Verify, score, and format bibliographic references",
	Long: `refsys manages a reference list end to end: import CSL-JSON or
CSL-YAML records, verify their identifiers against public registries
(DOI, arXiv, PubMed, Crossref), score each work's scientific standing,
and render formatted citations.

Each pipeline stage is a subcommand: import, verify, position, works,
and cite. Registry responses are cached in a local SQLite database so
repeated runs stay cheap.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./refsys.yaml or ~/.config/refsys/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "works database file (default refsys.db)")
	rootCmd.PersistentFlags().String("cache", "", "registry cache database file (default refsys-cache.db)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	// .env is optional and never overrides the real environment.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("refsys")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "refsys"))
		}
	}

	viper.SetEnvPrefix("REFSYS")
	viper.AutomaticEnv()

	viper.SetDefault("store.path", "refsys.db")
	viper.SetDefault("cache.path", "refsys-cache.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// storePath resolves the works database location: flag, then config,
// then the default.
func storePath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p
	}
	return viper.GetString("store.path")
}

// cachePath resolves the registry cache location the same way.
func cachePath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("cache"); p != "" {
		return p
	}
	return viper.GetString("cache.path")
}

// newLogger builds the CLI logger: debug-level development output with
// --verbose, warnings and errors only otherwise.
func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		log, err := zap.NewDevelopment()
		if err == nil {
			return log
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
