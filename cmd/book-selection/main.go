// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the book-selection CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/book-selection/internal/catalog"
	"github.com/pdiddy/book-selection/internal/httputil"
	"github.com/pdiddy/book-selection/internal/secrets"
	"github.com/pdiddy/book-selection/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

var rootCmd = &cobra.Command{
	Use:   "book-selection",
	Short: "Search the book catalog and build a library selection list",
	Long: `book-selection helps a student pick recently published books for the library.

Search the catalog for a keyword, select candidates, edit the resulting list,
and export it as a spreadsheet in the library's form layout or the simple
layout. Use "shell" for an interactive session, "serve" to back a browser
form, or "export" to build a spreadsheet from a YAML manifest.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogging(viper.GetString("log.level"))

		s, err := secrets.Load(secrets.DefaultDir)
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
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./book-selection.yaml or ~/.config/book-selection/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func setDefaults() {
	viper.SetDefault("catalog.base_url", catalog.DefaultBaseURL)
	viper.SetDefault("catalog.max_results", catalog.DefaultMaxResults)
	viper.SetDefault("catalog.order_by", catalog.DefaultOrderBy)
	viper.SetDefault("catalog.language", catalog.DefaultLanguage)
	viper.SetDefault("catalog.api_key", "")
	viper.SetDefault("http.timeout", "15s")
	viper.SetDefault("http.user_agent", "book-selection/"+version)
	viper.SetDefault("export.layout", "form")
	viper.SetDefault("export.output_dir", ".")
	viper.SetDefault("export.deadline", "")
	viper.SetDefault("serve.addr", ":8080")
	viper.SetDefault("serve.allowed_origins", []string{})
	viper.SetDefault("log.level", "info")
}

func initConfig() {
	setDefaults()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("book-selection")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "book-selection"))
		}
	}

	viper.SetEnvPrefix("BOOK_SELECTION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setupLogging installs a text handler on stderr at the named level.
func setupLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

// loadConfig decodes the merged viper settings. The API key falls back to
// the secrets directory when no config value is set.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Catalog.APIKey = loadedSecrets.Get(secrets.GoogleBooksAPIKey, cfg.Catalog.APIKey)
	return cfg, nil
}

// newCatalogClient wires the shared HTTP client into a catalog client.
func newCatalogClient(cfg types.Config) *catalog.Client {
	return catalog.NewClient(httputil.NewClient(cfg.HTTP), cfg.Catalog, cfg.HTTP.UserAgent)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
