// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the notion-export CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/notion-export/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the notion-export CLI.
var rootCmd = &cobra.Command{
	Use:   "notion-export",
	Short: "Export Notion database pages to Markdown",
	Long: `notion-export reads the pages of a Notion database, converts each page's
block tree to Markdown, and writes one file per page to a content directory.
Images and videos are downloaded to a static directory and referenced by
their public URL. With --hugo, published pages get frontmatter built from
the database properties.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./notion-export.yaml or ~/.config/notion-export/notion-export.yaml)")
	flags.String("key", "", "Notion API key")
	flags.String("db", "", "database ID")
	flags.String("notion-version", "2022-06-28", "Notion-Version header")
	flags.Float64("rate-limit", 3, "maximum API requests per second")
	flags.Duration("timeout", 0, "HTTP request timeout for API calls (default 60s)")
	flags.String("manifest", "notion-export.db", "SQLite export manifest (empty disables)")

	mustBind("notion.api_key", flags.Lookup("key"))
	mustBind("notion.database_id", flags.Lookup("db"))
	mustBind("notion.version", flags.Lookup("notion-version"))
	mustBind("http.rate_limit", flags.Lookup("rate-limit"))
	mustBind("http.timeout", flags.Lookup("timeout"))
	mustBind("manifest", flags.Lookup("manifest"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("notion-export")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "notion-export"))
		}
	}

	viper.SetEnvPrefix("NOTION_EXPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
