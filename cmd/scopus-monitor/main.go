// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the scopus-monitor CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scopus-monitor/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, or the secret stored under key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the scopus-monitor CLI.
var rootCmd = &cobra.Command{
	Use:   "scopus-monitor",
	Short: "Weekly Scopus literature monitor with AI trend digests",
	Long: `scopus-monitor watches the Scopus Search API for newly indexed papers
matching a fixed topical query, deduplicates against previously reported
records, asks Gemini for a trend summary and lab-tailored research
directions, and emails the digest to a distribution list.

The run subcommand executes exactly one cycle; scheduling is left to cron
or CI. State lives in a flat JSON ledger so repeated runs never re-report
the same record.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is a local-development convenience; absence is normal.
		_ = godotenv.Load()

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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./scopus-monitor.yaml or ~/.config/scopus-monitor/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("scopus-monitor")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "scopus-monitor"))
		}
	}

	viper.SetEnvPrefix("SCOPUS_MONITOR")
	viper.AutomaticEnv()

	// The deployment surface uses bare environment names; bind them so they
	// take effect without the prefix.
	for key, env := range map[string]string{
		"scopus.api_key":      "SCOPUS_API_KEY",
		"scopus.query_core":   "SCOPUS_QUERY_CORE",
		"summary.api_key":     "GEMINI_API_KEY",
		"summary.model":       "GEMINI_MODEL",
		"summary.lab_context": "LAB_CONTEXT",
		"mail.from":           "EMAIL_FROM",
		"mail.to":             "EMAIL_TO",
		"mail.app_password":   "GMAIL_APP_PASSWORD",
	} {
		viper.BindEnv(key, env)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
