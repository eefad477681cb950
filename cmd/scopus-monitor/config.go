// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// loadConfig assembles the monitor configuration from the config file,
// environment, and loaded secrets. Components receive this struct by value;
// nothing below the CLI reads viper or the environment.
func loadConfig() types.MonitorConfig {
	cfg := types.MonitorConfig{
		Scopus: types.ScopusConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("scopus.timeout"),
				UserAgent: userAgent(),
			},
			APIKey:            secretDefault("scopus-api-key", viper.GetString("scopus.api_key")),
			QueryCore:         viper.GetString("scopus.query_core"),
			PageSize:          viper.GetInt("scopus.page_size"),
			RequestsPerSecond: viper.GetFloat64("scopus.requests_per_second"),
		},
		Summary: types.SummaryConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("summary.timeout"),
				UserAgent: userAgent(),
			},
			AIConfig: types.AIConfig{
				Model:      viper.GetString("summary.model"),
				APIKey:     secretDefault("gemini-api-key", viper.GetString("summary.api_key")),
				MaxRetries: viper.GetInt("summary.max_retries"),
			},
			LabContext: viper.GetString("summary.lab_context"),
			ContextCap: viper.GetInt("summary.context_cap"),
		},
		Mail: types.MailConfig{
			Host:        viper.GetString("mail.host"),
			Port:        viper.GetInt("mail.port"),
			From:        viper.GetString("mail.from"),
			To:          viper.GetString("mail.to"),
			AppPassword: secretDefault("gmail-app-password", viper.GetString("mail.app_password")),
		},
		StateFile:    viper.GetString("state_file"),
		SnapshotDir:  viper.GetString("snapshot_dir"),
		LookbackDays: viper.GetInt("lookback_days"),
	}

	if cfg.StateFile == "" {
		cfg.StateFile = "state.json"
	}
	if cfg.SnapshotDir == "" {
		cfg.SnapshotDir = "snapshots"
	}
	return cfg
}

func userAgent() string {
	return "scopus-monitor/" + version
}

// validateConfig checks the credentials a run needs up front, so a
// misconfigured scheduler job fails before any network call. Mail settings
// are exempt in dry-run mode; a missing Gemini key is never an error.
func validateConfig(cfg types.MonitorConfig, dryRun bool) error {
	if cfg.Scopus.APIKey == "" {
		return fmt.Errorf("SCOPUS_API_KEY is not set")
	}
	if dryRun {
		return nil
	}
	switch {
	case cfg.Mail.From == "":
		return fmt.Errorf("EMAIL_FROM is not set")
	case cfg.Mail.To == "":
		return fmt.Errorf("EMAIL_TO is not set")
	case cfg.Mail.AppPassword == "":
		return fmt.Errorf("GMAIL_APP_PASSWORD is not set")
	}
	return nil
}
