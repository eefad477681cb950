// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scopus-monitor/internal/mailer"
	"github.com/pdiddy/scopus-monitor/internal/monitor"
	"github.com/pdiddy/scopus-monitor/internal/scopus"
	"github.com/pdiddy/scopus-monitor/internal/summary"
)

var (
	runQueryFile string
	runDryRun    bool
	runStateFile string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one monitoring cycle and email the digest",
	Long: `Run computes the rolling lookback window (default 30 days), fetches
matching Scopus records, works out which ones are new since the last report,
snapshots both sets to CSV, generates the trend summary and research
directions when a Gemini key is configured, and emails the digest.

The notification ledger is only updated after a successful send: a failed
run reports nothing as notified and is safe to re-run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if runStateFile != "" {
			cfg.StateFile = runStateFile
		}
		if runQueryFile != "" {
			qf, err := scopus.ReadQueryFile(runQueryFile)
			if err != nil {
				return err
			}
			cfg.Scopus.QueryCore = qf.QueryCore
			if qf.LabContext != "" {
				cfg.Summary.LabContext = qf.LabContext
			}
		}
		if err := validateConfig(cfg, runDryRun); err != nil {
			return err
		}

		deps := monitor.Deps{
			Searcher: scopus.NewClient(cfg.Scopus),
			DryRun:   runDryRun,
		}
		if gb := summary.NewGeminiBackend(cfg.Summary); gb != nil {
			deps.Summarizer = gb
			fmt.Fprintf(os.Stderr, "Summarization model: %s\n", gb.Model())
		} else {
			fmt.Fprintln(os.Stderr, "No Gemini API key configured; summarization disabled.")
		}
		if runDryRun {
			deps.Sender = dryRunSender{out: os.Stdout}
		} else {
			m, err := mailer.New(cfg.Mail)
			if err != nil {
				return err
			}
			deps.Sender = m
		}

		return monitor.Run(cmd.Context(), cfg, deps, os.Stdout)
	},
}

// dryRunSender prints the digest instead of delivering it.
type dryRunSender struct {
	out io.Writer
}

func (s dryRunSender) Send(_ context.Context, subject, htmlBody string) error {
	fmt.Fprintf(s.out, "Subject: %s\n\n%s\n", subject, htmlBody)
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runQueryFile, "query-file", "", "YAML query profile overriding the configured query core and lab context")
	runCmd.Flags().StringVar(&runStateFile, "state-file", "", "path of the notification ledger (default state.json)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "render the digest to stdout instead of sending; leaves the ledger untouched")

	rootCmd.AddCommand(runCmd)
}
