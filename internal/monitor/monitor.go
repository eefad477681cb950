// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package monitor sequences one monitoring run: compute the query window,
// fetch, snapshot, summarize, render, send, persist state. It is invoked once
// per external schedule trigger and holds no state between runs beyond the
// notification ledger file.
package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/scopus-monitor/internal/report"
	"github.com/pdiddy/scopus-monitor/internal/scopus"
	"github.com/pdiddy/scopus-monitor/internal/snapshot"
	"github.com/pdiddy/scopus-monitor/internal/state"
	"github.com/pdiddy/scopus-monitor/internal/summary"
	"github.com/pdiddy/scopus-monitor/pkg/types"
)

const defaultLookbackDays = 30

// Searcher fetches the full, deduplicated record set for a query.
type Searcher interface {
	SearchAll(ctx context.Context, query string) ([]types.Record, error)
}

// Sender delivers the rendered digest to the distribution list.
type Sender interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Deps collects the injected collaborators for one run.
type Deps struct {
	Searcher Searcher
	Sender   Sender

	// Summarizer may be nil: summarization is then skipped and the digest is
	// sent without trend/direction sections.
	Summarizer summary.Backend

	// Now supplies the current time; nil defaults to the wall clock. The run
	// converts it to KST for the window and all run labels.
	Now func() time.Time

	// DryRun leaves the notification ledger untouched after the send, so a
	// rehearsal run never marks records as notified.
	DryRun bool
}

// Run executes one monitoring cycle. Fetch and send errors abort the run; the
// ledger is only updated after a successful send, so a failed run marks
// nothing as notified and is safe to re-run. Summarization failures degrade
// the digest and are reported to w, never returned.
func Run(ctx context.Context, cfg types.MonitorConfig, deps Deps, w io.Writer) error {
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn().In(KST())

	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = defaultLookbackDays
	}
	cutoff := now.AddDate(0, 0, -lookback).Format("20060102")
	query := scopus.BuildQuery(cfg.Scopus.QueryCore, cutoff)

	fmt.Fprintf(w, "KST now: %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(w, "Query: %s\n", query)

	st, err := state.Load(cfg.StateFile)
	if err != nil {
		return err
	}

	records, err := deps.Searcher.SearchAll(ctx, query)
	if err != nil {
		return fmt.Errorf("fetching records: %w", err)
	}
	fmt.Fprintf(w, "Fetched entries (%dd): %d\n", lookback, len(records))

	newSince := st.NewSince(records)
	fmt.Fprintf(w, "New since last report: %d\n", len(newSince))

	runDate := now.Format("20060102")
	for _, snap := range []struct {
		label   string
		records []types.Record
	}{
		{fmt.Sprintf("scopus_all_%dd_%s", lookback, runDate), records},
		{fmt.Sprintf("scopus_new_since_last_%s", runDate), newSince},
	} {
		path, err := snapshot.WriteCSV(cfg.SnapshotDir, snap.label, snap.records)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Snapshot written: %s\n", path)
	}

	trend := summary.TrendSummary(ctx, deps.Summarizer, records, cfg.Summary.ContextCap)
	reportOutcome(w, "trend summary", trend)

	directions := summary.ResearchDirections(ctx, deps.Summarizer, records, cfg.Summary.LabContext, cfg.Summary.ContextCap)
	reportOutcome(w, "research directions", directions)

	html, err := report.BuildHTML(report.Data{
		Query:      query,
		Lookback:   lookback,
		Records:    records,
		NewCount:   len(newSince),
		Trend:      trend.Text,
		Directions: directions.Text,
	})
	if err != nil {
		return err
	}

	if err := deps.Sender.Send(ctx, report.Subject(runDate, lookback), html); err != nil {
		return err
	}
	fmt.Fprintln(w, "Digest sent.")

	if deps.DryRun {
		fmt.Fprintln(w, "Dry run: ledger not updated.")
		return nil
	}

	st.MarkAll(records, now)
	if err := st.Save(cfg.StateFile); err != nil {
		return err
	}
	fmt.Fprintf(w, "State updated: %d notified EIDs.\n", st.Len())
	return nil
}

func reportOutcome(w io.Writer, name string, r summary.Result) {
	switch r.Status {
	case summary.StatusProduced:
		fmt.Fprintf(w, "Generated %s (%d chars).\n", name, len(r.Text))
	case summary.StatusSkipped:
		fmt.Fprintf(w, "Skipped %s: no backend configured or no records.\n", name)
	case summary.StatusFailed:
		fmt.Fprintf(w, "warning: %s failed: %v\n", name, r.Err)
	}
}

// KST returns the report time zone. The monitor labels runs and report
// timestamps in Korea Standard Time; a fixed +09:00 zone stands in when the
// tz database is unavailable.
func KST() *time.Location {
	if loc, err := time.LoadLocation("Asia/Seoul"); err == nil {
		return loc
	}
	return time.FixedZone("KST", 9*60*60)
}
