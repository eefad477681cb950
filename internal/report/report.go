// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders the digest document sent to the distribution list.
// Rendering is a pure function of its inputs; it performs no I/O.
package report

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// renderLimit caps the itemized paper list. The full record set still feeds
// the trend/direction summaries and the state update.
const renderLimit = 40

// Data carries everything the digest template needs for one run.
type Data struct {
	// Query is the full Scopus query string shown in the header.
	Query string

	// Lookback is the query window in days, shown in the header and section
	// titles. Zero or negative defaults to 30.
	Lookback int

	// Records is the full windowed record set, in any order; rendering sorts
	// a copy by cover date descending.
	Records []types.Record

	// NewCount is the number of records not seen in any previous report.
	NewCount int

	// Trend is the trend-summary paragraph; empty omits the section.
	Trend string

	// Directions is the research-directions block; empty omits the section.
	Directions string
}

// item is the per-record view rendered in the list.
type item struct {
	Title       string
	Journal     string
	CoverDate   string
	CitedBy     string
	Author      string
	Affiliation string
	DOI         string
	DOILink     string
	ScopusLink  string
}

var digestTmpl = template.Must(template.New("digest").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Weekly Scopus Monitor (Last {{.Lookback}} Days)</h2>
  <p>Filter: <b>{{.Query}}</b></p>
{{- if .NewCount}}
  <p><b>New since last weekly report:</b> {{.NewCount}} papers</p>
{{- end}}
{{- if .Trend}}
  <div style="padding:12px;border:1px solid #ddd;border-radius:8px;background:#fafafa;margin:12px 0;">
    <b>{{.Lookback}}-Day Trend Summary</b><br/>
    <span>{{.Trend}}</span>
  </div>
{{- end}}
{{- if .Directions}}
  <div style="padding:12px;border:1px solid #ddd;border-radius:8px;background:#f6fbff;margin:12px 0;">
    <b>New Research Directions (Lab-Tailored)</b><br/>
    <span style="white-space:pre-wrap;">{{.Directions}}</span>
  </div>
{{- end}}
  <hr/>
  <p><b>Papers (top {{.Limit}} by latest coverDate)</b></p>
  <ol>
{{- range .Items}}
    <li style="margin-bottom:14px;">
      <b>{{.Title}}</b><br/>
      <span>{{.Journal}} | {{.CoverDate}} | cited-by: {{.CitedBy}}</span><br/>
      <span>Author: {{.Author}}</span><br/>
      <span>Affiliation: {{.Affiliation}}</span><br/>
      <span>DOI: {{.DOI}}</span><br/>
      {{- if .DOILink}}
      <a href="{{.DOILink}}">DOI</a>
      {{- end}}
      {{- if .ScopusLink}}
      <a href="{{.ScopusLink}}">Scopus</a>
      {{- end}}
    </li>
{{- end}}
  </ol>
  <hr/>
  <p style="color:#777;font-size:12px;">Auto-generated weekly report.</p>
</body>
</html>
`))

// BuildHTML renders the digest document. Records are sorted by cover date
// descending (unparsable or missing dates after all valid ones) and only the
// newest renderLimit entries appear in the itemized list.
func BuildHTML(d Data) (string, error) {
	if d.Lookback <= 0 {
		d.Lookback = 30
	}
	records := sortByCoverDate(d.Records)
	if len(records) > renderLimit {
		records = records[:renderLimit]
	}

	items := make([]item, len(records))
	for i, r := range records {
		title := r.Title
		if strings.TrimSpace(title) == "" {
			title = "(no title)"
		}
		items[i] = item{
			Title:       title,
			Journal:     r.PublicationName,
			CoverDate:   r.CoverDate,
			CitedBy:     r.CitedByCount,
			Author:      r.Creator,
			Affiliation: r.PrimaryAffiliation(),
			DOI:         r.DOI,
			DOILink:     r.DOILink(),
			ScopusLink:  r.ScopusLink(),
		}
	}

	var b strings.Builder
	err := digestTmpl.Execute(&b, struct {
		Data
		Items []item
		Limit int
	}{Data: d, Items: items, Limit: renderLimit})
	if err != nil {
		return "", fmt.Errorf("rendering digest: %w", err)
	}
	return b.String(), nil
}

// Subject returns the digest subject line for a run date (YYYYMMDD) and
// lookback window in days.
func Subject(runDate string, lookback int) string {
	if lookback <= 0 {
		lookback = 30
	}
	return fmt.Sprintf("[Weekly Scopus] %d-day trends + directions (%s)", lookback, runDate)
}

// sortByCoverDate returns a copy of records sorted by cover date descending.
// Records without a parsable date keep their relative order after all dated
// ones.
func sortByCoverDate(records []types.Record) []types.Record {
	out := make([]types.Record, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		ti, iok := out[i].CoverTime()
		tj, jok := out[j].CoverTime()
		switch {
		case iok && jok:
			return ti.After(tj)
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}
