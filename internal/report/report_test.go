// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

func datedRecords(n int) []types.Record {
	out := make([]types.Record, n)
	for i := range out {
		out[i] = types.Record{
			EID:             fmt.Sprintf("2-s2.0-%03d", i+1),
			Title:           fmt.Sprintf("Paper %03d", i+1),
			PublicationName: "Journal of Alloys",
			// Later records carry later dates.
			CoverDate: fmt.Sprintf("2025-07-%02d", i%28+1),
		}
	}
	return out
}

func TestBuildHTMLCapsItemList(t *testing.T) {
	html, err := BuildHTML(Data{Query: "q", Records: datedRecords(100)})
	if err != nil {
		t.Fatalf("BuildHTML() error: %v", err)
	}
	if got := strings.Count(html, "<li"); got != renderLimit {
		t.Errorf("rendered %d items, want %d", got, renderLimit)
	}
}

func TestBuildHTMLSortsByCoverDateDescending(t *testing.T) {
	records := []types.Record{
		{EID: "a", Title: "Oldest", CoverDate: "2025-06-01"},
		{EID: "b", Title: "Newest", CoverDate: "2025-08-20"},
		{EID: "c", Title: "Middle", CoverDate: "2025-07-10"},
	}
	html, err := BuildHTML(Data{Query: "q", Records: records})
	if err != nil {
		t.Fatalf("BuildHTML() error: %v", err)
	}
	newest := strings.Index(html, "Newest")
	middle := strings.Index(html, "Middle")
	oldest := strings.Index(html, "Oldest")
	if !(newest < middle && middle < oldest) {
		t.Errorf("order wrong: newest=%d middle=%d oldest=%d", newest, middle, oldest)
	}
}

func TestBuildHTMLUnparsableDatesSortLast(t *testing.T) {
	records := []types.Record{
		{EID: "a", Title: "NoDate"},
		{EID: "b", Title: "BadDate", CoverDate: "sometime in spring"},
		{EID: "c", Title: "Dated", CoverDate: "2025-08-20"},
	}
	html, err := BuildHTML(Data{Query: "q", Records: records})
	if err != nil {
		t.Fatalf("BuildHTML() must tolerate unparsable dates, got %v", err)
	}
	dated := strings.Index(html, "Dated")
	noDate := strings.Index(html, "NoDate")
	badDate := strings.Index(html, "BadDate")
	if !(dated < noDate && dated < badDate) {
		t.Errorf("undated records must sort after dated ones: dated=%d noDate=%d badDate=%d", dated, noDate, badDate)
	}
	// Undated records keep their relative input order.
	if !(noDate < badDate) {
		t.Errorf("undated records reordered: noDate=%d badDate=%d", noDate, badDate)
	}
}

func TestBuildHTMLOmitsEmptySections(t *testing.T) {
	html, err := BuildHTML(Data{Query: "q", Records: datedRecords(2)})
	if err != nil {
		t.Fatalf("BuildHTML() error: %v", err)
	}
	if strings.Contains(html, "Trend Summary") {
		t.Error("empty trend must omit the trend section")
	}
	if strings.Contains(html, "Research Directions") {
		t.Error("empty directions must omit the directions section")
	}
	if strings.Contains(html, "New since last weekly report") {
		t.Error("zero new records must omit the new-count line")
	}
}

func TestBuildHTMLIncludesSections(t *testing.T) {
	html, err := BuildHTML(Data{
		Query:      "q",
		Records:    datedRecords(2),
		NewCount:   5,
		Trend:      "Cracking is everywhere.",
		Directions: "1) Do the thing.",
	})
	if err != nil {
		t.Fatalf("BuildHTML() error: %v", err)
	}
	for _, want := range []string{
		"30-Day Trend Summary",
		"Cracking is everywhere.",
		"New Research Directions",
		"1) Do the thing.",
		"<b>New since last weekly report:</b> 5 papers",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("digest missing %q", want)
		}
	}
}

func TestBuildHTMLItemFieldsAndLinks(t *testing.T) {
	records := []types.Record{{
		EID:             "2-s2.0-123",
		Title:           "Crack mitigation in CM247LC",
		Creator:         "Park H.",
		PublicationName: "Additive Manufacturing",
		CoverDate:       "2025-08-01",
		DOI:             "10.1016/j.addma.2025.1",
		CitedByCount:    "7",
		Affiliations:    []types.Affiliation{{Name: "KAIST", City: "Daejeon", Country: "South Korea"}, {Name: "Second"}},
	}}
	html, err := BuildHTML(Data{Query: "q", Records: records})
	if err != nil {
		t.Fatalf("BuildHTML() error: %v", err)
	}
	for _, want := range []string{
		"Crack mitigation in CM247LC",
		"cited-by: 7",
		"Author: Park H.",
		"Affiliation: KAIST (Daejeon, South Korea)", // representative only
		"https://doi.org/10.1016/j.addma.2025.1",
		"https://www.scopus.com/record/display.uri?eid=2-s2.0-123",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("digest missing %q", want)
		}
	}
	if strings.Contains(html, "Second") {
		t.Error("item must show only the first affiliation")
	}
}

func TestBuildHTMLUntitledRecord(t *testing.T) {
	html, err := BuildHTML(Data{Query: "q", Records: []types.Record{{EID: "x"}}})
	if err != nil {
		t.Fatalf("BuildHTML() error: %v", err)
	}
	if !strings.Contains(html, "(no title)") {
		t.Error("missing title placeholder")
	}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		name     string
		lookback int
		want     string
	}{
		{"default window", 0, "[Weekly Scopus] 30-day trends + directions (20250831)"},
		{"explicit window", 30, "[Weekly Scopus] 30-day trends + directions (20250831)"},
		{"custom window", 7, "[Weekly Scopus] 7-day trends + directions (20250831)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Subject("20250831", tt.lookback); got != tt.want {
				t.Errorf("Subject() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildHTMLLookbackInHeadings(t *testing.T) {
	html, err := BuildHTML(Data{
		Query:    "q",
		Lookback: 7,
		Records:  datedRecords(1),
		Trend:    "Steady.",
	})
	if err != nil {
		t.Fatalf("BuildHTML() error: %v", err)
	}
	for _, want := range []string{"Last 7 Days", "7-Day Trend Summary"} {
		if !strings.Contains(html, want) {
			t.Errorf("digest missing %q", want)
		}
	}
	if strings.Contains(html, "30") {
		t.Error("custom window must replace the default in all headings")
	}
}
