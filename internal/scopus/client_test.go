// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// --- BuildQuery ---

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		core   string
		cutoff string
		want   string
	}{
		{
			"custom core",
			`TITLE-ABS-KEY("laser powder bed fusion")`,
			"20250801",
			`(TITLE-ABS-KEY("laser powder bed fusion")) AND ORIG-LOAD-DATE AFT 20250801`,
		},
		{
			"empty core falls back to the default",
			"",
			"20250801",
			"(" + DefaultQueryCore + ") AND ORIG-LOAD-DATE AFT 20250801",
		},
		{
			"whitespace core falls back to the default",
			"   ",
			"20250801",
			"(" + DefaultQueryCore + ") AND ORIG-LOAD-DATE AFT 20250801",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.core, tt.cutoff); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

// --- Mock Scopus server ---

// pageEntry builds one minimal entry JSON object.
func pageEntry(eid, title, coverDate string) map[string]any {
	return map[string]any{
		"eid":                   eid,
		"dc:title":              title,
		"dc:creator":            "Kim S.",
		"prism:coverDate":       coverDate,
		"prism:publicationName": "Additive Manufacturing",
		"citedby-count":         "3",
	}
}

// scopusServer serves canned pages keyed by start offset and records how
// offsets were requested.
func scopusServer(t *testing.T, total int, pages map[int][]map[string]any, gotStarts *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-ELS-APIKey"); got != "test-key" {
			t.Errorf("X-ELS-APIKey = %q, want %q", got, "test-key")
		}
		q := r.URL.Query()
		if got := q.Get("view"); got != "STANDARD" {
			t.Errorf("view = %q, want STANDARD", got)
		}
		if got := q.Get("field"); !strings.Contains(got, "eid") {
			t.Errorf("field selection %q does not request eid", got)
		}

		start, _ := strconv.Atoi(q.Get("start"))
		*gotStarts = append(*gotStarts, start)

		entries := pages[start]
		if entries == nil {
			entries = []map[string]any{}
		}
		resp := map[string]any{
			"search-results": map[string]any{
				"opensearch:totalResults": strconv.Itoa(total),
				"entry":                   entries,
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(ts *httptest.Server, pageSize int) *Client {
	c := NewClient(types.ScopusConfig{
		APIKey:            "test-key",
		PageSize:          pageSize,
		RequestsPerSecond: 1000, // no pacing in tests
	})
	c.httpClient = ts.Client()
	return c
}

func TestSearchAllPaginatesToTotal(t *testing.T) {
	pages := map[int][]map[string]any{
		0: {pageEntry("2-s2.0-1", "Paper one", "2025-08-10"), pageEntry("2-s2.0-2", "Paper two", "2025-08-09")},
		2: {pageEntry("2-s2.0-3", "Paper three", "2025-08-08")},
	}
	var starts []int
	ts := scopusServer(t, 3, pages, &starts)
	defer ts.Close()
	oldBase := searchBase
	searchBase = ts.URL
	defer func() { searchBase = oldBase }()

	records, err := newTestClient(ts, 2).SearchAll(context.Background(), "q")
	if err != nil {
		t.Fatalf("SearchAll() error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if want := []int{0, 2}; len(starts) != 2 || starts[0] != want[0] || starts[1] != want[1] {
		t.Errorf("requested offsets %v, want %v", starts, want)
	}
	if records[0].EID != "2-s2.0-1" || records[2].EID != "2-s2.0-3" {
		t.Errorf("records out of order: %v", records)
	}
}

func TestSearchAllDeduplicatesOverlappingPages(t *testing.T) {
	// Page two repeats an EID from page one; first occurrence wins.
	pages := map[int][]map[string]any{
		0: {pageEntry("2-s2.0-1", "Paper one", "2025-08-10"), pageEntry("2-s2.0-2", "Paper two", "2025-08-09")},
		2: {pageEntry("2-s2.0-2", "Paper two again", "2025-08-09"), pageEntry("2-s2.0-3", "Paper three", "2025-08-08")},
	}
	var starts []int
	ts := scopusServer(t, 4, pages, &starts)
	defer ts.Close()
	oldBase := searchBase
	searchBase = ts.URL
	defer func() { searchBase = oldBase }()

	records, err := newTestClient(ts, 2).SearchAll(context.Background(), "q")
	if err != nil {
		t.Fatalf("SearchAll() error: %v", err)
	}

	seen := make(map[string]bool)
	for _, r := range records {
		if seen[r.EID] {
			t.Fatalf("duplicate EID %q in result set", r.EID)
		}
		seen[r.EID] = true
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[1].Title != "Paper two" {
		t.Errorf("first occurrence should win, got title %q", records[1].Title)
	}
}

func TestSearchAllStopsOnEmptyPage(t *testing.T) {
	// Advertised total says 100 but the server runs dry after one page: the
	// zero-entries condition must terminate the loop.
	pages := map[int][]map[string]any{
		0: {pageEntry("2-s2.0-1", "Paper one", "2025-08-10")},
	}
	var starts []int
	ts := scopusServer(t, 100, pages, &starts)
	defer ts.Close()
	oldBase := searchBase
	searchBase = ts.URL
	defer func() { searchBase = oldBase }()

	records, err := newTestClient(ts, 1).SearchAll(context.Background(), "q")
	if err != nil {
		t.Fatalf("SearchAll() error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if len(starts) != 2 {
		t.Errorf("made %d requests, want 2 (one full page, one empty)", len(starts))
	}
}

func TestSearchAllDropsEntriesWithoutEID(t *testing.T) {
	pages := map[int][]map[string]any{
		0: {
			pageEntry("", "No identifier", "2025-08-10"),
			pageEntry("2-s2.0-9", "Kept", "2025-08-09"),
		},
	}
	var starts []int
	ts := scopusServer(t, 2, pages, &starts)
	defer ts.Close()
	oldBase := searchBase
	searchBase = ts.URL
	defer func() { searchBase = oldBase }()

	records, err := newTestClient(ts, 25).SearchAll(context.Background(), "q")
	if err != nil {
		t.Fatalf("SearchAll() error: %v", err)
	}
	if len(records) != 1 || records[0].EID != "2-s2.0-9" {
		t.Fatalf("got %v, want the single record with an EID", records)
	}
}

func TestSearchAllAbortsOnHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"service-error":{"status":{"statusText":"Invalid API Key"}}}`)
	}))
	defer ts.Close()
	oldBase := searchBase
	searchBase = ts.URL
	defer func() { searchBase = oldBase }()

	_, err := newTestClient(ts, 25).SearchAll(context.Background(), "q")
	if err == nil {
		t.Fatal("SearchAll() expected error on HTTP 401")
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("error %q does not carry the status code", err)
	}
	if !strings.Contains(err.Error(), "Invalid API Key") {
		t.Errorf("error %q does not carry the response body", err)
	}
}

// --- affiliation polymorphism ---

func TestAffiliationFieldShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []types.Affiliation
	}{
		{
			name: "absent",
			raw:  `{"eid":"x"}`,
			want: nil,
		},
		{
			name: "null",
			raw:  `{"eid":"x","affiliation":null}`,
			want: nil,
		},
		{
			name: "single object",
			raw:  `{"eid":"x","affiliation":{"affilname":"Guangxi University","affiliation-city":"Nanning","affiliation-country":"China"}}`,
			want: []types.Affiliation{{Name: "Guangxi University", City: "Nanning", Country: "China"}},
		},
		{
			name: "list of objects",
			raw:  `{"eid":"x","affiliation":[{"affilname":"A"},{"affilname":"B","affiliation-country":"Korea"}]}`,
			want: []types.Affiliation{{Name: "A"}, {Name: "B", Country: "Korea"}},
		},
		{
			name: "bare string",
			raw:  `{"eid":"x","affiliation":"Ningbo Institute"}`,
			want: []types.Affiliation{{Name: "Ningbo Institute"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e entry
			if err := json.Unmarshal([]byte(tt.raw), &e); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got := []types.Affiliation(e.Affiliation)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("affiliation[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
