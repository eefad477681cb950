// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scopus queries the Scopus Search API and returns the full,
// deduplicated record set for a query, regardless of how many pages the
// upstream service requires.
package scopus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// searchBase is the Scopus Search API endpoint. Declared as a var so tests
// can substitute an httptest server.
var searchBase = "https://api.elsevier.com/content/search/scopus"

// searchFields is the STANDARD-view field selection sent with every page
// request.
const searchFields = "eid,dc:title,dc:creator,prism:coverDate,prism:publicationName,prism:doi," +
	"prism:issn,prism:eIssn,prism:volume,prism:issueIdentifier,prism:pageRange," +
	"subtypeDescription,citedby-count,authkeywords,prism:aggregationType,prism:url," +
	"openaccess,openaccessFlag,afid,affiliation,prism:coverDisplayDate,prism:publicationDate"

const (
	defaultPageSize = 25
	defaultRate     = 5.0
	defaultTimeout  = 30 * time.Second

	// errorBodyLimit truncates upstream error bodies carried in fetch errors.
	errorBodyLimit = 900
)

// DefaultQueryCore is the topical filter used when no override is configured.
const DefaultQueryCore = `TITLE-ABS-KEY("additive manufacturing") AND KEY("superalloys")`

// BuildQuery combines the topical core with the rolling load-date window.
// cutoff is the earliest load date, formatted YYYYMMDD.
func BuildQuery(core, cutoff string) string {
	if strings.TrimSpace(core) == "" {
		core = DefaultQueryCore
	}
	return fmt.Sprintf("(%s) AND ORIG-LOAD-DATE AFT %s", core, cutoff)
}

// Client pages through Scopus search results with a fixed pacing delay
// between page requests.
type Client struct {
	httpClient *http.Client
	apiKey     string
	userAgent  string
	pageSize   int
	limiter    *rate.Limiter
}

// NewClient builds a Client from cfg, applying defaults for unset fields.
func NewClient(cfg types.ScopusConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRate
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		userAgent:  cfg.UserAgent,
		pageSize:   pageSize,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// SearchAll fetches every page for query and returns EID-deduplicated records
// in API order.
//
// The advertised total is captured from the first page only and used purely
// as a loop-termination bound; totals reported by later pages are ignored. A
// server that never returns entries terminates the loop via the zero-entries
// condition even when the advertised total was never reached. Any non-success
// response aborts the whole fetch: no partial results, no retry.
func (c *Client) SearchAll(ctx context.Context, query string) ([]types.Record, error) {
	var entries []entry
	total := -1

	for start := 0; ; start += c.pageSize {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, pageTotal, err := c.fetchPage(ctx, query, start)
		if err != nil {
			return nil, err
		}

		if total < 0 {
			total = pageTotal
		}
		if len(page) == 0 {
			break
		}

		entries = append(entries, page...)
		if len(entries) >= total {
			break
		}
	}

	return dedupe(entries), nil
}

// fetchPage requests one page at the given offset and returns its entries and
// the total the server advertised for the whole result set.
func (c *Client) fetchPage(ctx context.Context, query string, start int) ([]entry, int, error) {
	params := url.Values{
		"query": {query},
		"count": {strconv.Itoa(c.pageSize)},
		"start": {strconv.Itoa(start)},
		"view":  {"STANDARD"},
		"field": {searchFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-ELS-APIKey", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("Scopus API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, 0, fmt.Errorf("Scopus API returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var env searchEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, 0, fmt.Errorf("parsing Scopus response: %w", err)
	}

	// Scopus encodes the total as a string; an absent or malformed value
	// counts as zero so the zero-entries condition alone terminates the loop.
	total, _ := strconv.Atoi(strings.TrimSpace(env.SearchResults.TotalResults))

	return env.SearchResults.Entries, total, nil
}

// dedupe drops entries with a missing or previously seen EID,
// first-occurrence-wins, preserving order.
func dedupe(entries []entry) []types.Record {
	seen := make(map[string]bool, len(entries))
	records := make([]types.Record, 0, len(entries))
	for _, e := range entries {
		eid := strings.TrimSpace(e.EID)
		if eid == "" || seen[eid] {
			continue
		}
		seen[eid] = true
		records = append(records, e.toRecord())
	}
	return records
}

// Scopus Search API JSON structures.
type searchEnvelope struct {
	SearchResults searchResults `json:"search-results"`
}

type searchResults struct {
	TotalResults string  `json:"opensearch:totalResults"`
	Entries      []entry `json:"entry"`
}

type entry struct {
	EID             string           `json:"eid"`
	Title           string           `json:"dc:title"`
	Creator         string           `json:"dc:creator"`
	CoverDate       string           `json:"prism:coverDate"`
	PublicationName string           `json:"prism:publicationName"`
	DOI             string           `json:"prism:doi"`
	CitedByCount    string           `json:"citedby-count"`
	AuthKeywords    string           `json:"authkeywords"`
	Affiliation     affiliationField `json:"affiliation"`
}

func (e entry) toRecord() types.Record {
	return types.Record{
		EID:             strings.TrimSpace(e.EID),
		Title:           e.Title,
		Creator:         e.Creator,
		Affiliations:    e.Affiliation,
		PublicationName: e.PublicationName,
		CoverDate:       e.CoverDate,
		DOI:             strings.TrimSpace(e.DOI),
		CitedByCount:    e.CitedByCount,
		AuthKeywords:    e.AuthKeywords,
	}
}

// affiliationField absorbs the polymorphic Scopus affiliation value: absent,
// a single object, an array of objects, or occasionally a bare string.
type affiliationField []types.Affiliation

func (f *affiliationField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}

	switch data[0] {
	case '[':
		var list []types.Affiliation
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("parsing affiliation list: %w", err)
		}
		*f = list
	case '{':
		var one types.Affiliation
		if err := json.Unmarshal(data, &one); err != nil {
			return fmt.Errorf("parsing affiliation: %w", err)
		}
		*f = affiliationField{one}
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parsing affiliation string: %w", err)
		}
		if s = strings.TrimSpace(s); s != "" {
			*f = affiliationField{{Name: s}}
		}
	default:
		return fmt.Errorf("unexpected affiliation value: %s", string(data))
	}
	return nil
}
