// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the scopus-monitor pipeline.
package types

import (
	"strings"
	"time"
)

// Affiliation is one structured affiliation entry attached to a Scopus record.
// The JSON tags match the Scopus Search API field names so the search client
// can decode entries directly.
type Affiliation struct {
	// Name is the institution name (Scopus "affilname").
	Name string `json:"affilname" yaml:"name"`

	// City is the institution city, often empty.
	City string `json:"affiliation-city" yaml:"city,omitempty"`

	// Country is the institution country, often empty.
	Country string `json:"affiliation-country" yaml:"country,omitempty"`
}

// String renders the affiliation as "Name (City, Country)", dropping whatever
// parts are missing.
func (a Affiliation) String() string {
	var locParts []string
	for _, p := range []string{a.City, a.Country} {
		if strings.TrimSpace(p) != "" {
			locParts = append(locParts, strings.TrimSpace(p))
		}
	}
	name := strings.TrimSpace(a.Name)
	loc := strings.Join(locParts, ", ")
	switch {
	case name != "" && loc != "":
		return name + " (" + loc + ")"
	case name != "":
		return name
	default:
		return loc
	}
}

// Record represents one publication entry returned by the Scopus Search API.
type Record struct {
	// EID is the unique identifier Scopus assigns to the publication. It is
	// the dedup key: no returned collection may contain two records with the
	// same EID.
	EID string `json:"eid" yaml:"eid"`

	// Title is the publication title.
	Title string `json:"title" yaml:"title"`

	// Creator is the first-author display string (Scopus "dc:creator").
	Creator string `json:"creator" yaml:"creator"`

	// Affiliations lists the structured affiliations. The wire format is
	// polymorphic (absent, single object, or array); the search client
	// normalizes all three shapes into this slice.
	Affiliations []Affiliation `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`

	// PublicationName is the journal or venue name.
	PublicationName string `json:"publication_name" yaml:"publication_name"`

	// CoverDate is the ISO-ish cover date string ("2024-03-15", sometimes
	// partial or empty). Kept as a string; use CoverTime for sorting.
	CoverDate string `json:"cover_date" yaml:"cover_date"`

	// DOI is the digital object identifier, often empty.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// CitedByCount is the citation count as reported by Scopus. The API
	// encodes it as a string, so it is carried verbatim.
	CitedByCount string `json:"citedby_count,omitempty" yaml:"citedby_count,omitempty"`

	// AuthKeywords is the free-text author keyword list.
	AuthKeywords string `json:"authkeywords,omitempty" yaml:"authkeywords,omitempty"`
}

// coverDateLayouts are the accepted CoverDate formats, most specific first.
var coverDateLayouts = []string{"2006-01-02", "2006-01", "2006"}

// CoverTime parses CoverDate. The second return is false when the date is
// missing or unparsable; callers must sort such records after all dated ones
// instead of erroring.
func (r Record) CoverTime() (time.Time, bool) {
	s := strings.TrimSpace(r.CoverDate)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range coverDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// PrimaryAffiliation returns the single representative affiliation: the first
// entry, rendered as text, or "" when the record carries none.
func (r Record) PrimaryAffiliation() string {
	if len(r.Affiliations) == 0 {
		return ""
	}
	return r.Affiliations[0].String()
}

// AffiliationList joins all affiliations with "; ", de-duplicating repeats
// while preserving order.
func (r Record) AffiliationList() string {
	seen := make(map[string]bool, len(r.Affiliations))
	var parts []string
	for _, a := range r.Affiliations {
		s := a.String()
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

// DOILink returns the resolver URL for the record's DOI, or "" without one.
func (r Record) DOILink() string {
	doi := strings.TrimSpace(r.DOI)
	if doi == "" {
		return ""
	}
	return "https://doi.org/" + doi
}

// ScopusLink returns the Scopus web record URL derived from the EID, or ""
// without one.
func (r Record) ScopusLink() string {
	eid := strings.TrimSpace(r.EID)
	if eid == "" {
		return ""
	}
	return "https://www.scopus.com/record/display.uri?eid=" + eid + "&origin=resultslist"
}
