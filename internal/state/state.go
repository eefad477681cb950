// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package state persists the ledger of previously notified record identifiers.
// The ledger only grows: identifiers are added after each successful report
// and never evicted, so membership means "already reported at least once".
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// State is the in-memory notification ledger for one run.
type State struct {
	seen       map[string]bool
	lastReport string
}

// stateFile is the on-disk JSON representation. EIDs are serialized sorted
// for reproducible diffing between runs.
type stateFile struct {
	NotifiedEIDs  []string `json:"notified_eids"`
	LastReportKST string   `json:"last_report_kst"`
}

// New returns an empty ledger.
func New() *State {
	return &State{seen: make(map[string]bool)}
}

// Load reads the ledger from path. A missing file is not an error: it yields
// an empty ledger, which is the normal first-run condition.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("reading state file %s: %w", path, err)
	}

	var sf stateFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing state file %s: %w", path, err)
	}

	s := New()
	s.lastReport = sf.LastReportKST
	for _, eid := range sf.NotifiedEIDs {
		if eid != "" {
			s.seen[eid] = true
		}
	}
	return s, nil
}

// Save writes the ledger to path. It writes to a temporary file in the same
// directory and renames it into place, so a crash mid-write leaves the
// previous state intact. The rename is not fsync-hardened; that gap is
// accepted for a weekly batch job.
func (s *State) Save(path string) error {
	sf := stateFile{
		NotifiedEIDs:  s.EIDs(),
		LastReportKST: s.lastReport,
	}

	data, err := json.MarshalIndent(sf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing state file %s: %w", path, err)
	}
	return nil
}

// Known reports whether eid has already been notified.
func (s *State) Known(eid string) bool {
	return s.seen[eid]
}

// Len returns the number of identifiers in the ledger.
func (s *State) Len() int {
	return len(s.seen)
}

// LastReport returns the timestamp string of the last successful report, or
// "" when no report has been sent yet.
func (s *State) LastReport() string {
	return s.lastReport
}

// NewSince returns, in input order, the records whose EID is not yet in the
// ledger.
func (s *State) NewSince(records []types.Record) []types.Record {
	var out []types.Record
	for _, r := range records {
		if r.EID != "" && !s.seen[r.EID] {
			out = append(out, r)
		}
	}
	return out
}

// MarkAll adds every record's EID to the ledger and stamps the report time.
// The ledger never shrinks; re-marking a known EID is a no-op.
func (s *State) MarkAll(records []types.Record, reportedAt time.Time) {
	for _, r := range records {
		if r.EID != "" {
			s.seen[r.EID] = true
		}
	}
	s.lastReport = reportedAt.Format("2006-01-02 15:04:05 MST")
}

// EIDs returns the ledger contents sorted ascending.
func (s *State) EIDs() []string {
	eids := make([]string, 0, len(s.seen))
	for eid := range s.seen {
		eids = append(eids, eid)
	}
	sort.Strings(eids)
	return eids
}
