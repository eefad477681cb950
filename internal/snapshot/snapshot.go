// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package snapshot exports point-in-time CSV copies of record sets. Snapshots
// are audit artifacts: written once per run, never read back by the system.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

// header is the fixed CSV column set, one row per record.
var header = []string{
	"eid", "title", "creator", "affiliation", "publication_name",
	"cover_date", "doi", "citedby_count", "authkeywords",
}

// WriteCSV writes records to dir/<label>.csv, creating dir when needed, and
// returns the written path. An empty record set still produces a file with
// the header row, so every run leaves an artifact.
func WriteCSV(dir, label string, records []types.Record) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	path := filepath.Join(dir, label+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating snapshot %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("writing snapshot header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.EID, r.Title, r.Creator, r.AffiliationList(), r.PublicationName,
			r.CoverDate, r.DOI, r.CitedByCount, r.AuthKeywords,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("writing snapshot row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing snapshot %s: %w", path, err)
	}
	return path, nil
}
