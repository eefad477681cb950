// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pdiddy/scopus-monitor/pkg/types"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening snapshot: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parsing snapshot: %v", err)
	}
	return rows
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	records := []types.Record{
		{
			EID:             "2-s2.0-1",
			Title:           "Laser powder bed fusion of IN718",
			Creator:         "Kim J.",
			Affiliations:    []types.Affiliation{{Name: "KAIST", City: "Daejeon", Country: "South Korea"}},
			PublicationName: "Additive Manufacturing",
			CoverDate:       "2025-08-01",
			DOI:             "10.1000/x",
			CitedByCount:    "3",
			AuthKeywords:    "LPBF | IN718",
		},
		{EID: "2-s2.0-2", Title: "Untitled follow-up"},
	}

	path, err := WriteCSV(dir, "scopus_all_30d_20250831", records)
	if err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	if want := filepath.Join(dir, "scopus_all_30d_20250831.csv"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if !reflect.DeepEqual(rows[0], header) {
		t.Errorf("header row = %v, want %v", rows[0], header)
	}
	want := []string{
		"2-s2.0-1", "Laser powder bed fusion of IN718", "Kim J.",
		"KAIST (Daejeon, South Korea)", "Additive Manufacturing",
		"2025-08-01", "10.1000/x", "3", "LPBF | IN718",
	}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row = %v, want %v", rows[1], want)
	}
}

func TestWriteCSVEmptySetStillWritesHeader(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteCSV(dir, "scopus_new_since_last_20250831", nil)
	if err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	rows := readRows(t, path)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want header only", len(rows))
	}
	if !reflect.DeepEqual(rows[0], header) {
		t.Errorf("header row = %v, want %v", rows[0], header)
	}
}

func TestWriteCSVCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "snapshots")
	if _, err := WriteCSV(dir, "label", nil); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "label.csv")); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}
}
