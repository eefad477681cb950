// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scopus

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// QueryFile is the on-disk representation of a monitor query profile. It lets
// an operator version the topical query and lab context alongside the
// scheduler configuration instead of spreading them across environment
// variables.
type QueryFile struct {
	// QueryCore is the topical Scopus filter, e.g.
	// `TITLE-ABS-KEY("additive manufacturing") AND KEY("superalloys")`.
	QueryCore string `yaml:"query_core"`

	// LabContext is free text describing the lab's capabilities, fed to the
	// research-directions prompt.
	LabContext string `yaml:"lab_context,omitempty"`
}

// ReadQueryFile loads a query profile from a YAML file.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	if strings.TrimSpace(qf.QueryCore) == "" {
		return nil, fmt.Errorf("query file %s: query_core is empty", path)
	}
	return &qf, nil
}

// WriteQueryFile saves a query profile to a YAML file.
func WriteQueryFile(path string, qf QueryFile) error {
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
