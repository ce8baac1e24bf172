// Copyright Ginger Science, 2026. All rights reserved.

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/Ginger-Science/hypogen-ai/pkg/types"
)

// Export holds the committed graph and its statistics in the shape the
// presentation layer reads.
type Export struct {
	Graph      types.Graph           `json:"graph" yaml:"graph"`
	Statistics types.GraphStatistics `json:"statistics" yaml:"statistics"`
	UpdatedAt  time.Time             `json:"updated_at" yaml:"updated_at"`
}

// ErrEmpty is returned when an export is requested before any graph has
// been committed.
var ErrEmpty = fmt.Errorf("no knowledge graph committed")

const exportBase = "knowledge-graph"

// ExportYAML writes the committed graph to dir/knowledge-graph.yaml and
// returns the written path.
func (s *Store) ExportYAML(dir string) (string, error) {
	export, err := s.export()
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(export)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(dir, exportBase+".yaml", data)
}

// ExportJSON writes the committed graph to dir/knowledge-graph.json and
// returns the written path.
func (s *Store) ExportJSON(dir string) (string, error) {
	export, err := s.export()
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(dir, exportBase+".json", data)
}

func (s *Store) export() (Export, error) {
	graph, ok := s.Graph()
	if !ok {
		return Export{}, ErrEmpty
	}
	statistics, _ := s.Statistics()
	updated, _ := s.LastUpdated()
	return Export{Graph: graph, Statistics: statistics, UpdatedAt: updated}, nil
}

func writeExport(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "output"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
