package types

// StoreConfig holds settings for the graph store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite store (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// ExportFormat selects the graph export format.
type ExportFormat string

const (
	ExportYAML ExportFormat = "yaml"
	ExportJSON ExportFormat = "json"
)

// ExportConfig holds settings for graph export.
type ExportConfig struct {
	// Dir is the directory for export files (default "output").
	Dir string `json:"dir" yaml:"dir"`

	// Format selects the export format: yaml or json.
	Format ExportFormat `json:"format" yaml:"format"`
}

// Config groups all configuration for the hypogen CLI.
type Config struct {
	Store  StoreConfig  `json:"store" yaml:"store"`
	Export ExportConfig `json:"export" yaml:"export"`
}
