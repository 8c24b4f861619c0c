// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProjectConfig holds settings for reading a book project directory.
type ProjectConfig struct {
	// Dir is the project root (contains metadata.md, content/, templates/).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MetadataFile is the front-matter file relative to Dir (default "metadata.md").
	MetadataFile string `json:"metadata_file" yaml:"metadata_file" mapstructure:"metadata_file"`

	// ContentDir holds the content files (default "content").
	ContentDir string `json:"content_dir" yaml:"content_dir" mapstructure:"content_dir"`

	// TemplatesDir holds the layout templates and templates.yaml (default "templates").
	TemplatesDir string `json:"templates_dir" yaml:"templates_dir" mapstructure:"templates_dir"`

	// OutputDir receives plan.yaml and exported metadata (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// CatalogConfig holds settings for the book catalog.
type CatalogConfig struct {
	// Path is the SQLite database file (default "catalog.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (default "127.0.0.1:8750").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ReadTimeout bounds reading one request (default 10s).
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// MaxBody is the largest accepted request body in bytes (default 1 MiB).
	MaxBody int64 `json:"max_body" yaml:"max_body" mapstructure:"max_body"`
}

// Config is the full imprint configuration as read from imprint.yaml,
// IMPRINT_* environment variables and command-line flags.
type Config struct {
	Project ProjectConfig `json:"project" yaml:"project" mapstructure:"project"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
}
