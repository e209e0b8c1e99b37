// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared settings for outbound HTTP requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default in place.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with requests (e.g. "book-selection/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CatalogConfig holds settings for the catalog search.
type CatalogConfig struct {
	// BaseURL is the volumes search endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// MaxResults is the number of entries requested per search (default 30).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// OrderBy is the catalog sort order (default "newest").
	OrderBy string `json:"order_by" yaml:"order_by" mapstructure:"order_by"`

	// Language restricts results to one content language (default "ja").
	Language string `json:"language" yaml:"language" mapstructure:"language"`

	// APIKey is optional; anonymous requests work with a lower quota.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ExportConfig holds settings for spreadsheet export.
type ExportConfig struct {
	// Layout selects the column schema: "form" or "simple".
	Layout string `json:"layout" yaml:"layout" mapstructure:"layout"`

	// OutputDir is where exported files are written.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Deadline, when set, adds a submission deadline line to the form layout
	// (e.g. "2025年11月21日（金）").
	Deadline string `json:"deadline,omitempty" yaml:"deadline,omitempty" mapstructure:"deadline"`
}

// ServeConfig holds settings for the browser-facing API.
type ServeConfig struct {
	Addr           string   `json:"addr" yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// Config groups every stage configuration.
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Catalog CatalogConfig `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Export  ExportConfig  `json:"export" yaml:"export" mapstructure:"export"`
	Serve   ServeConfig   `json:"serve" yaml:"serve" mapstructure:"serve"`
}
