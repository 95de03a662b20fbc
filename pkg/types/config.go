package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that query
// external registries.
type HTTPConfig struct {
	// Timeout is the overall HTTP client timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "refsys/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// VerifyConfig holds settings for the verification stage.
type VerifyConfig struct {
	HTTPConfig `yaml:",inline"`

	// CheckTimeout bounds each individual registry call (default 10s).
	CheckTimeout time.Duration `json:"check_timeout" yaml:"check_timeout"`

	// Concurrency bounds the batch worker pool (default 5, matching the
	// outbound keep-alive connection pool).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// RequestsPerSecond rate-limits outbound registry calls (default 10).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// UnpaywallEmail is sent to the open-access registry, which requires
	// a contact address on every request.
	UnpaywallEmail string `json:"unpaywall_email,omitempty" yaml:"unpaywall_email,omitempty"`
}

// PositionConfig holds settings for the consensus scoring stage.
type PositionConfig struct {
	HTTPConfig `yaml:",inline"`

	// OpenAlexEmail is sent as the mailto parameter for polite pool access.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty"`

	// ReferenceYear anchors age-based scoring. Zero means the current
	// year; tests pass a fixed year for reproducible scores.
	ReferenceYear int `json:"reference_year,omitempty" yaml:"reference_year,omitempty"`
}

// CacheConfig holds settings for the persistent response cache.
type CacheConfig struct {
	// Path is the SQLite cache database file.
	Path string `json:"path" yaml:"path"`
}

// StoreConfig holds settings for the works database.
type StoreConfig struct {
	// Path is the SQLite works database file.
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Verify   VerifyConfig   `json:"verify" yaml:"verify"`
	Position PositionConfig `json:"position" yaml:"position"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Store    StoreConfig    `json:"store" yaml:"store"`
}
