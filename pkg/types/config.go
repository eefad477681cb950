// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "scopus-monitor/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScopusConfig holds settings for the Scopus Search API client.
type ScopusConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the Elsevier API key sent in the X-ELS-APIKey header.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// QueryCore is the topical filter combined with the rolling load-date
	// window each run. Empty selects the built-in default query.
	QueryCore string `json:"query_core" yaml:"query_core"`

	// PageSize is the number of entries requested per page (default 25).
	PageSize int `json:"page_size" yaml:"page_size"`

	// RequestsPerSecond paces successive page requests (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// AIConfig holds shared settings for components that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (default "gemini-2.0-flash").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API. Empty disables
	// summarization entirely; that is a valid degraded mode, not an error.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts on rate-limited calls
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SummaryConfig holds settings for the summarization stage.
type SummaryConfig struct {
	HTTPConfig `yaml:",inline"`
	AIConfig   `yaml:",inline"`

	// LabContext is free text describing the lab's equipment and constraints,
	// used to tailor research directions. Empty selects a generic placeholder.
	LabContext string `json:"lab_context,omitempty" yaml:"lab_context,omitempty"`

	// ContextCap bounds how many records are included in prompt metadata
	// (default 60). A policy choice to bound prompt size, not a hard limit.
	ContextCap int `json:"context_cap" yaml:"context_cap"`
}

// MailConfig holds settings for SMTP digest delivery.
type MailConfig struct {
	// Host is the SMTP submission host (default "smtp.gmail.com").
	Host string `json:"host" yaml:"host"`

	// Port is the implicit-TLS submission port (default 465).
	Port int `json:"port" yaml:"port"`

	// From is the sender address, also used as the SMTP username.
	From string `json:"from" yaml:"from"`

	// To is the comma-separated recipient list.
	To string `json:"to" yaml:"to"`

	// AppPassword is the sender's app-password credential.
	AppPassword string `json:"app_password,omitempty" yaml:"app_password,omitempty"`
}

// MonitorConfig groups all component configurations for one monitoring run.
// It is constructed once at process start and passed into components; no
// component reads ambient global state.
type MonitorConfig struct {
	Scopus  ScopusConfig  `json:"scopus" yaml:"scopus"`
	Summary SummaryConfig `json:"summary" yaml:"summary"`
	Mail    MailConfig    `json:"mail" yaml:"mail"`

	// StateFile is the path of the JSON notification ledger (default
	// "state.json").
	StateFile string `json:"state_file" yaml:"state_file"`

	// SnapshotDir is the directory for per-run CSV snapshots (default
	// "snapshots").
	SnapshotDir string `json:"snapshot_dir" yaml:"snapshot_dir"`

	// LookbackDays is the rolling query window (default 30).
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`
}
