// internal/config/types.go

// Package config provides configuration types for media retrieval runs.
// A run configuration names a media source (an HTML page, a subreddit, or
// specific posts), how to pace retrieval, where retrieved files go, and
// which manifest to write.
package config

import (
	"time"
)

// RunConfig is the top-level configuration for one retrieval run.
type RunConfig struct {
	// Name identifies this configuration
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable information about this config
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Source defines where media candidates come from
	Source SourceConfig `yaml:"source" json:"source"`

	// Reddit tunes the Reddit API client; ignored for HTML sources
	Reddit RedditConfig `yaml:"reddit,omitempty" json:"reddit,omitempty"`

	// Retrieval tunes the byte-download stage
	Retrieval RetrievalConfig `yaml:"retrieval" json:"retrieval"`

	// Persist defines the destination for retrieved files
	Persist PersistConfig `yaml:"persist" json:"persist"`

	// Manifest configures the optional run manifest
	Manifest ManifestConfig `yaml:"manifest,omitempty" json:"manifest,omitempty"`

	// Monitoring configures the optional metrics endpoint
	Monitoring MonitoringConfig `yaml:"monitoring,omitempty" json:"monitoring,omitempty"`

	// LogLevel controls logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level,omitempty" json:"log_level,omitempty"`
}

// Source types.
const (
	SourceHTML      = "html"
	SourceSubreddit = "subreddit"
	SourcePosts     = "posts"
	SourceURLs      = "urls"
)

// SourceConfig defines the media source for a run.
type SourceConfig struct {
	// Type selects the source kind: html, subreddit, posts, or urls
	Type string `yaml:"type" json:"type"`

	// URL is the page to scan (html sources)
	URL string `yaml:"url,omitempty" json:"url,omitempty"`

	// Subreddit names the subreddit to list (subreddit sources)
	Subreddit string `yaml:"subreddit,omitempty" json:"subreddit,omitempty"`

	// Sort orders the subreddit listing (hot, new, top, rising)
	Sort string `yaml:"sort,omitempty" json:"sort,omitempty"`

	// Limit caps how many posts to list (subreddit sources)
	Limit int `yaml:"limit,omitempty" json:"limit,omitempty"`

	// Posts holds post IDs or permalinks (posts sources)
	Posts []string `yaml:"posts,omitempty" json:"posts,omitempty"`

	// URLs holds direct media URLs (urls sources)
	URLs []string `yaml:"urls,omitempty" json:"urls,omitempty"`
}

// RedditConfig tunes the Reddit API client.
type RedditConfig struct {
	// BaseURL overrides the API endpoint, mainly for tests
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`

	// UserAgent sent on API requests
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`

	// Timeout for a single API request
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// RequestInterval is the minimum spacing between API requests
	RequestInterval time.Duration `yaml:"request_interval,omitempty" json:"request_interval,omitempty"`

	// PageSize is the listing page size
	PageSize int `yaml:"page_size,omitempty" json:"page_size,omitempty"`
}

// RetrievalConfig tunes the download stage.
type RetrievalConfig struct {
	// UserAgent sent on media requests
	UserAgent string `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`

	// Timeout for a single download
	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// RequestInterval is the minimum spacing between downloads
	RequestInterval time.Duration `yaml:"request_interval,omitempty" json:"request_interval,omitempty"`
}

// PersistConfig defines where retrieved files end up.
type PersistConfig struct {
	// Mode selects the sink: local, archive, or remote
	Mode string `yaml:"mode" json:"mode"`

	// OutputDir is the base directory for run directories (local mode,
	// and scratch space for the other modes)
	OutputDir string `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`

	// ArchivePath is the zip destination (archive mode)
	ArchivePath string `yaml:"archive_path,omitempty" json:"archive_path,omitempty"`

	// Remote configures object storage (remote mode)
	Remote RemoteConfig `yaml:"remote,omitempty" json:"remote,omitempty"`
}

// RemoteConfig configures the object storage destination.
type RemoteConfig struct {
	// Region is the storage region
	Region string `yaml:"region,omitempty" json:"region,omitempty"`

	// Bucket is the destination bucket
	Bucket string `yaml:"bucket" json:"bucket"`

	// Prefix is prepended to every object key
	Prefix string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
}

// ManifestConfig configures the run manifest.
type ManifestConfig struct {
	// Format selects the manifest format (json, csv, xlsx, sqlite)
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// Path is the manifest destination file
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// MonitoringConfig configures the metrics endpoint.
type MonitoringConfig struct {
	// Enabled turns the endpoint on
	Enabled bool `yaml:"enabled" json:"enabled"`

	// ListenAddr is the address to serve metrics on
	ListenAddr string `yaml:"listen_addr,omitempty" json:"listen_addr,omitempty"`
}
