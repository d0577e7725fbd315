// pkg/api/api.go

// Package api is the public entry point for embedding the media scraper in
// other programs. It wraps the internal pipeline behind a small client.
package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/media"
	"github.com/valpere/MediaScrapexter/internal/pipeline"
)

// Re-export types from internal packages for the public API
type RunConfig = config.RunConfig
type SourceConfig = config.SourceConfig
type PersistConfig = config.PersistConfig
type ManifestConfig = config.ManifestConfig
type Summary = pipeline.Summary
type Outcome = pipeline.Outcome
type Progress = media.Progress
type ProgressFunc = media.ProgressFunc

// Client provides a high-level interface for media retrieval runs.
type Client struct {
	config   *RunConfig
	logger   *zap.Logger
	progress ProgressFunc
}

// NewClient creates a client for the given run configuration.
func NewClient(config *RunConfig) *Client {
	return &Client{config: config}
}

// SetLogger installs a logger; by default runs are silent.
func (c *Client) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// OnProgress installs a callback receiving download progress events.
func (c *Client) OnProgress(fn ProgressFunc) {
	c.progress = fn
}

// Run executes the configured run and returns its summary. Per-item failures
// are reported in the summary, not as an error.
func (c *Client) Run(ctx context.Context) (*Summary, error) {
	runner, err := pipeline.New(pipeline.Options{
		Config:   c.config,
		Logger:   c.logger,
		Progress: c.progress,
	})
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx)
}

// Scan lists the media items a run would retrieve, without downloading.
func (c *Client) Scan(ctx context.Context) ([]media.Item, error) {
	runner, err := pipeline.New(pipeline.Options{
		Config: c.config,
		Logger: c.logger,
	})
	if err != nil {
		return nil, err
	}
	items, _, err := runner.Scan(ctx)
	return items, err
}

// LoadConfig loads and validates a run configuration from a YAML file.
func LoadConfig(path string) (*RunConfig, error) {
	return config.LoadFromFile(path)
}
