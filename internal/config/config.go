// internal/config/config.go
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadFromFile loads a run configuration from a YAML file.
func LoadFromFile(filename string) (*RunConfig, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration filename cannot be empty")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %v", err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes loads a run configuration from YAML bytes. Environment
// variables in the form ${VAR} are substituted before parsing.
func LoadFromBytes(data []byte) (*RunConfig, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("configuration data cannot be empty")
	}

	expanded := os.ExpandEnv(string(data))

	var config RunConfig
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML configuration: %v", err)
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return &config, nil
}

// LoadFromReader loads a run configuration from an io.Reader.
func LoadFromReader(reader io.Reader) (*RunConfig, error) {
	if reader == nil {
		return nil, fmt.Errorf("reader cannot be nil")
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read from reader: %v", err)
	}

	return LoadFromBytes(data)
}

// SaveToFile saves a run configuration to a YAML file.
func SaveToFile(config *RunConfig, filename string) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %v", err)
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %v", err)
	}

	return nil
}

// GenerateTemplate generates a template configuration for the given source
// type. Unknown types fall back to the HTML template.
func GenerateTemplate(templateType string) RunConfig {
	switch strings.ToLower(templateType) {
	case SourceSubreddit:
		return generateSubredditTemplate()
	case SourcePosts:
		return generatePostsTemplate()
	case SourceURLs:
		return generateURLsTemplate()
	default:
		return generateHTMLTemplate()
	}
}

// applyDefaults applies default values to the configuration.
func applyDefaults(config *RunConfig) {
	if config.Source.Sort == "" {
		config.Source.Sort = "hot"
	}
	if config.Source.Limit == 0 {
		config.Source.Limit = 25
	}

	if config.Reddit.Timeout == 0 {
		config.Reddit.Timeout = 15 * time.Second
	}
	if config.Reddit.RequestInterval == 0 {
		config.Reddit.RequestInterval = 2 * time.Second
	}
	if config.Reddit.PageSize == 0 {
		config.Reddit.PageSize = 100
	}

	if config.Retrieval.Timeout == 0 {
		config.Retrieval.Timeout = 60 * time.Second
	}
	if config.Retrieval.RequestInterval == 0 {
		config.Retrieval.RequestInterval = 500 * time.Millisecond
	}

	if config.Persist.Mode == "" {
		config.Persist.Mode = "local"
	}
	if config.Persist.OutputDir == "" {
		config.Persist.OutputDir = "downloads"
	}

	if config.Manifest.Path != "" && config.Manifest.Format == "" {
		config.Manifest.Format = "json"
	}

	if config.Monitoring.Enabled && config.Monitoring.ListenAddr == "" {
		config.Monitoring.ListenAddr = ":9090"
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// Template generation functions

func generateHTMLTemplate() RunConfig {
	return RunConfig{
		Name:        "page_media",
		Description: "Download all images and videos from a web page",
		Source: SourceConfig{
			Type: SourceHTML,
			URL:  "https://example.com/gallery",
		},
		Persist: PersistConfig{
			Mode:      "local",
			OutputDir: "downloads",
		},
		Manifest: ManifestConfig{
			Format: "json",
			Path:   "manifest.json",
		},
	}
}

func generateSubredditTemplate() RunConfig {
	return RunConfig{
		Name:        "subreddit_media",
		Description: "Download media from a subreddit listing",
		Source: SourceConfig{
			Type:      SourceSubreddit,
			Subreddit: "EarthPorn",
			Sort:      "top",
			Limit:     50,
		},
		Reddit: RedditConfig{
			UserAgent: "mediascrapexter/1.0",
		},
		Persist: PersistConfig{
			Mode:        "archive",
			OutputDir:   "downloads",
			ArchivePath: "media.zip",
		},
		Manifest: ManifestConfig{
			Format: "csv",
			Path:   "manifest.csv",
		},
	}
}

func generatePostsTemplate() RunConfig {
	return RunConfig{
		Name:        "post_media",
		Description: "Download media from specific Reddit posts",
		Source: SourceConfig{
			Type:  SourcePosts,
			Posts: []string{"abc123", "https://www.reddit.com/r/pics/comments/def456/example/"},
		},
		Persist: PersistConfig{
			Mode:      "local",
			OutputDir: "downloads",
		},
	}
}

func generateURLsTemplate() RunConfig {
	return RunConfig{
		Name:        "direct_media",
		Description: "Download media from direct URLs",
		Source: SourceConfig{
			Type: SourceURLs,
			URLs: []string{"https://cdn.example.com/image.jpg"},
		},
		Persist: PersistConfig{
			Mode:      "remote",
			OutputDir: "downloads",
			Remote: RemoteConfig{
				Region: "us-east-1",
				Bucket: "${MEDIA_BUCKET}",
				Prefix: "runs",
			},
		},
	}
}
