// internal/config/validation.go
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a detailed validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Errors   []ValidationError `json:"errors"`
	Warnings []string          `json:"warnings"`
}

var validSorts = map[string]bool{
	"hot": true, "new": true, "top": true, "rising": true,
}

var validModes = map[string]bool{
	"local": true, "archive": true, "remote": true,
}

var validManifestFormats = map[string]bool{
	"json": true, "csv": true, "xlsx": true, "sqlite": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks the configuration and returns an aggregate error listing
// every problem found.
func (rc *RunConfig) Validate() error {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]ValidationError, 0),
		Warnings: make([]string, 0),
	}

	rc.validateBasicFields(result)
	rc.validateSource(result)
	rc.validatePersist(result)
	rc.validateManifest(result)

	if len(result.Errors) > 0 {
		return rc.formatValidationError(result)
	}
	return nil
}

// ValidateDetailed runs validation and returns the full result, including
// warnings, for the validate CLI command.
func (rc *RunConfig) ValidateDetailed() *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]ValidationError, 0),
		Warnings: make([]string, 0),
	}

	rc.validateBasicFields(result)
	rc.validateSource(result)
	rc.validatePersist(result)
	rc.validateManifest(result)

	result.Valid = len(result.Errors) == 0
	return result
}

// validateBasicFields checks required top-level fields
func (rc *RunConfig) validateBasicFields(result *ValidationResult) {
	if rc.Name == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "name",
			Message: "Run name is required",
		})
	}
	if rc.LogLevel != "" && !validLogLevels[rc.LogLevel] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "log_level",
			Value:   rc.LogLevel,
			Message: "Log level must be one of: debug, info, warn, error",
		})
	}
}

// validateSource checks the source section
func (rc *RunConfig) validateSource(result *ValidationResult) {
	switch rc.Source.Type {
	case SourceHTML:
		rc.validateSourceURL(result)
	case SourceSubreddit:
		if rc.Source.Subreddit == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "source.subreddit",
				Message: "Subreddit name is required for subreddit sources",
			})
		}
		if rc.Source.Sort != "" && !validSorts[rc.Source.Sort] {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "source.sort",
				Value:   rc.Source.Sort,
				Message: "Sort must be one of: hot, new, top, rising",
			})
		}
		if rc.Source.Limit < 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "source.limit",
				Value:   fmt.Sprintf("%d", rc.Source.Limit),
				Message: "Limit cannot be negative",
			})
		}
	case SourcePosts:
		if len(rc.Source.Posts) == 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "source.posts",
				Value:   "[]",
				Message: "At least one post ID or permalink is required",
			})
		}
	case SourceURLs:
		if len(rc.Source.URLs) == 0 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "source.urls",
				Value:   "[]",
				Message: "At least one URL is required",
			})
		}
	case "":
		result.Errors = append(result.Errors, ValidationError{
			Field:   "source.type",
			Message: "Source type is required",
		})
	default:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "source.type",
			Value:   rc.Source.Type,
			Message: "Source type must be one of: html, subreddit, posts, urls",
		})
	}
}

// validateSourceURL checks URL format for HTML sources
func (rc *RunConfig) validateSourceURL(result *ValidationResult) {
	if rc.Source.URL == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "source.url",
			Message: "Page URL is required for html sources",
		})
		return
	}

	parsedURL, err := url.Parse(rc.Source.URL)
	if err != nil {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "source.url",
			Value:   rc.Source.URL,
			Message: fmt.Sprintf("Invalid URL format: %s", err.Error()),
		})
		return
	}
	if parsedURL.Scheme == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "source.url",
			Value:   rc.Source.URL,
			Message: "URL must include protocol (http:// or https://)",
		})
	}
	if parsedURL.Host == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "source.url",
			Value:   rc.Source.URL,
			Message: "URL must include hostname",
		})
	}
	if parsedURL.Scheme == "http" {
		result.Warnings = append(result.Warnings,
			"Using HTTP instead of HTTPS may cause security issues")
	}
}

// validatePersist checks the persist section
func (rc *RunConfig) validatePersist(result *ValidationResult) {
	if rc.Persist.Mode != "" && !validModes[rc.Persist.Mode] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "persist.mode",
			Value:   rc.Persist.Mode,
			Message: "Mode must be one of: local, archive, remote",
		})
		return
	}

	switch rc.Persist.Mode {
	case "archive":
		if rc.Persist.ArchivePath == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "persist.archive_path",
				Message: "Archive path is required for archive mode",
			})
		}
	case "remote":
		if rc.Persist.Remote.Bucket == "" {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "persist.remote.bucket",
				Message: "Bucket is required for remote mode",
			})
		}
		if rc.Persist.Remote.Region == "" {
			result.Warnings = append(result.Warnings,
				"No remote region configured; the default credential chain region will be used")
		}
	}
}

// validateManifest checks the manifest section
func (rc *RunConfig) validateManifest(result *ValidationResult) {
	if rc.Manifest.Format == "" && rc.Manifest.Path == "" {
		return
	}
	if rc.Manifest.Format != "" && !validManifestFormats[rc.Manifest.Format] {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "manifest.format",
			Value:   rc.Manifest.Format,
			Message: "Manifest format must be one of: json, csv, xlsx, sqlite",
		})
	}
	if rc.Manifest.Format != "" && rc.Manifest.Path == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "manifest.path",
			Message: "Manifest path is required when a format is set",
		})
	}
}

// formatValidationError creates a comprehensive error message
func (rc *RunConfig) formatValidationError(result *ValidationResult) error {
	var messages []string
	for _, err := range result.Errors {
		if err.Value != "" {
			messages = append(messages, fmt.Sprintf("%s (%s): %s", err.Field, err.Value, err.Message))
		} else {
			messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
		}
	}
	return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}
