// pkg/api/ops.go
package api

import (
	"context"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MediaScrapexter/internal/extract"
	"github.com/valpere/MediaScrapexter/internal/media"
	"github.com/valpere/MediaScrapexter/internal/reddit"
	"github.com/valpere/MediaScrapexter/internal/retrieve"
	"github.com/valpere/MediaScrapexter/internal/sink"
)

// Standalone pipeline stages for callers that do not want a full configured
// run: extract, retrieve and persist compose the same way the runner does.
type Item = media.Item
type RetrievalResult = media.RetrievalResult
type PersistResult = sink.PersistResult
type Post = reddit.Post

// ExtractHTML parses markup and returns the deduplicated media items it
// references. Relative sources are resolved against baseURL.
func ExtractHTML(markup io.Reader, baseURL string) ([]Item, error) {
	doc, err := goquery.NewDocumentFromReader(markup)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	collector := media.NewCollector(baseURL)
	collector.AddAll(extract.NewHTMLExtractor(nil).Extract(doc))
	return collector.Items(), nil
}

// ExtractPosts returns the deduplicated media items referenced by Reddit
// posts. A malformed post contributes what it can and never aborts the scan.
func ExtractPosts(posts []Post) []Item {
	collector := media.NewCollector("")
	collector.AddAll(extract.NewPostExtractor(nil).Extract(posts))
	return collector.Items()
}

// Retrieve streams one item's bytes into destPath, reporting progress per
// chunk. Failures are carried in the result status, not returned as errors.
func Retrieve(ctx context.Context, item Item, destPath string, progress ProgressFunc) RetrievalResult {
	return retrieve.New(retrieve.Config{}, nil).Fetch(ctx, item, destPath, progress)
}

// Persist hands retrieved files to the destination described by dest and
// returns the per-item outcomes in order. The destination is finalized before
// returning.
func Persist(ctx context.Context, results []RetrievalResult, dest PersistConfig) ([]PersistResult, error) {
	destination, err := newSink(dest)
	if err != nil {
		return nil, err
	}

	outcomes := make([]PersistResult, 0, len(results))
	for _, result := range results {
		outcomes = append(outcomes, destination.Persist(ctx, result))
	}

	if err := destination.Close(); err != nil {
		return outcomes, fmt.Errorf("failed to finalize destination: %w", err)
	}
	return outcomes, nil
}

func newSink(dest PersistConfig) (sink.Sink, error) {
	switch sink.Mode(dest.Mode) {
	case sink.ModeLocal:
		return sink.NewLocalSink(dest.OutputDir, nil)
	case sink.ModeArchive:
		return sink.NewArchiveSink(dest.ArchivePath, nil)
	case sink.ModeRemote:
		uploader, err := sink.NewS3Uploader(dest.Remote.Region, dest.Remote.Bucket)
		if err != nil {
			return nil, err
		}
		return sink.NewRemoteSink(uploader, dest.Remote.Prefix, nil), nil
	default:
		return nil, fmt.Errorf("unsupported persist mode %q", dest.Mode)
	}
}
