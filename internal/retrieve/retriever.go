// internal/retrieve/retriever.go
package retrieve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/valpere/MediaScrapexter/internal/media"
)

// chunkSize is the fixed read size for streaming downloads; progress is
// reported once per chunk.
const chunkSize = 8192

const (
	defaultTimeout  = 60 * time.Second
	defaultInterval = 500 * time.Millisecond
	defaultAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

// browserHeaders make media requests look like an ordinary browser fetch.
// Accept-Encoding is deliberately left to the transport so compressed bodies
// are decoded transparently.
var browserHeaders = map[string]string{
	"Accept":          "image/webp,image/apng,image/*,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Config configures the retriever.
type Config struct {
	UserAgent       string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RequestInterval time.Duration `yaml:"request_interval,omitempty" json:"request_interval,omitempty"`
}

// Retriever performs streaming fetches of normalized media items. It paces
// requests with a fixed-interval limiter so sequential runs do not hammer the
// remote host. A retriever never retries: a failed item is marked failed and
// the pipeline moves on.
type Retriever struct {
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	onWait     func(time.Duration)
	logger     *zap.Logger
}

// New creates a retriever with config defaults applied.
func New(cfg Config, logger *zap.Logger) *Retriever {
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = defaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &Retriever{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		logger:     logger,
	}
}

// OnRateLimitWait installs a callback receiving the time spent waiting on the
// pacer before each request.
func (r *Retriever) OnRateLimitWait(fn func(time.Duration)) {
	r.onWait = fn
}

// Fetch streams the item's bytes into destPath, reporting progress per chunk.
// The returned result carries the outcome instead of an error: non-200
// responses become StatusHTTPError, transport failures StatusNetworkError.
// No partial file is left behind on any failure path.
func (r *Retriever) Fetch(ctx context.Context, item media.Item, destPath string, progress media.ProgressFunc) media.RetrievalResult {
	result := media.RetrievalResult{Item: item}

	waitStart := time.Now()
	if err := r.limiter.Wait(ctx); err != nil {
		result.Status = media.StatusSkipped
		result.Error = err.Error()
		return result
	}
	if r.onWait != nil {
		r.onWait(time.Since(waitStart))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.CanonicalURL, nil)
	if err != nil {
		result.Status = media.StatusNetworkError
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result
	}
	req.Header.Set("User-Agent", r.userAgent)
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Warn("retrieval failed",
			zap.String("url", item.CanonicalURL),
			zap.Error(err))
		result.Status = media.StatusNetworkError
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("retrieval rejected",
			zap.String("url", item.CanonicalURL),
			zap.Int("status", resp.StatusCode))
		result.Status = media.StatusHTTPError
		result.StatusCode = resp.StatusCode
		result.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return result
	}

	written, err := r.streamToFile(resp.Body, destPath, item, resp.ContentLength, progress)
	if err != nil {
		os.Remove(destPath)
		result.Status = media.StatusNetworkError
		result.Error = err.Error()
		return result
	}

	result.Status = media.StatusSuccess
	result.StatusCode = resp.StatusCode
	result.LocalPath = destPath
	result.BytesLen = written
	return result
}

// streamToFile copies the body into destPath in fixed-size chunks, invoking
// the progress callback after each chunk. total is -1 when the server sent no
// Content-Length; the callback then reports zero as the total.
func (r *Retriever) streamToFile(body io.Reader, destPath string, item media.Item, total int64, progress media.ProgressFunc) (int64, error) {
	file, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer file.Close()

	if total < 0 {
		total = 0
	}

	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				return written, fmt.Errorf("failed to write chunk: %w", writeErr)
			}
			written += int64(n)
			if progress != nil {
				progress(media.Progress{Item: item, BytesDone: written, BytesTotal: total})
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, fmt.Errorf("failed to read body: %w", readErr)
		}
	}

	if err := file.Sync(); err != nil {
		return written, fmt.Errorf("failed to sync %s: %w", destPath, err)
	}
	return written, nil
}
