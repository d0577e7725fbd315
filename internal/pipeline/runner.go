// internal/pipeline/runner.go

// Package pipeline orchestrates a full retrieval run: gather media
// candidates from the configured source, normalize and deduplicate them,
// download each item, hand the bytes to the configured sink, and report
// per-item outcomes plus an aggregate summary.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/valpere/MediaScrapexter/internal/config"
	"github.com/valpere/MediaScrapexter/internal/extract"
	"github.com/valpere/MediaScrapexter/internal/manifest"
	"github.com/valpere/MediaScrapexter/internal/media"
	"github.com/valpere/MediaScrapexter/internal/monitoring"
	"github.com/valpere/MediaScrapexter/internal/reddit"
	"github.com/valpere/MediaScrapexter/internal/retrieve"
	"github.com/valpere/MediaScrapexter/internal/sink"
)

// Options configures a Runner. Config and Logger are required; the remaining
// fields override the defaults built from Config, mainly for tests.
type Options struct {
	Config     *config.RunConfig
	Logger     *zap.Logger
	Metrics    *monitoring.MetricsManager
	Sink       sink.Sink
	Reddit     *reddit.Client
	Retriever  *retrieve.Retriever
	HTTPClient *http.Client
	Progress   media.ProgressFunc
}

// Runner executes retrieval runs.
type Runner struct {
	cfg        *config.RunConfig
	logger     *zap.Logger
	metrics    *monitoring.MetricsManager
	sinkOver   sink.Sink
	reddit     *reddit.Client
	retriever  *retrieve.Retriever
	httpClient *http.Client
	progress   media.ProgressFunc
}

// SourceError records a source reference that could not be fetched. The run
// continues past these; they surface in the summary.
type SourceError struct {
	Ref       string `json:"ref"`
	NotFound  bool   `json:"not_found,omitempty"`
	Forbidden bool   `json:"forbidden,omitempty"`
	Message   string `json:"message"`
}

// Outcome is the full per-item result of a run.
type Outcome struct {
	Item      media.Item            `json:"item"`
	Retrieval media.RetrievalResult `json:"retrieval"`
	Persist   sink.PersistResult    `json:"persist"`
}

// Summary aggregates a finished run.
type Summary struct {
	RunID        string        `json:"run_id"`
	Name         string        `json:"name"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
	Total        int           `json:"total"`
	Succeeded    int           `json:"succeeded"`
	Failed       int           `json:"failed"`
	Skipped      int           `json:"skipped"`
	Persisted    int           `json:"persisted"`
	Outcomes     []Outcome     `json:"outcomes"`
	SourceErrors []SourceError `json:"source_errors,omitempty"`
}

// New builds a Runner from options, constructing any component not supplied.
func New(opts Options) (*Runner, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("run configuration is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{
		cfg:        opts.Config,
		logger:     logger,
		metrics:    opts.Metrics,
		sinkOver:   opts.Sink,
		reddit:     opts.Reddit,
		retriever:  opts.Retriever,
		httpClient: opts.HTTPClient,
		progress:   opts.Progress,
	}

	if r.reddit == nil {
		r.reddit = reddit.NewClient(reddit.ClientConfig{
			BaseURL:         opts.Config.Reddit.BaseURL,
			UserAgent:       opts.Config.Reddit.UserAgent,
			Timeout:         opts.Config.Reddit.Timeout,
			RequestInterval: opts.Config.Reddit.RequestInterval,
			PageSize:        opts.Config.Reddit.PageSize,
		}, logger)
	}
	if r.retriever == nil {
		r.retriever = retrieve.New(retrieve.Config{
			UserAgent:       opts.Config.Retrieval.UserAgent,
			Timeout:         opts.Config.Retrieval.Timeout,
			RequestInterval: opts.Config.Retrieval.RequestInterval,
		}, logger)
	}
	if r.httpClient == nil {
		timeout := opts.Config.Retrieval.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		r.httpClient = &http.Client{Timeout: timeout}
	}
	if r.metrics != nil {
		r.reddit.OnRateLimitWait(r.metrics.RecordRateLimitWait)
		r.retriever.OnRateLimitWait(r.metrics.RecordRateLimitWait)
	}
	return r, nil
}

// Run executes the configured run. Per-item failures never abort the run;
// the returned error covers only setup failures and sources that yield
// nothing at all.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	session, err := sink.NewSession(r.cfg.Persist.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create run session: %w", err)
	}

	summary := &Summary{
		RunID:     session.ID,
		Name:      r.cfg.Name,
		StartedAt: started,
	}

	items, sourceErrors, err := r.collect(ctx)
	if err != nil {
		session.Cleanup()
		r.recordRunComplete("source_failed", started)
		return nil, err
	}
	summary.SourceErrors = sourceErrors
	summary.Total = len(items)

	destination, err := r.buildSink(session)
	if err != nil {
		session.Cleanup()
		r.recordRunComplete("sink_failed", started)
		return nil, err
	}

	r.logger.Info("starting retrieval",
		zap.String("run_id", session.ID),
		zap.Int("items", len(items)))

	records := make([]manifest.Record, 0, len(items))

	for i, item := range items {
		filename := item.Filename
		if filename == "" {
			// The sequence index runs over the whole deduplicated list, not
			// per kind: [image, video] yields image_1.jpg, video_2.mp4.
			filename = media.SequenceFilename(item.Kind, i+1, item.CanonicalURL)
		}
		item.Filename = filename

		outcome := r.processItem(ctx, item, session, destination)
		summary.Outcomes = append(summary.Outcomes, outcome)

		switch outcome.Retrieval.Status {
		case media.StatusSuccess:
			summary.Succeeded++
		case media.StatusSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
		if outcome.Persist.Persisted {
			summary.Persisted++
		}
		records = append(records, outcomeRecord(session.ID, outcome))
	}

	if err := destination.Close(); err != nil {
		r.logger.Error("failed to finalize destination", zap.Error(err))
	}
	if r.cfg.Persist.Mode != "local" {
		if err := session.Cleanup(); err != nil {
			r.logger.Warn("failed to remove scratch directory", zap.Error(err))
		}
	}

	if r.cfg.Manifest.Path != "" {
		format := manifest.Format(r.cfg.Manifest.Format)
		if err := manifest.WriteManifest(format, r.cfg.Manifest.Path, records); err != nil {
			r.logger.Error("failed to write manifest", zap.Error(err))
		}
	}

	summary.Duration = time.Since(started)
	r.recordRunComplete("completed", started)
	r.logger.Info("run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

// Scan collects and deduplicates media items without downloading anything,
// for dry runs.
func (r *Runner) Scan(ctx context.Context) ([]media.Item, []SourceError, error) {
	return r.collect(ctx)
}

// processItem downloads one item and hands it to the sink. All failures are
// contained in the returned outcome.
func (r *Runner) processItem(ctx context.Context, item media.Item, session *sink.Session, destination sink.Sink) Outcome {
	scratch := session.ScratchPath(item.Filename)

	if r.metrics != nil {
		r.metrics.IncItemsActive()
		defer r.metrics.DecItemsActive()
	}

	start := time.Now()
	result := r.retriever.Fetch(ctx, item, scratch, r.progress)
	if r.metrics != nil {
		r.metrics.RecordRetrieval(string(item.Kind), string(result.Status),
			result.StatusCode, time.Since(start), result.BytesLen)
	}

	outcome := Outcome{Item: item, Retrieval: result}
	if !result.Succeeded() {
		r.logger.Warn("retrieval failed",
			zap.String("url", item.CanonicalURL),
			zap.String("status", string(result.Status)),
			zap.Int("code", result.StatusCode))
		return outcome
	}

	outcome.Persist = destination.Persist(ctx, result)
	if r.metrics != nil {
		if outcome.Persist.Persisted {
			r.metrics.RecordPersistSuccess(r.cfg.Persist.Mode)
		} else {
			r.metrics.RecordPersistError(r.cfg.Persist.Mode)
		}
	}
	if !outcome.Persist.Persisted {
		r.logger.Error("persist failed",
			zap.String("url", item.CanonicalURL),
			zap.String("error", outcome.Persist.Error))
	}
	return outcome
}

// collect gathers and deduplicates media items from the configured source.
func (r *Runner) collect(ctx context.Context) ([]media.Item, []SourceError, error) {
	switch r.cfg.Source.Type {
	case config.SourceHTML:
		return r.collectHTML(ctx)
	case config.SourceSubreddit:
		return r.collectSubreddit(ctx)
	case config.SourcePosts:
		return r.collectPosts(ctx)
	case config.SourceURLs:
		return r.collectURLs()
	default:
		return nil, nil, fmt.Errorf("unsupported source type: %s", r.cfg.Source.Type)
	}
}

func (r *Runner) collectHTML(ctx context.Context) ([]media.Item, []SourceError, error) {
	pageURL := r.cfg.Source.URL
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid page URL %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.recordSourceRequest(config.SourceHTML, "network_error")
		return nil, nil, fmt.Errorf("failed to fetch page %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.recordSourceRequest(config.SourceHTML, fmt.Sprintf("http_%d", resp.StatusCode))
		return nil, nil, fmt.Errorf("page fetch returned HTTP %d for %s", resp.StatusCode, pageURL)
	}
	r.recordSourceRequest(config.SourceHTML, "ok")

	body := extract.DecodeBody(resp.Body, resp.Header.Get("Content-Type"))
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse page %s: %w", pageURL, err)
	}

	candidates := extract.NewHTMLExtractor(r.logger).Extract(doc)
	return r.dedupe(pageURL, candidates), nil, nil
}

func (r *Runner) collectSubreddit(ctx context.Context) ([]media.Item, []SourceError, error) {
	posts, err := r.reddit.SubredditPosts(ctx, r.cfg.Source.Subreddit, r.cfg.Source.Sort, r.cfg.Source.Limit)
	if err != nil {
		r.recordSourceRequest(config.SourceSubreddit, "error")
		return nil, nil, fmt.Errorf("failed to list r/%s: %w", r.cfg.Source.Subreddit, err)
	}
	r.recordSourceRequest(config.SourceSubreddit, "ok")

	candidates := extract.NewPostExtractor(r.logger).Extract(posts)
	return r.dedupe("", candidates), nil, nil
}

func (r *Runner) collectPosts(ctx context.Context) ([]media.Item, []SourceError, error) {
	var posts []reddit.Post
	var sourceErrors []SourceError

	for _, ref := range r.cfg.Source.Posts {
		id := ref
		if extracted, ok := reddit.ExtractPostID(ref); ok {
			id = extracted
		}
		fetched, err := r.reddit.PostByID(ctx, id)
		if err != nil {
			sourceErrors = append(sourceErrors, SourceError{
				Ref:       ref,
				NotFound:  reddit.IsNotFound(err),
				Forbidden: reddit.IsForbidden(err),
				Message:   err.Error(),
			})
			r.recordSourceRequest(config.SourcePosts, "error")
			r.logger.Warn("failed to fetch post",
				zap.String("ref", ref),
				zap.Bool("not_found", reddit.IsNotFound(err)),
				zap.Bool("forbidden", reddit.IsForbidden(err)),
				zap.Error(err))
			continue
		}
		r.recordSourceRequest(config.SourcePosts, "ok")
		posts = append(posts, fetched...)
	}

	if len(posts) == 0 && len(sourceErrors) > 0 {
		return nil, sourceErrors, fmt.Errorf("none of the %d requested posts could be fetched", len(r.cfg.Source.Posts))
	}

	candidates := extract.NewPostExtractor(r.logger).Extract(posts)
	return r.dedupe("", candidates), sourceErrors, nil
}

func (r *Runner) collectURLs() ([]media.Item, []SourceError, error) {
	candidates := make([]media.Candidate, 0, len(r.cfg.Source.URLs))
	for _, rawURL := range r.cfg.Source.URLs {
		candidates = append(candidates, media.Candidate{
			Kind: kindForURL(rawURL),
			URL:  rawURL,
		})
	}
	return r.dedupe("", candidates), nil, nil
}

// dedupe runs candidates through a collector and reports drop counts.
func (r *Runner) dedupe(baseURL string, candidates []media.Candidate) []media.Item {
	collector := media.NewCollector(baseURL)
	retained := collector.AddAll(candidates)
	dropped := len(candidates) - retained

	if r.metrics != nil {
		for _, item := range collector.Items() {
			r.metrics.RecordCandidateFound(string(item.Kind))
		}
		for i := 0; i < dropped; i++ {
			r.metrics.RecordCandidateDropped("duplicate_or_malformed")
		}
	}
	if dropped > 0 {
		r.logger.Debug("dropped candidates",
			zap.Int("dropped", dropped),
			zap.Int("retained", retained))
	}
	return collector.Items()
}

// buildSink creates the destination for this run.
func (r *Runner) buildSink(session *sink.Session) (sink.Sink, error) {
	if r.sinkOver != nil {
		return r.sinkOver, nil
	}

	switch sink.Mode(r.cfg.Persist.Mode) {
	case sink.ModeLocal:
		return sink.NewLocalSink(session.Dir, r.logger)
	case sink.ModeArchive:
		return sink.NewArchiveSink(r.cfg.Persist.ArchivePath, r.logger)
	case sink.ModeRemote:
		uploader, err := sink.NewS3Uploader(r.cfg.Persist.Remote.Region, r.cfg.Persist.Remote.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to build uploader: %w", err)
		}
		return sink.NewRemoteSink(uploader, r.cfg.Persist.Remote.Prefix, r.logger), nil
	default:
		return nil, fmt.Errorf("unsupported persistence mode: %s", r.cfg.Persist.Mode)
	}
}

func (r *Runner) recordSourceRequest(sourceType, status string) {
	if r.metrics != nil {
		r.metrics.RecordSourceRequest(sourceType, status)
	}
}

func (r *Runner) recordRunComplete(status string, started time.Time) {
	if r.metrics != nil {
		r.metrics.RecordRunComplete(status, time.Since(started))
	}
}

// outcomeRecord flattens an outcome into a manifest row.
func outcomeRecord(runID string, outcome Outcome) manifest.Record {
	return manifest.Record{
		RunID:      runID,
		URL:        outcome.Item.CanonicalURL,
		Kind:       string(outcome.Item.Kind),
		Filename:   outcome.Item.Filename,
		Status:     string(outcome.Retrieval.Status),
		StatusCode: outcome.Retrieval.StatusCode,
		Bytes:      outcome.Retrieval.BytesLen,
		Location:   outcome.Persist.Location,
		Error:      retrievalError(outcome),
		FetchedAt:  time.Now().UTC(),
	}
}

func retrievalError(outcome Outcome) string {
	if outcome.Retrieval.Error != "" {
		return outcome.Retrieval.Error
	}
	return outcome.Persist.Error
}

var videoExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true, ".mkv": true, ".avi": true,
}

// kindForURL guesses the media kind of a direct URL from its extension.
func kindForURL(rawURL string) media.Kind {
	ext := strings.ToLower(media.ExtensionOf(rawURL))
	if videoExtensions[ext] {
		return media.KindVideo
	}
	return media.KindImage
}
