// internal/reddit/client.go
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL  = "https://www.reddit.com"
	defaultTimeout  = 15 * time.Second
	defaultInterval = 2 * time.Second
	defaultPageSize = 100

	// maxListingPages bounds cursor-follow when a caller asks for more posts
	// than one page can hold.
	maxListingPages = 10
)

// Sort modes accepted by SubredditPosts.
const (
	SortHot    = "hot"
	SortNew    = "new"
	SortTop    = "top"
	SortRising = "rising"
)

var postIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/comments/([a-zA-Z0-9]+)/`),
	regexp.MustCompile(`reddit\.com/(\w+)$`),
}

// apiHeaders mimic a desktop browser; the listing endpoint refuses obviously
// scripted clients.
var apiHeaders = map[string]string{
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.5",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Cache-Control":             "max-age=0",
}

// ClientConfig configures the listing client.
type ClientConfig struct {
	BaseURL         string        `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	UserAgent       string        `yaml:"user_agent,omitempty" json:"user_agent,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RequestInterval time.Duration `yaml:"request_interval,omitempty" json:"request_interval,omitempty"`
	PageSize        int           `yaml:"page_size,omitempty" json:"page_size,omitempty"`
}

// Client fetches post listings from the Reddit JSON API. It paces its own
// requests; callers may issue sequential calls without additional delays.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	pageSize   int
	limiter    *rate.Limiter
	onWait     func(time.Duration)
	logger     *zap.Logger
}

// NewClient creates a listing client with config defaults applied.
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestInterval <= 0 {
		cfg.RequestInterval = defaultInterval
	}
	if cfg.PageSize <= 0 || cfg.PageSize > defaultPageSize {
		cfg.PageSize = defaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		pageSize:   cfg.PageSize,
		limiter:    rate.NewLimiter(rate.Every(cfg.RequestInterval), 1),
		logger:     logger,
	}
}

// OnRateLimitWait installs a callback receiving the time spent waiting on the
// pacer before each API request.
func (c *Client) OnRateLimitWait(fn func(time.Duration)) {
	c.onWait = fn
}

// ValidSort reports whether sort is an accepted listing sort mode.
func ValidSort(sort string) bool {
	switch sort {
	case SortHot, SortNew, SortTop, SortRising:
		return true
	}
	return false
}

// ExtractPostID pulls the submission ID out of a Reddit post URL. It returns
// false when the URL matches none of the known permalink shapes.
func ExtractPostID(postURL string) (string, bool) {
	for _, pattern := range postIDPatterns {
		if m := pattern.FindStringSubmatch(postURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// SubredditPosts fetches up to limit posts from r/{subreddit} in the given
// sort order, following the listing cursor across pages when needed.
// A missing subreddit yields ErrNotFound; a private or banned one yields
// ErrForbidden.
func (c *Client) SubredditPosts(ctx context.Context, subreddit, sort string, limit int) ([]Post, error) {
	if subreddit == "" {
		return nil, fmt.Errorf("subreddit name cannot be empty")
	}
	if !ValidSort(sort) {
		return nil, fmt.Errorf("invalid sort mode %q", sort)
	}
	if limit <= 0 {
		limit = c.pageSize
	}

	var posts []Post
	after := ""
	for page := 0; page < maxListingPages && len(posts) < limit; page++ {
		pageSize := limit - len(posts)
		if pageSize > c.pageSize {
			pageSize = c.pageSize
		}

		listURL := fmt.Sprintf("%s/r/%s/%s.json?limit=%d", c.baseURL, url.PathEscape(subreddit), sort, pageSize)
		if after != "" {
			listURL += "&after=" + url.QueryEscape(after)
		}

		var lst listing
		if err := c.getJSON(ctx, listURL, &lst); err != nil {
			return nil, err
		}
		if len(lst.Data.Children) == 0 {
			break
		}
		for _, child := range lst.Data.Children {
			posts = append(posts, child.Data)
		}
		if lst.Data.After == "" {
			break
		}
		after = lst.Data.After
	}

	c.logger.Debug("fetched subreddit listing",
		zap.String("subreddit", subreddit),
		zap.String("sort", sort),
		zap.Int("posts", len(posts)))

	return posts, nil
}

// PostByID fetches a single submission by ID. The comments endpoint returns
// the post listing first and the comment tree second; only the former is
// consumed.
func (c *Client) PostByID(ctx context.Context, id string) ([]Post, error) {
	if id == "" {
		return nil, fmt.Errorf("post ID cannot be empty")
	}

	postURL := fmt.Sprintf("%s/comments/%s.json", c.baseURL, url.PathEscape(id))

	var listings []listing
	if err := c.getJSON(ctx, postURL, &listings); err != nil {
		return nil, err
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
	}

	var posts []Post
	for _, child := range listings[0].Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

// getJSON performs one paced API request and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, requestURL string, out interface{}) error {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	if c.onWait != nil {
		c.onWait(time.Since(waitStart))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for key, value := range apiHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("reddit API request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", requestURL, ErrNotFound)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s: %w", requestURL, ErrForbidden)
	case resp.StatusCode != http.StatusOK:
		return &StatusError{URL: requestURL, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode listing response: %w", err)
	}
	return nil
}
