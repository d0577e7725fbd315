// internal/retrieve/retriever_test.go
package retrieve

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/valpere/MediaScrapexter/internal/media"
)

func newTestRetriever(t *testing.T) *Retriever {
	t.Helper()
	return New(Config{RequestInterval: time.Millisecond}, nil)
}

func TestFetchSuccess(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 3*chunkSize+100)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("missing User-Agent")
		}
		if got := r.Header.Get("Accept"); got == "" {
			t.Error("missing Accept header")
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "image_1.jpg")
	item := media.Item{Kind: media.KindImage, CanonicalURL: server.URL + "/a.jpg"}

	var events []media.Progress
	result := newTestRetriever(t).Fetch(context.Background(), item, dest, func(p media.Progress) {
		events = append(events, p)
	})

	if !result.Succeeded() {
		t.Fatalf("fetch failed: %+v", result)
	}
	if result.BytesLen != int64(len(payload)) {
		t.Errorf("BytesLen = %d, want %d", result.BytesLen, len(payload))
	}
	if result.LocalPath != dest {
		t.Errorf("LocalPath = %q, want %q", result.LocalPath, dest)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read downloaded file: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("downloaded bytes differ from payload")
	}

	if len(events) == 0 {
		t.Fatal("no progress events")
	}
	last := events[len(events)-1]
	if last.BytesDone != int64(len(payload)) {
		t.Errorf("final BytesDone = %d, want %d", last.BytesDone, len(payload))
	}
	if last.BytesTotal != int64(len(payload)) {
		t.Errorf("BytesTotal = %d, want %d", last.BytesTotal, len(payload))
	}
	for i := 1; i < len(events); i++ {
		if events[i].BytesDone < events[i-1].BytesDone {
			t.Error("progress went backwards")
		}
	}
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "missing.jpg")
	item := media.Item{Kind: media.KindImage, CanonicalURL: server.URL + "/missing.jpg"}

	result := newTestRetriever(t).Fetch(context.Background(), item, dest, nil)

	if result.Status != media.StatusHTTPError {
		t.Fatalf("Status = %q, want http_error", result.Status)
	}
	if result.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", result.StatusCode)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file should exist after an HTTP error")
	}
}

func TestFetchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	dest := filepath.Join(t.TempDir(), "unreachable.jpg")
	item := media.Item{Kind: media.KindImage, CanonicalURL: server.URL + "/x.jpg"}

	result := newTestRetriever(t).Fetch(context.Background(), item, dest, nil)

	if result.Status != media.StatusNetworkError {
		t.Fatalf("Status = %q, want network_error", result.Status)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("no file should exist after a network error")
	}
}

func TestFetchTruncatedBodyCleansUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100000")
		w.Write(bytes.Repeat([]byte("y"), 512))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		// Abort the connection mid-body.
		if hj, ok := w.(http.Hijacker); ok {
			conn, _, _ := hj.Hijack()
			conn.Close()
		}
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "partial.jpg")
	item := media.Item{Kind: media.KindVideo, CanonicalURL: server.URL + "/clip.mp4"}

	result := newTestRetriever(t).Fetch(context.Background(), item, dest, nil)

	if result.Status != media.StatusNetworkError {
		t.Fatalf("Status = %q, want network_error", result.Status)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Error("partial file should be removed after a truncated body")
	}
}

func TestFetchReportsRateLimitWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes"))
	}))
	defer server.Close()

	retriever := New(Config{RequestInterval: 30 * time.Millisecond}, nil)
	var waits []time.Duration
	retriever.OnRateLimitWait(func(d time.Duration) {
		waits = append(waits, d)
	})

	dir := t.TempDir()
	item := media.Item{Kind: media.KindImage, CanonicalURL: server.URL + "/a.jpg"}
	retriever.Fetch(context.Background(), item, filepath.Join(dir, "a.jpg"), nil)
	retriever.Fetch(context.Background(), item, filepath.Join(dir, "b.jpg"), nil)

	if len(waits) != 2 {
		t.Fatalf("got %d wait reports, want 2", len(waits))
	}
	// The second request is paced behind the first by the interval.
	if waits[1] < 10*time.Millisecond {
		t.Errorf("second wait = %v, expected a paced delay", waits[1])
	}
}

func TestFetchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "never.jpg")
	item := media.Item{Kind: media.KindImage, CanonicalURL: "https://example.com/a.jpg"}

	result := newTestRetriever(t).Fetch(ctx, item, dest, nil)
	if result.Succeeded() {
		t.Error("fetch with cancelled context should not succeed")
	}
}
