// internal/media/types.go
package media

// Kind classifies a piece of media discovered by an extractor.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// ValidKinds returns all supported media kinds.
func ValidKinds() []Kind {
	return []Kind{KindImage, KindVideo, KindAudio}
}

// IsValid checks if the media kind is a known value.
func (k Kind) IsValid() bool {
	for _, valid := range ValidKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// DefaultExtension returns the fallback file extension for the kind,
// used when a URL carries no usable extension of its own.
func (k Kind) DefaultExtension() string {
	switch k {
	case KindVideo:
		return ".mp4"
	case KindAudio:
		return ".mp3"
	default:
		return ".jpg"
	}
}

// Candidate is an unnormalized, possibly-duplicate media reference produced
// by an extractor. URL is kept in raw pre-normalization form; the candidate
// is immutable once created.
type Candidate struct {
	Kind          Kind   `json:"kind"`
	URL           string `json:"url"`
	SuggestedName string `json:"suggested_name,omitempty"`
	SourceTitle   string `json:"source_title,omitempty"`
}

// Item is a normalized, deduplicated media reference ready for retrieval.
// CanonicalURL is absolute, scheme-qualified, query-stripped and decoded;
// two items with equal CanonicalURL denote the same media.
type Item struct {
	Kind         Kind   `json:"kind"`
	CanonicalURL string `json:"canonical_url"`
	Filename     string `json:"filename,omitempty"`
}

// Status describes the outcome of retrieving one item.
type Status string

const (
	StatusSuccess      Status = "success"
	StatusHTTPError    Status = "http_error"
	StatusNetworkError Status = "network_error"
	StatusSkipped      Status = "skipped"
)

// RetrievalResult is the per-item outcome of a retrieval. It lives only for
// the duration of a pipeline run and is never persisted.
type RetrievalResult struct {
	Item       Item   `json:"item"`
	Status     Status `json:"status"`
	StatusCode int    `json:"status_code,omitempty"`
	LocalPath  string `json:"local_path,omitempty"`
	BytesLen   int64  `json:"bytes_len,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Succeeded reports whether the retrieval produced usable bytes.
func (r RetrievalResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// Progress is one incremental progress report emitted during a retrieval.
// BytesTotal is zero when the server sent no Content-Length.
type Progress struct {
	Item       Item
	BytesDone  int64
	BytesTotal int64
}

// ProgressFunc receives incremental progress reports. A nil ProgressFunc is
// always legal and means the caller does not want progress events.
type ProgressFunc func(Progress)
