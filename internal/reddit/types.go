// internal/reddit/types.go
package reddit

// Post is the structured representation of one Reddit submission as returned
// by the listing API. Optional branches (gallery, hosted video, preview) are
// modelled as explicit nullable fields rather than probed dynamically; absent
// JSON keys simply leave them nil.
type Post struct {
	ID                  string                   `json:"id"`
	Title               string                   `json:"title"`
	Subreddit           string                   `json:"subreddit"`
	Author              string                   `json:"author"`
	URL                 string                   `json:"url"`
	URLOverriddenByDest string                   `json:"url_overridden_by_dest"`
	Permalink           string                   `json:"permalink"`
	IsVideo             bool                     `json:"is_video"`
	IsGallery           bool                     `json:"is_gallery"`
	Media               *Media                   `json:"media"`
	GalleryData         *GalleryData             `json:"gallery_data"`
	MediaMetadata       map[string]MediaMetadata `json:"media_metadata"`
	Preview             *Preview                 `json:"preview"`
	Score               int                      `json:"score"`
	CreatedUTC          float64                  `json:"created_utc"`
}

// PrimaryLink returns the post's outbound link, preferring the destination
// URL when the post links out through a redirect.
func (p *Post) PrimaryLink() string {
	if p.URLOverriddenByDest != "" {
		return p.URLOverriddenByDest
	}
	return p.URL
}

// HasGallery reports whether the post carries usable gallery metadata.
func (p *Post) HasGallery() bool {
	return p.GalleryData != nil && len(p.GalleryData.Items) > 0 && p.MediaMetadata != nil
}

// HasHostedVideo reports whether the post carries a hosted reddit video.
func (p *Post) HasHostedVideo() bool {
	return p.IsVideo && p.Media != nil && p.Media.RedditVideo != nil
}

// Media holds the hosted-media branch of a post.
type Media struct {
	RedditVideo *RedditVideo `json:"reddit_video"`
}

// RedditVideo describes a video hosted on Reddit's CDN.
type RedditVideo struct {
	FallbackURL string `json:"fallback_url"`
	Height      int    `json:"height"`
	Width       int    `json:"width"`
	Duration    int    `json:"duration"`
	IsGif       bool   `json:"is_gif"`
}

// GalleryData lists gallery items in display order.
type GalleryData struct {
	Items []GalleryItem `json:"items"`
}

// GalleryItem references one gallery entry by media ID.
type GalleryItem struct {
	ID      int    `json:"id"`
	MediaID string `json:"media_id"`
}

// MediaMetadata describes one media entry referenced from a gallery.
// Kind carries Reddit's single-letter element type ("Image" for images).
type MediaMetadata struct {
	Status string       `json:"status"`
	Kind   string       `json:"e"`
	MimeT  string       `json:"m"`
	Source *MediaSource `json:"s"`
}

// MediaSource is the full-resolution source of a media metadata entry.
type MediaSource struct {
	URL    string `json:"u"`
	GIF    string `json:"gif"`
	Width  int    `json:"x"`
	Height int    `json:"y"`
}

// Preview holds preview renditions of a post's primary media.
type Preview struct {
	Images []PreviewImage `json:"images"`
}

// PreviewImage is one preview entry; Source is its highest-quality rendition.
type PreviewImage struct {
	Source *PreviewSource `json:"source"`
}

// PreviewSource is a single preview rendition.
type PreviewSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// listing mirrors the Reddit API envelope: a kind tag plus a data payload of
// child things and a pagination cursor.
type listing struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	Children []thing `json:"children"`
	After    string  `json:"after"`
}

type thing struct {
	Kind string `json:"kind"`
	Data Post   `json:"data"`
}
