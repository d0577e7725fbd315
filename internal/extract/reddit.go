// internal/extract/reddit.go
package extract

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/MediaScrapexter/internal/media"
	"github.com/valpere/MediaScrapexter/internal/reddit"
)

// imageExtensions qualify a post's primary link as a direct image.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// PostExtractor walks Reddit post objects and discovers media candidates from
// their typed branches: gallery items, direct image links, hosted video and
// preview images.
type PostExtractor struct {
	logger *zap.Logger
}

// NewPostExtractor creates a structured-post media extractor.
func NewPostExtractor(logger *zap.Logger) *PostExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostExtractor{logger: logger}
}

// Extract scans every post and concatenates their candidates. A failure
// inside one post never aborts the scan: the post contributes whatever was
// extracted before the failure and the scan moves on.
func (e *PostExtractor) Extract(posts []reddit.Post) []media.Candidate {
	var candidates []media.Candidate
	for i := range posts {
		candidates = append(candidates, e.extractPost(&posts[i])...)
	}
	return candidates
}

// extractPost applies the branch checks in priority order. A post may
// contribute candidates from several branches, except that the preview branch
// is skipped whenever the hosted-video branch matched.
func (e *PostExtractor) extractPost(post *reddit.Post) (candidates []media.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("post inspection failed, keeping partial candidates",
				zap.String("post_id", post.ID),
				zap.Any("panic", r))
		}
	}()

	if post.HasGallery() {
		candidates = append(candidates, e.galleryCandidates(post)...)
	}

	if link := post.PrimaryLink(); isDirectImage(link) {
		candidates = append(candidates, media.Candidate{
			Kind:          media.KindImage,
			URL:           link,
			SuggestedName: fmt.Sprintf("%s_image%s", post.ID, media.ExtensionOf(link)),
			SourceTitle:   post.Title,
		})
	}

	if post.HasHostedVideo() {
		candidates = append(candidates, media.Candidate{
			Kind:          media.KindVideo,
			URL:           post.Media.RedditVideo.FallbackURL,
			SuggestedName: fmt.Sprintf("%s_video.mp4", post.ID),
			SourceTitle:   post.Title,
		})
	} else if preview := previewURL(post); preview != "" {
		// The hosted-video and preview branches are mutually exclusive even
		// when the video branch yields nothing usable.
		candidates = append(candidates, media.Candidate{
			Kind:          media.KindImage,
			URL:           preview,
			SuggestedName: fmt.Sprintf("%s_preview.jpg", post.ID),
			SourceTitle:   post.Title,
		})
	}

	return candidates
}

// galleryCandidates resolves each gallery item against the post's media
// metadata, keeping only valid image entries. Entries with missing metadata
// or a missing source are skipped individually.
func (e *PostExtractor) galleryCandidates(post *reddit.Post) []media.Candidate {
	var candidates []media.Candidate
	for _, item := range post.GalleryData.Items {
		meta, ok := post.MediaMetadata[item.MediaID]
		if !ok {
			e.logger.Debug("gallery item without metadata",
				zap.String("post_id", post.ID),
				zap.String("media_id", item.MediaID))
			continue
		}
		if meta.Status != "valid" || meta.Kind != "Image" {
			continue
		}
		if meta.Source == nil || meta.Source.URL == "" {
			e.logger.Debug("valid gallery entry without source",
				zap.String("post_id", post.ID),
				zap.String("media_id", item.MediaID))
			continue
		}
		candidates = append(candidates, media.Candidate{
			Kind:          media.KindImage,
			URL:           meta.Source.URL,
			SuggestedName: fmt.Sprintf("gallery_%s_%s.jpg", post.ID, item.MediaID),
			SourceTitle:   post.Title,
		})
	}
	return candidates
}

// previewURL returns the first preview image source, or empty when the post
// has no usable preview data. Absent keys and empty lists are swallowed.
func previewURL(post *reddit.Post) string {
	if post.Preview == nil || len(post.Preview.Images) == 0 {
		return ""
	}
	source := post.Preview.Images[0].Source
	if source == nil {
		return ""
	}
	return source.URL
}

// isDirectImage reports whether a link ends in a known image extension,
// case-insensitively.
func isDirectImage(link string) bool {
	if link == "" {
		return false
	}
	lower := strings.ToLower(link)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
