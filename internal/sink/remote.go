// internal/sink/remote.go
package sink

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"go.uber.org/zap"

	"github.com/valpere/MediaScrapexter/internal/media"
)

// Uploader sends a local file to remote storage under destKey and returns a
// stable reference to the stored object.
type Uploader interface {
	Upload(ctx context.Context, localPath, destKey string) (string, error)
}

// RemoteSink hands retrieved files to an Uploader, one object per item. A
// scratch file is deleted only after its upload succeeds; a failed upload
// leaves no remote orphan, and the scratch file is still removed so runs do
// not accumulate partial state.
type RemoteSink struct {
	uploader Uploader
	prefix   string
	logger   *zap.Logger
}

// NewRemoteSink creates a sink uploading under the given key prefix.
func NewRemoteSink(uploader Uploader, prefix string, logger *zap.Logger) *RemoteSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RemoteSink{uploader: uploader, prefix: prefix, logger: logger}
}

// Persist uploads the retrieved file and removes the scratch copy.
func (s *RemoteSink) Persist(ctx context.Context, result media.RetrievalResult) PersistResult {
	if !result.Succeeded() {
		return failure(result.Item, "cannot persist item with status %s", result.Status)
	}
	defer os.Remove(result.LocalPath)

	key := filepath.Base(result.LocalPath)
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}

	ref, err := s.uploader.Upload(ctx, result.LocalPath, key)
	if err != nil {
		return failure(result.Item, "failed to upload %s: %v", key, err)
	}

	s.logger.Debug("uploaded file", zap.String("key", key), zap.String("ref", ref))
	return PersistResult{Item: result.Item, Location: ref, Persisted: true}
}

// Close is a no-op: each object is final once uploaded.
func (s *RemoteSink) Close() error {
	return nil
}

// S3Uploader stores objects in a single S3 bucket.
type S3Uploader struct {
	client s3iface.S3API
	bucket string
}

// NewS3Uploader builds an uploader against the given bucket using the default
// AWS credential chain.
func NewS3Uploader(region, bucket string) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3Uploader{client: s3.New(sess), bucket: bucket}, nil
}

// Upload puts the file at localPath into the bucket under destKey.
func (u *S3Uploader) Upload(ctx context.Context, localPath, destKey string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(destKey),
		Body:   file,
	}); err != nil {
		return "", err
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, destKey), nil
}
