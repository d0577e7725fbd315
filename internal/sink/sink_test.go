// internal/sink/sink_test.go
package sink

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/valpere/MediaScrapexter/internal/media"
)

func writeScratch(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write scratch file: %v", err)
	}
	return path
}

func successResult(path string) media.RetrievalResult {
	return media.RetrievalResult{
		Item:      media.Item{Kind: media.KindImage, CanonicalURL: "https://example.com/" + filepath.Base(path)},
		Status:    media.StatusSuccess,
		LocalPath: path,
	}
}

func TestModeIsValid(t *testing.T) {
	for _, mode := range ValidModes() {
		if !mode.IsValid() {
			t.Errorf("mode %q should be valid", mode)
		}
	}
	if Mode("ftp").IsValid() {
		t.Error("unknown mode should be invalid")
	}
}

func TestSessionScratchAndCleanup(t *testing.T) {
	base := t.TempDir()
	sess, err := NewSession(base)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if sess.ID == "" {
		t.Error("session should have an ID")
	}
	if _, err := os.Stat(sess.Dir); err != nil {
		t.Fatalf("run directory missing: %v", err)
	}

	scratch := sess.ScratchPath("image_1.jpg")
	if filepath.Dir(scratch) != sess.Dir {
		t.Errorf("scratch path %q not inside run directory %q", scratch, sess.Dir)
	}

	writeScratch(t, sess.Dir, "leftover.jpg", "x")
	if err := sess.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if _, err := os.Stat(sess.Dir); !os.IsNotExist(err) {
		t.Error("run directory should be gone after Cleanup")
	}
}

func TestLocalSinkKeepsFileInPlace(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewLocalSink(dir, nil)
	if err != nil {
		t.Fatalf("NewLocalSink: %v", err)
	}
	defer sink.Close()

	scratch := writeScratch(t, dir, "image_1.jpg", "payload")
	res := sink.Persist(context.Background(), successResult(scratch))
	if !res.Persisted {
		t.Fatalf("persist failed: %s", res.Error)
	}
	if res.Location != filepath.Join(dir, "image_1.jpg") {
		t.Errorf("Location = %q", res.Location)
	}
	data, err := os.ReadFile(res.Location)
	if err != nil || string(data) != "payload" {
		t.Errorf("persisted content = %q, err = %v", data, err)
	}
}

func TestLocalSinkMovesExternalFile(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	sink, err := NewLocalSink(dir, nil)
	if err != nil {
		t.Fatalf("NewLocalSink: %v", err)
	}
	defer sink.Close()

	scratch := writeScratch(t, other, "video_1.mp4", "clip")
	res := sink.Persist(context.Background(), successResult(scratch))
	if !res.Persisted {
		t.Fatalf("persist failed: %s", res.Error)
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("scratch file should be gone after move")
	}
	if _, err := os.Stat(filepath.Join(dir, "video_1.mp4")); err != nil {
		t.Errorf("moved file missing: %v", err)
	}
}

func TestLocalSinkRejectsFailedRetrieval(t *testing.T) {
	sink, err := NewLocalSink(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLocalSink: %v", err)
	}
	defer sink.Close()

	res := sink.Persist(context.Background(), media.RetrievalResult{
		Item:   media.Item{CanonicalURL: "https://example.com/a.jpg"},
		Status: media.StatusHTTPError,
	})
	if res.Persisted {
		t.Error("failed retrieval must not be persisted")
	}
	if res.Error == "" {
		t.Error("expected an error message")
	}
}

func TestArchiveSinkBundlesAndRemovesScratch(t *testing.T) {
	scratchDir := t.TempDir()
	archivePath := filepath.Join(t.TempDir(), "run.zip")

	sink, err := NewArchiveSink(archivePath, nil)
	if err != nil {
		t.Fatalf("NewArchiveSink: %v", err)
	}

	first := writeScratch(t, scratchDir, "image_1.jpg", "aaa")
	second := writeScratch(t, scratchDir, "image_2.png", "bbbb")

	for _, scratch := range []string{first, second} {
		res := sink.Persist(context.Background(), successResult(scratch))
		if !res.Persisted {
			t.Fatalf("persist %s failed: %s", scratch, res.Error)
		}
		if res.Location != archivePath {
			t.Errorf("Location = %q, want %q", res.Location, archivePath)
		}
		if _, err := os.Stat(scratch); !os.IsNotExist(err) {
			t.Errorf("scratch %s should be removed after bundling", scratch)
		}
	}
	if sink.Count() != 2 {
		t.Errorf("Count = %d, want 2", sink.Count())
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	defer reader.Close()

	want := map[string]int64{"image_1.jpg": 3, "image_2.png": 4}
	if len(reader.File) != len(want) {
		t.Fatalf("archive holds %d entries, want %d", len(reader.File), len(want))
	}
	for _, entry := range reader.File {
		size, ok := want[entry.Name]
		if !ok {
			t.Errorf("unexpected entry %q", entry.Name)
			continue
		}
		if int64(entry.UncompressedSize64) != size {
			t.Errorf("entry %q size = %d, want %d", entry.Name, entry.UncompressedSize64, size)
		}
	}
}

type fakeUploader struct {
	refs map[string]string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, localPath, destKey string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.refs == nil {
		f.refs = make(map[string]string)
	}
	ref := "s3://bucket/" + destKey
	f.refs[destKey] = localPath
	return ref, nil
}

func TestRemoteSinkUploadsAndRemovesScratch(t *testing.T) {
	dir := t.TempDir()
	uploader := &fakeUploader{}
	sink := NewRemoteSink(uploader, "runs/20240101", nil)
	defer sink.Close()

	scratch := writeScratch(t, dir, "post1_image.jpg", "img")
	res := sink.Persist(context.Background(), successResult(scratch))
	if !res.Persisted {
		t.Fatalf("persist failed: %s", res.Error)
	}
	if res.Location != "s3://bucket/runs/20240101/post1_image.jpg" {
		t.Errorf("Location = %q", res.Location)
	}
	if _, ok := uploader.refs["runs/20240101/post1_image.jpg"]; !ok {
		t.Error("uploader never saw the object key")
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("scratch file should be removed after upload")
	}
}

func TestRemoteSinkUploadFailure(t *testing.T) {
	dir := t.TempDir()
	sink := NewRemoteSink(&fakeUploader{err: errors.New("denied")}, "", nil)
	defer sink.Close()

	scratch := writeScratch(t, dir, "post2_video.mp4", "clip")
	res := sink.Persist(context.Background(), successResult(scratch))
	if res.Persisted {
		t.Error("failed upload must not report persisted")
	}
	if res.Error == "" {
		t.Error("expected an error message")
	}
	if _, err := os.Stat(scratch); !os.IsNotExist(err) {
		t.Error("scratch file should still be removed after a failed upload")
	}
}
