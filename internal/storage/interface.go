package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

const ContentTypeJSON = "application/json"

// ObjectStorage stores ingestion artifacts under slash-separated keys.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	// GetURL returns the location recorded on the job for key.
	GetURL(key string) string
}

// PutBytes uploads data under key and returns its recorded location.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - s: destination storage.
//   - key: object key such as raw/<slug>/raw_ingestion_1_20240101120000.json.
//   - data: object contents.
//   - contentType: MIME type stored alongside the object where supported.
// Returns:
//   - string: value of s.GetURL(key).
//   - error: non-nil if the upload fails.
func PutBytes(ctx context.Context, s ObjectStorage, key string, data []byte, contentType string) (string, error) {
	if err := s.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return s.GetURL(key), nil
}

// ReadAll downloads the object stored under key. The pipeline transforms this stored copy.
func ReadAll(ctx context.Context, s ObjectStorage, key string) ([]byte, error) {
	rc, err := s.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
