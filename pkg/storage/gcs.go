package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// GCSStore writes attachments to a Google Cloud Storage bucket and
// returns their public URLs as references.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET not set")
	}
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Save(ctx context.Context, kind, originalName string, content io.Reader) (string, error) {
	object := fmt.Sprintf("%s/%s-%s-%s",
		kind,
		time.Now().Format("20060102-150405"),
		uuid.New().String()[:8],
		sanitizeFilename(originalName))

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, content); err != nil {
		w.Close()
		return "", fmt.Errorf("upload to bucket: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, object), nil
}

// ResolveURL passes GCS references through untouched; they are stored
// as absolute URLs. Legacy relative paths fall back to the bucket root.
func (s *GCSStore) ResolveURL(reference string) string {
	return resolveWithBase(fmt.Sprintf("https://storage.googleapis.com/%s", s.bucket), reference)
}
