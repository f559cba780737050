package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// FileStore is the contract the file service depends on. The product
// files themselves stay private in the bucket; buyers get short-lived
// signed URLs after purchase.
type FileStore interface {
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) error
	SignedURL(objectName string, expires time.Duration) (string, error)
	Close() error
}

type gcsStore struct {
	client *gcs.Client
	bucket string
}

func New(ctx context.Context, bucket string) (FileStore, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &gcsStore{client: client, bucket: bucket}, nil
}

// ObjectName builds a collision-free object path for an upload.
func ObjectName(ownerUID, filename string) string {
	return fmt.Sprintf("uploads/%s/%s_%s", ownerUID, uuid.NewString(), filename)
}

func (s *gcsStore) Upload(ctx context.Context, objectName, contentType string, r io.Reader) error {
	w := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (s *gcsStore) SignedURL(objectName string, expires time.Duration) (string, error) {
	return s.client.Bucket(s.bucket).SignedURL(objectName, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expires),
	})
}

func (s *gcsStore) Close() error {
	return s.client.Close()
}
