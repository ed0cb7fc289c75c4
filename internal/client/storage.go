package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/krakosik/runway/internal/dto"
)

// ObjectStore holds user uploads. Upload returns a URL the mobile client can fetch directly.
type ObjectStore interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

type bucketStore struct {
	bucket *gcs.BucketHandle
	name   string
}

func newBucketStore(bucket *gcs.BucketHandle, name string) ObjectStore {
	return &bucketStore{
		bucket: bucket,
		name:   name,
	}
}

func (b *bucketStore) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	token := uuid.NewString()

	w := b.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}

	return DownloadURL(b.name, path, token), nil
}

func (b *bucketStore) Delete(ctx context.Context, path string) error {
	err := b.bucket.Object(path).Delete(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gcs.ErrObjectNotExist):
		return fmt.Errorf("%w: %s", dto.ErrNotFound, path)
	default:
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
}

// DownloadURL builds the tokenised URL Firebase Storage serves public downloads from.
func DownloadURL(bucket, path, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(path),
		url.QueryEscape(token),
	)
}
