package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// B2Store keeps blobs in a Backblaze B2 bucket. Used in production.
type B2Store struct {
	client *b2.Client
	bucket *b2.Bucket
}

// NewB2Store connects to B2 and binds the bucket
func NewB2Store(ctx context.Context, accountID, appKey, bucketName string) (*B2Store, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create b2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &B2Store{client: client, bucket: bucket}, nil
}

// Put uploads the blob under key and returns its reference
func (s *B2Store) Put(ctx context.Context, key string, r io.Reader) (string, error) {
	obj := s.bucket.Object(key)
	w := obj.NewWriter(ctx)

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close writer: %w", err)
	}
	return key, nil
}

// Get downloads the blob by reference
func (s *B2Store) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	return s.bucket.Object(ref).NewReader(ctx), nil
}

// Delete removes the blob by reference
func (s *B2Store) Delete(ctx context.Context, ref string) error {
	return s.bucket.Object(ref).Delete(ctx)
}
