package services

import (
	"context"
	"io"
)

// BlobStore is the external blob collaborator. The workflow stores only
// the references it returns.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

// Notifier is the fire-and-forget notification collaborator. Failures are
// logged by the implementation and never propagated.
type Notifier interface {
	Notify(userID uint, event string, detail string)
}
