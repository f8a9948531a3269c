// Package storage defines the gateway interface for the object store.
// Swap implementations by changing the concrete type injected at startup —
// the MinIO implementation works with any S3-compatible provider (MinIO, AWS S3).
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// ErrUnavailable is returned on transient storage failures (timeouts,
// connectivity, region-mismatch redirects). Callers surface it as a
// retryable condition; nothing in this service retries automatically.
var ErrUnavailable = errors.New("object storage unavailable")

// ObjectInfo describes the outcome of a metadata probe.
type ObjectInfo struct {
	Exists bool
	Size   int64
}

// Gateway is the capability surface the lifecycle controller needs from the
// object store. It never performs uploads itself: writes happen directly from
// clients via presigned URLs.
type Gateway interface {
	// PresignedPut mints a time-limited URL authorizing exactly one PUT to key.
	PresignedPut(ctx context.Context, key string, ttl time.Duration) (string, error)
	// Stat checks existence and size of the object at key without
	// transferring its body. A missing object is not an error.
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// Fetch returns the full object body, or ErrNotFound.
	Fetch(ctx context.Context, key string) ([]byte, error)
}
