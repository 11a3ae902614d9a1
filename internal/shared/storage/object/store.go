package object

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectExists is returned when a write targets a key that is already stored.
var ErrObjectExists = errors.New("object already exists")

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("object not found")

// MaxSignedURLTTL is the longest lifetime a signed read URL may carry.
const MaxSignedURLTTL = 7 * 24 * time.Hour

// ObjectStore defines the contract for saving and retrieving private binary objects.
type ObjectStore interface {
	// Create writes r under key and never replaces an existing object.
	Create(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// SignedURL returns a credential-less URL granting read access to key until ttl elapses.
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// ClampTTL bounds ttl to (0, MaxSignedURLTTL].
func ClampTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > MaxSignedURLTTL {
		return MaxSignedURLTTL
	}
	return ttl
}
