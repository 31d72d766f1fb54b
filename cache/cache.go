package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrClosed is returned by a provider used after Close.
	ErrClosed = errors.New("cache: provider closed")

	// ErrEmptyKey is returned for an empty key.
	ErrEmptyKey = errors.New("cache: empty key")
)

// Provider stores opaque values under string keys. Implementations are safe
// for concurrent use and never alias the caller's byte slices.
type Provider interface {
	// Get is GetContext without a context; errors read as a miss.
	Get(key string) ([]byte, bool)
	// Set is SetContext without a context; errors are dropped.
	Set(key string, value []byte)
	GetContext(ctx context.Context, key string) ([]byte, bool, error)
	SetContext(ctx context.Context, key string, value []byte) error
}

// Key derives a content-addressed key: the hex sha256 of namespace and the
// JSON encoding of v. Equal values under the same namespace share a key.
func Key(namespace string, v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache: key for %s: %w", namespace, err)
	}
	h := sha256.New()
	h.Write([]byte(namespace))
	h.Write([]byte{0})
	h.Write(raw)

	return namespace + ":" + hex.EncodeToString(h.Sum(nil)), nil
}
