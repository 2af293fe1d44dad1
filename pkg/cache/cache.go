// Package cache provides response caching for rendered figures.
// Backends share one interface; the server wires in a null, file or
// redis cache depending on configuration.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// SVGKey builds the cache key for a rendered figure from the layout's
// serialized form and the figure size. Layouts that serialize equally
// render equally, so the hash is a safe identity.
func SVGKey(layoutJSON []byte, figsize [2]float64) string {
	payload, _ := json.Marshal(struct {
		Layout  json.RawMessage `json:"layout"`
		FigSize [2]float64      `json:"figsize"`
	}{Layout: layoutJSON, FigSize: figsize})
	return fmt.Sprintf("svg:%s", Hash(payload))
}
