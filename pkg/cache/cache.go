// Package cache provides artifact caching for rendered routing outputs.
//
// Rendering an instance is deterministic: the same instance, time, and
// format always produce the same bytes. The HTTP server uses a cache keyed
// by a hash of the routing request to skip repeated simulation runs;
// the CLI runs uncached.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache stores rendered artifacts by key.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// ArtifactKey derives a cache key for a routing request from the raw
// instance bytes and the request parameters that affect the output.
func ArtifactKey(instance []byte, format string, t, dt float64) string {
	meta, _ := json.Marshal(struct {
		Format string  `json:"format"`
		Time   float64 `json:"time"`
		DT     float64 `json:"dt"`
	}{format, t, dt})

	h := sha256.New()
	h.Write(instance)
	h.Write(meta)
	return "artifact:" + hex.EncodeToString(h.Sum(nil))
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
