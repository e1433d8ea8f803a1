// Package cache provides byte caching behind a small interface, with
// in-memory, disk, and layered implementations. The pipeline uses it to
// memoize per-document extraction results between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// DocumentKey generates a cache key for a document from its path, size,
// and modification time. Any change to the file invalidates the key.
func DocumentKey(path string, size int64, modTime time.Time) string {
	hash := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", path, size, modTime.UnixNano()))
	return "gnosia:v1:" + hex.EncodeToString(hash[:])
}
