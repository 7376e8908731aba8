package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// StatsReporter is implemented by caches that count their lookups
type StatsReporter interface {
	Stats() Stats
}

// Key generates a cache key from its parts (e.g. model ID and text)
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "sahte:v1:" + hex.EncodeToString(h.Sum(nil))
}
