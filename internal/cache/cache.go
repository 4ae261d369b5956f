// Package cache provides report caching for batch runs. Triage analysis is
// deterministic over an immutable knowledge base, so a cached report for an
// identical case description is always valid until the base changes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for report caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a case description
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "triage:v1:" + hex.EncodeToString(hash[:])
}
