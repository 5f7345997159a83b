package store

import (
	"strings"
	"sync"
)

// keyPool provides reusable byte slices for building database keys.
var keyPool = sync.Pool{
	New: func() any {
		return make([]byte, 0, 256)
	},
}

// buildKey constructs a database key from prefix and suffix using a pooled buffer.
// The returned slice is valid until releaseKey is called.
//
// Usage:
//
//	key := buildKey(coverPrefix, normalizeTitle(title))
//	defer releaseKey(key)
func buildKey(prefix, suffix string) []byte {
	buf, _ := keyPool.Get().([]byte)
	buf = buf[:0]
	buf = append(buf, prefix...)
	buf = append(buf, suffix...)
	return buf
}

// releaseKey returns a key buffer to the pool for reuse.
func releaseKey(key []byte) {
	if cap(key) <= 512 {
		keyPool.Put(key[:0])
	}
}

// normalizeTitle folds case and surrounding space so that lookups for the
// same title share a cache entry.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
