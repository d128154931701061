// Package cache memoizes layout results by content hash.
//
// A layout is a pure function of its graph, node sizes and options, so a
// result can be reused whenever all three hash the same. The CLI keeps
// results in a [FileCache] under the user cache directory; the HTTP service
// shares them across replicas through a [RedisCache]. [NullCache] disables
// caching.
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the graph digest and the
// options together; [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Cache stores opaque byte values with an optional time to live.
type Cache interface {
	// Get returns the value and true on a hit, or nil and false on a miss.
	// Expired and corrupt entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of a layout result for a graph digest and
	// the options it was computed with.
	LayoutKey(graphHash string, opts layout.Options) string
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes the graph digest and every option field, so any option
// change produces a new key.
func (DefaultKeyer) LayoutKey(graphHash string, opts layout.Options) string {
	return hashKey("layout", graphHash, opts)
}
