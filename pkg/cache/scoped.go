package cache

import "github.com/matzehuels/flowlayout/pkg/layout"

// ScopedKeyer wraps a Keyer with a prefix. The layout service uses it to
// keep its entries apart from other users of a shared redis.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "flowlayout:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts layout.Options) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
