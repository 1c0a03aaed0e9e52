package cache

// ScopedKeyer wraps a Keyer with a prefix so several producers can share
// one cache directory without colliding, for example the CLI and the HTTP
// service:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}

// TopologyKey generates a prefixed key for topology caching.
func (k *ScopedKeyer) TopologyKey(docHash, format string) string {
	return k.prefix + k.inner.TopologyKey(docHash, format)
}
