package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants can share
// one backend without colliding.
//
// Example usage:
//
//	// keys for one API client
//	clientKeyer := NewScopedKeyer(NewDefaultKeyer(), "client:abc123:")
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

// ResultKey generates a prefixed result key.
func (k *ScopedKeyer) ResultKey(dbHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(dbHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(dbHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dbHash, opts)
}
