package cache

// ScopedKeyer wraps a Keyer with a prefix so several tenants (for example
// CLI and server, or two server deployments sharing one Redis) keep separate
// namespaces.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	return k.prefix + k.inner.ResultKey(inputHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}
