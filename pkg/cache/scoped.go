package cache

// ScopedKeyer prefixes every key of an inner Keyer, so that callers sharing
// a backend never read each other's entries.
//
//	api := NewScopedKeyer(NewDefaultKeyer(), "api:")
//	cli := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(specHash, opts)
}

// WiringKey implements Keyer.
func (k *ScopedKeyer) WiringKey(specHash, format string) string {
	return k.prefix + k.inner.WiringKey(specHash, format)
}
