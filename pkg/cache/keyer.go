package cache

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	// Scale is the raster scale of PNG output; zero for vector formats.
	Scale float64 `json:"scale,omitempty"`
	// Version invalidates entries written by another renderer build.
	Version string `json:"version,omitempty"`
}

// Keyer derives cache keys. Implementations must return the same key for
// the same inputs across processes.
type Keyer interface {
	// ArtifactKey keys a rendered document.
	ArtifactKey(specHash string, opts ArtifactKeyOpts) string

	// WiringKey keys a drawing of the connection graph.
	WiringKey(specHash, format string) string
}

// DefaultKeyer hashes every key component.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", specHash, opts)
}

// WiringKey implements Keyer.
func (DefaultKeyer) WiringKey(specHash, format string) string {
	return hashKey("wiring", specHash, format)
}
