package geo

// Projection maps geographic positions into a pixel frame whose origin is the
// top-left corner of the map.
type Projection interface {
	Name() string
	Project(p Point, b Bounds, width, height float64) (x, y float64)
	// Aspect returns height over width of b once projected, used to derive
	// a map height when none is given.
	Aspect(b Bounds) float64
}

// Equirectangular maps longitude and latitude linearly onto x and y.
type Equirectangular struct{}

func (Equirectangular) Name() string { return "equirectangular" }

func (Equirectangular) Project(p Point, b Bounds, width, height float64) (float64, float64) {
	var x, y float64
	if w := b.Width(); w > 0 {
		x = (p.Lon - b.Min.Lon) / w * width
	}
	if h := b.Height(); h > 0 {
		y = (b.Max.Lat - p.Lat) / h * height
	}
	return x, y
}

func (Equirectangular) Aspect(b Bounds) float64 {
	if b.Width() <= 0 {
		return 1
	}
	return b.Height() / b.Width()
}

// Frame is the shared coordinate space a map hands each of its layers.
type Frame struct {
	Width      float64
	Height     float64
	Bounds     Bounds
	Projection Projection
}

// Project maps p into frame pixels relative to the map's top-left corner.
func (f Frame) Project(p Point) (x, y float64) {
	return f.Projection.Project(p, f.Bounds, f.Width, f.Height)
}
