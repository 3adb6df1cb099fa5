package geo

import (
	"fmt"
	"math"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// DefaultMargin is the fraction of a merged boundary's span added on every
// side so that no feature sits on the visible edge.
const DefaultMargin = 0.1

// Point is a geographic position in degrees.
type Point struct {
	Lon float64 `json:"lon" toml:"lon" yaml:"lon"`
	Lat float64 `json:"lat" toml:"lat" yaml:"lat"`
}

// Bounds is an axis-aligned geographic rectangle.
type Bounds struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewBounds returns the rectangle spanning both corners. Corners may be given
// in any order; non-finite coordinates are a configuration error.
func NewBounds(lon1, lat1, lon2, lat2 float64) (Bounds, error) {
	for _, v := range []float64{lon1, lat1, lon2, lat2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Bounds{}, errors.New(errors.ErrCodeInvalidConfig, "bounds must be finite, got %v", v)
		}
	}
	return Bounds{
		Min: Point{math.Min(lon1, lon2), math.Min(lat1, lat2)},
		Max: Point{math.Max(lon1, lon2), math.Max(lat1, lat2)},
	}, nil
}

// World is the whole-world boundary used when nothing reports one.
func World() Bounds {
	return Bounds{Min: Point{-180, -90}, Max: Point{180, 90}}
}

// Around returns the smallest boundary containing every point, and false
// when there are none.
func Around(points []Point) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b = b.Merge(Bounds{Min: p, Max: p})
	}
	return b, true
}

// Width is the longitude span.
func (b Bounds) Width() float64 { return b.Max.Lon - b.Min.Lon }

// Height is the latitude span.
func (b Bounds) Height() float64 { return b.Max.Lat - b.Min.Lat }

// Merge returns the component-wise union of b and o.
func (b Bounds) Merge(o Bounds) Bounds {
	return Bounds{
		Min: Point{math.Min(b.Min.Lon, o.Min.Lon), math.Min(b.Min.Lat, o.Min.Lat)},
		Max: Point{math.Max(b.Max.Lon, o.Max.Lon), math.Max(b.Max.Lat, o.Max.Lat)},
	}
}

// Expand grows every side by frac of the span on that axis. An axis with no
// span grows by frac degrees so the result is never degenerate.
func (b Bounds) Expand(frac float64) Bounds {
	dx, dy := b.Width()*frac, b.Height()*frac
	if dx == 0 {
		dx = frac
	}
	if dy == 0 {
		dy = frac
	}
	return Bounds{
		Min: Point{b.Min.Lon - dx, b.Min.Lat - dy},
		Max: Point{b.Max.Lon + dx, b.Max.Lat + dy},
	}
}

// Contains reports whether p lies inside b, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.Lon >= b.Min.Lon && p.Lon <= b.Max.Lon && p.Lat >= b.Min.Lat && p.Lat <= b.Max.Lat
}

func (b Bounds) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", b.Min.Lon, b.Min.Lat, b.Max.Lon, b.Max.Lat)
}
