package geo

import (
	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Layer is an element drawn in a map's shared coordinate space.
type Layer interface {
	diagram.Element
	// PreferredBounds returns the boundary the layer would like to show, and
	// false when it has no preference.
	PreferredBounds() (Bounds, bool)
	// ConfigureLayer hands the layer the shared frame. It runs before the
	// layer is measured.
	ConfigureLayer(f Frame) error
}

// ZoomAware is implemented by layers that follow the map's visible window.
// When zoom is enabled the map connects its "visible_window" output to
// every zoom-aware layer's "visible_window" input.
type ZoomAware interface {
	Layer
	ZoomAware() bool
}

// LayerBase implements the frame bookkeeping shared by layers. A layer
// measures to its frame's extent.
type LayerBase struct {
	diagram.Base
	frame      Frame
	configured bool
}

// NewLayerBase returns a LayerBase carrying a fresh identifier.
func NewLayerBase() LayerBase {
	return LayerBase{Base: diagram.NewBase()}
}

// ConfigureLayer stores the frame.
func (l *LayerBase) ConfigureLayer(f Frame) error {
	l.frame, l.configured = f, true
	return nil
}

// Frame returns the frame handed in by the map.
func (l *LayerBase) Frame() Frame { return l.frame }

// MeasureFrame caches the frame extent as the layer extent.
func (l *LayerBase) MeasureFrame() error {
	if !l.configured {
		return errors.New(errors.ErrCodeLifecycle, "layer %s measured before it was configured by a map", l.ID())
	}
	return l.MeasureOnce(func() (float64, float64, error) {
		return l.frame.Width, l.frame.Height, nil
	})
}

// Origin returns the top-left corner of a frame centered on (cx, cy).
func (l *LayerBase) Origin(cx, cy float64) (x, y float64) {
	return cx - l.frame.Width/2, cy - l.frame.Height/2
}
