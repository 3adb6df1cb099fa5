package geo

import (
	"fmt"
	"slices"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Map stacks layers over one shared geographic frame.
//
// The map runs an explicit configure step before measurement: it resolves
// the boundary and hands every layer its [Frame]. Placement then draws the
// background layers clipped to the map, the foreground layers on top, and
// leaves popups to the surface's popup layer.
type Map struct {
	diagram.Base
	width, height float64
	explicit      *Bounds
	projection    Projection
	zoom          bool

	layers     []Layer
	foreground []bool
	err        error

	bounds     Bounds
	configured bool
}

// MapOption configures a Map.
type MapOption func(*Map)

// WithBounds fixes the boundary instead of merging the layers' preferences.
func WithBounds(b Bounds) MapOption { return func(m *Map) { m.explicit = &b } }

// WithProjection replaces the default equirectangular projection.
func WithProjection(p Projection) MapOption { return func(m *Map) { m.projection = p } }

// WithZoom enables the pan and zoom inputs.
func WithZoom() MapOption { return func(m *Map) { m.zoom = true } }

// NewMap returns a map of the given pixel width. A height of zero is derived
// from the resolved boundary's projected aspect ratio.
func NewMap(width, height float64, opts ...MapOption) (*Map, error) {
	if err := errors.ValidateExtent("map width", width); err != nil {
		return nil, err
	}
	if err := errors.ValidateExtent("map height", height); err != nil {
		return nil, err
	}
	m := &Map{
		Base:       diagram.NewBase(),
		width:      width,
		height:     height,
		projection: Equirectangular{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.projection == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "map projection cannot be nil")
	}
	return m, nil
}

// Add appends a background layer and returns the map for chaining.
func (m *Map) Add(l Layer) *Map { return m.add(l, false) }

// AddForeground appends a layer drawn above the clipped background.
func (m *Map) AddForeground(l Layer) *Map { return m.add(l, true) }

func (m *Map) add(l Layer, fg bool) *Map {
	if l == nil {
		if m.err == nil {
			m.err = errors.New(errors.ErrCodeInvalidConfig, "map %s: nil layer", m.ID())
		}
		return m
	}
	if err := diagram.Claim(l, m.ID()); err != nil {
		if m.err == nil {
			m.err = err
		}
		return m
	}
	m.layers = append(m.layers, l)
	m.foreground = append(m.foreground, fg)
	return m
}

// Layers returns the layers in z-order.
func (m *Map) Layers() []Layer { return slices.Clone(m.layers) }

// Children implements diagram.Container.
func (m *Map) Children() []diagram.Element {
	out := make([]diagram.Element, len(m.layers))
	for i, l := range m.layers {
		out[i] = l
	}
	return out
}

// Bounds returns the resolved boundary. Valid after Configure.
func (m *Map) Bounds() Bounds { return m.bounds }

// Zoomable reports whether pan and zoom are enabled.
func (m *Map) Zoomable() bool { return m.zoom }

// MergedBounds merges the preferred boundaries of the layers, without
// margin. It returns false when no layer has a preference.
func (m *Map) MergedBounds() (Bounds, bool) {
	var merged Bounds
	found := false
	for _, l := range m.layers {
		b, ok := l.PreferredBounds()
		if !ok {
			continue
		}
		if !found {
			merged, found = b, true
			continue
		}
		merged = merged.Merge(b)
	}
	return merged, found
}

func (m *Map) resolveBounds() Bounds {
	if m.explicit != nil {
		return *m.explicit
	}
	if b, ok := m.MergedBounds(); ok {
		return b.Expand(DefaultMargin)
	}
	return World()
}

// Configure resolves the boundary and the pixel extent, then configures
// every layer with the shared frame.
func (m *Map) Configure(diagram.Format) error {
	if m.err != nil {
		return m.err
	}
	if m.configured {
		return nil
	}
	m.bounds = m.resolveBounds()
	if m.height == 0 {
		m.height = m.width * m.projection.Aspect(m.bounds)
	}

	frame := Frame{Width: m.width, Height: m.height, Bounds: m.bounds, Projection: m.projection}
	for _, l := range m.layers {
		if err := l.ConfigureLayer(frame); err != nil {
			return fmt.Errorf("map %s: configure layer %s: %w", m.ID(), l.ID(), err)
		}
	}
	m.configured = true
	return nil
}

// Measure measures every layer in the shared frame. A map that was not
// configured yet configures itself first.
func (m *Map) Measure(f diagram.Format) error {
	if err := m.Configure(f); err != nil {
		return err
	}
	return m.MeasureOnce(func() (float64, float64, error) {
		for _, l := range m.layers {
			if err := l.Measure(f); err != nil {
				return 0, 0, fmt.Errorf("map %s: %w", m.ID(), err)
			}
		}
		return m.width, m.height, nil
	})
}

func (m *Map) clipID() string { return m.ID() + "-clip" }

// Place draws the background layers inside a clip path sized to the map,
// then the foreground layers unclipped. With zoom enabled it connects its
// visible window to every zoom-aware layer.
func (m *Map) Place(s *diagram.Surface, cx, cy float64) error {
	if err := m.CheckMeasured(); err != nil {
		return err
	}
	s.Record(m, cx, cy)

	left, top := cx-m.width/2, cy-m.height/2
	s.Def(m.clipID(), fmt.Sprintf(`    <clipPath id="%s"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/></clipPath>`,
		m.clipID(), left, top, m.width, m.height))

	return s.Group(fmt.Sprintf(`id="%s" class="sp-map"`, m.ID()), func() error {
		err := s.Group(fmt.Sprintf(`clip-path="url(#%s)"`, m.clipID()), func() error {
			return m.placeLayers(s, cx, cy, false)
		})
		if err != nil {
			return err
		}
		return m.placeLayers(s, cx, cy, true)
	})
}

func (m *Map) placeLayers(s *diagram.Surface, cx, cy float64, fg bool) error {
	for i, l := range m.layers {
		if m.foreground[i] != fg {
			continue
		}
		if err := l.Place(s, cx, cy); err != nil {
			return fmt.Errorf("map %s: %w", m.ID(), err)
		}
		if za, ok := l.(ZoomAware); ok && m.zoom && za.ZoomAware() {
			s.Connect(m, diagram.WindowChannel.Name, l, diagram.WindowChannel.Name)
		}
	}
	return nil
}

// ClientConfig implements diagram.ClientConfigurer. Maps without zoom need
// no client code.
func (m *Map) ClientConfig() map[string]any {
	if !m.zoom {
		return nil
	}
	return map[string]any{"kind": "map", "width": m.width, "height": m.height}
}

// Behaviour implements diagram.Behaviour. The map keeps the visible window
// in its own pixel space and republishes it after every pan or zoom.
func (m *Map) Behaviour() (string, string) {
	return "map", mapJS
}

const mapJS = `
      var w = { x: 0, y: 0, width: cfg.width, height: cfg.height };
      function clamp(v, lo, hi) { return Math.max(lo, Math.min(hi, v)); }
      function emit() {
        w.x = clamp(w.x, 0, cfg.width - w.width);
        w.y = clamp(w.y, 0, cfg.height - w.height);
        sp.publish(id, 'visible_window', { x: w.x, y: w.y, width: w.width, height: w.height });
      }
      sp.subscribe(id, 'zoom', function (v) {
        var f = (v !== null && typeof v === 'object') ? v.factor : Number(v);
        if (!(f > 0)) { return; }
        var cx = w.x + w.width / 2, cy = w.y + w.height / 2;
        w.width = Math.min(cfg.width, w.width / f);
        w.height = Math.min(cfg.height, w.height / f);
        w.x = cx - w.width / 2;
        w.y = cy - w.height / 2;
        emit();
      });
      sp.subscribe(id, 'pan', function (v) {
        if (v === null || typeof v !== 'object') { return; }
        w.x += (v.dx || 0) * w.width;
        w.y += (v.dy || 0) * w.height;
        emit();
      });`
