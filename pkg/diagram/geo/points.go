package geo

import (
	"fmt"
	"math"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// DefaultRadius is the marker radius of a Points layer.
const DefaultRadius = 4.0

// Feature is one named location.
type Feature struct {
	Name   string `json:"name" toml:"name" yaml:"name"`
	At     Point  `json:"at" toml:"at" yaml:"at"`
	Colour string `json:"colour,omitempty" toml:"colour" yaml:"colour"`
}

// Points draws a marker per feature. Hovering a marker shows its name in a
// popup; clicking it publishes a [diagram.SliceSelection] on "select".
type Points struct {
	LayerBase
	features []Feature
	radius   float64
	colour   string

	left, top float64
}

// NewPoints returns a layer for features. Non-finite coordinates and a
// negative radius are configuration errors; an empty feature list is fine.
func NewPoints(features []Feature, radius float64, colour string) (*Points, error) {
	for _, f := range features {
		if math.IsNaN(f.At.Lon) || math.IsNaN(f.At.Lat) || math.IsInf(f.At.Lon, 0) || math.IsInf(f.At.Lat, 0) {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "feature %q has non-finite coordinates", f.Name)
		}
	}
	if radius == 0 {
		radius = DefaultRadius
	}
	if err := errors.ValidateExtent("radius", radius); err != nil {
		return nil, err
	}
	return &Points{
		LayerBase: NewLayerBase(),
		features:  append([]Feature(nil), features...),
		radius:    radius,
		colour:    colour,
	}, nil
}

// SelectOutput is the channel clicked markers publish on.
func (p *Points) SelectOutput() diagram.Channel[diagram.SliceSelection] {
	return diagram.Channel[diagram.SliceSelection]{Name: "select"}
}

// Features returns the features in drawing order.
func (p *Points) Features() []Feature { return append([]Feature(nil), p.features...) }

// PreferredBounds is the smallest boundary around every feature.
func (p *Points) PreferredBounds() (Bounds, bool) {
	pts := make([]Point, len(p.features))
	for i, f := range p.features {
		pts[i] = f.At
	}
	return Around(pts)
}

// ZoomAware implements ZoomAware.
func (p *Points) ZoomAware() bool { return true }

// Measure implements diagram.Element.
func (p *Points) Measure(diagram.Format) error { return p.MeasureFrame() }

func (p *Points) markerID(i int) string { return fmt.Sprintf("%s-%d", p.ID(), i) }

// Place draws the markers. Static documents carry the feature names as
// native tooltips, interactive ones as popups.
func (p *Points) Place(s *diagram.Surface, cx, cy float64) error {
	if err := p.CheckMeasured(); err != nil {
		return err
	}
	s.Record(p, cx, cy)
	p.left, p.top = p.Origin(cx, cy)
	interactive := s.Format().Interactive()

	return s.Group(fmt.Sprintf(`id="%s" class="sp-points"`, p.ID()), func() error {
		return s.Group(fmt.Sprintf(`id="%s-view"`, p.ID()), func() error {
			for i, f := range p.features {
				x, y := p.Frame().Project(f.At)
				x, y = x+p.left, y+p.top
				colour := f.Colour
				if colour == "" {
					colour = p.colour
				}
				if colour == "" {
					colour = s.Style().Fill
				}

				s.Printf(`<circle id="%s" class="sp-control" cx="%.1f" cy="%.1f" r="%.1f" fill="%s">`,
					p.markerID(i), x, y, p.radius, styles.EscapeXML(colour))
				if !interactive {
					s.Printf("<title>%s</title>", styles.EscapeXML(f.Name))
				}
				s.Printf("</circle>\n")

				if interactive {
					p.popup(s, i, f.Name, x, y)
				}
			}
			return nil
		})
	})
}

func (p *Points) popup(s *diagram.Surface, i int, name string, x, y float64) {
	fontSize := s.Style().FontSize
	w, h := styles.TextExtent(name, fontSize)
	pad := fontSize / 2
	bx, by := x+p.radius, y-p.radius-h-2*pad
	s.Popup(`    <g id="%s-popup" visibility="hidden">`+
		`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="#ffffff" stroke="#888888"/>`+
		`<text class="sp-text" x="%.1f" y="%.1f" dominant-baseline="middle">%s</text></g>`+"\n",
		p.markerID(i), bx, by, w+2*pad, h+2*pad, bx+pad, by+pad+h/2, styles.EscapeXML(name))
}

// ClientConfig implements diagram.ClientConfigurer.
func (p *Points) ClientConfig() map[string]any {
	names := make([]string, len(p.features))
	for i, f := range p.features {
		names[i] = f.Name
	}
	fr := p.Frame()
	return map[string]any{
		"kind":   "points",
		"names":  names,
		"left":   p.left,
		"top":    p.top,
		"width":  fr.Width,
		"height": fr.Height,
	}
}

// Behaviour implements diagram.Behaviour.
func (p *Points) Behaviour() (string, string) {
	return "points", pointsJS
}

const pointsJS = `
      cfg.names.forEach(function (name, i) {
        var marker = sp.node(id + '-' + i), popup = sp.node(id + '-' + i + '-popup');
        if (!marker) { return; }
        marker.addEventListener('mouseover', function () { if (popup) { popup.setAttribute('visibility', 'visible'); } });
        marker.addEventListener('mouseout', function () { if (popup) { popup.setAttribute('visibility', 'hidden'); } });
        marker.addEventListener('click', function () { sp.publish(id, 'select', { index: i, value: name }); });
      });
      sp.subscribe(id, 'visible_window', function (w) {
        if (!w || !(w.width > 0) || !(w.height > 0)) { return; }
        var kx = cfg.width / w.width, ky = cfg.height / w.height;
        var tx = cfg.left - kx * (cfg.left + w.x), ty = cfg.top - ky * (cfg.top + w.y);
        sp.node(id + '-view').setAttribute('transform',
          'translate(' + tx + ',' + ty + ') scale(' + kx + ',' + ky + ')');
      });`
