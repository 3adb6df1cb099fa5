package controls

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

const (
	// PanStep is the fraction of the visible window one pan click moves.
	PanStep = 0.25
	// ZoomStep is the factor one zoom click scales by.
	ZoomStep = 1.5
)

// PanZoom is a small pad of arrow and zoom buttons publishing
// [diagram.Pan] on "pan" and [diagram.Zoom] on "zoom". Connect both to a
// zoom-enabled map.
type PanZoom struct {
	diagram.Base
	cell float64
}

type padKey struct {
	name     string
	row, col int
	glyph    string
}

var padKeys = []padKey{
	{"up", 0, 1, "▲"},
	{"left", 1, 0, "◀"},
	{"right", 1, 2, "▶"},
	{"down", 2, 1, "▼"},
	{"in", 0, 3, "+"},
	{"out", 2, 3, "−"},
}

// NewPanZoom returns a pad whose buttons are cell units square; zero uses 20.
func NewPanZoom(cell float64) (*PanZoom, error) {
	if cell == 0 {
		cell = 20
	}
	if err := errors.ValidateExtent("cell", cell); err != nil {
		return nil, err
	}
	return &PanZoom{Base: diagram.NewBase(), cell: cell}, nil
}

// Measure implements diagram.Element.
func (p *PanZoom) Measure(diagram.Format) error {
	return p.MeasureOnce(func() (float64, float64, error) { return 4 * p.cell, 3 * p.cell, nil })
}

// Place implements diagram.Element.
func (p *PanZoom) Place(s *diagram.Surface, cx, cy float64) error {
	if err := p.CheckMeasured(); err != nil {
		return err
	}
	s.Record(p, cx, cy)
	left, top := cx-p.Width()/2, cy-p.Height()/2
	stroke := styles.EscapeXML(s.Style().Stroke)
	return s.Group(fmt.Sprintf(`id="%s" class="sp-control sp-panzoom"`, p.ID()), func() error {
		for _, k := range padKeys {
			x, y := left+float64(k.col)*p.cell, top+float64(k.row)*p.cell
			s.Printf(`<g id="%s-%s"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="#f4f4f4" stroke="%s"/>`+
				`<text class="sp-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text></g>`+"\n",
				p.ID(), k.name, x+1, y+1, p.cell-2, p.cell-2, stroke, x+p.cell/2, y+p.cell/2, k.glyph)
		}
		return nil
	})
}

// ClientConfig implements diagram.ClientConfigurer.
func (p *PanZoom) ClientConfig() map[string]any {
	return map[string]any{"kind": "panzoom", "step": PanStep, "factor": ZoomStep}
}

// Behaviour implements diagram.Behaviour.
func (p *PanZoom) Behaviour() (string, string) {
	return "panzoom", panZoomJS
}

const panZoomJS = `
      var moves = { up: [0, -1], down: [0, 1], left: [-1, 0], right: [1, 0] };
      Object.keys(moves).forEach(function (k) {
        sp.node(id + '-' + k).addEventListener('click', function () {
          sp.publish(id, 'pan', { dx: moves[k][0] * cfg.step, dy: moves[k][1] * cfg.step });
        });
      });
      sp.node(id + '-in').addEventListener('click', function () { sp.publish(id, 'zoom', { factor: cfg.factor }); });
      sp.node(id + '-out').addEventListener('click', function () { sp.publish(id, 'zoom', { factor: 1 / cfg.factor }); });`
