package controls

import (
	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Rect is a fixed-size filled rectangle. It accepts a "colour" input once
// something is connected to it.
type Rect struct {
	diagram.Base
	w, h   float64
	fill   string
	listen bool
}

// NewRect returns a w by h rectangle. An empty fill uses the diagram fill.
func NewRect(w, h float64, fill string) (*Rect, error) {
	if err := errors.ValidateExtent("width", w); err != nil {
		return nil, err
	}
	if err := errors.ValidateExtent("height", h); err != nil {
		return nil, err
	}
	return &Rect{Base: diagram.NewBase(), w: w, h: h, fill: fill}, nil
}

// Measure implements diagram.Element.
func (r *Rect) Measure(diagram.Format) error {
	return r.MeasureOnce(func() (float64, float64, error) { return r.w, r.h, nil })
}

// Place implements diagram.Element.
func (r *Rect) Place(s *diagram.Surface, cx, cy float64) error {
	if err := r.CheckMeasured(); err != nil {
		return err
	}
	s.Record(r, cx, cy)
	fill := r.fill
	if fill == "" {
		fill = s.Style().Fill
	}
	s.Printf(`<rect id="%s" class="sp-shape" x="%.1f" y="%.1f" width="%.1f" height="%.1f" style="fill: %s"/>`+"\n",
		r.ID(), cx-r.w/2, cy-r.h/2, r.w, r.h, styles.EscapeXML(fill))
	return nil
}

// OnConnectedAsDestination implements diagram.DestinationHook.
func (r *Rect) OnConnectedAsDestination(c diagram.Connection, _ diagram.Element) {
	if c.Input == diagram.ColourChannel.Name {
		r.listen = true
	}
}

// ClientConfig implements diagram.ClientConfigurer. Rectangles nobody
// recolours need no client code.
func (r *Rect) ClientConfig() map[string]any {
	if !r.listen {
		return nil
	}
	return map[string]any{"kind": "rect"}
}

// Behaviour implements diagram.Behaviour.
func (r *Rect) Behaviour() (string, string) {
	return "rect", rectJS
}

const rectJS = `
      sp.subscribe(id, 'colour', function (v) {
        if (v && v.colour) { sp.node(id).style.fill = v.colour; }
      });`
