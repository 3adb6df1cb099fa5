package controls

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
)

// ClickChannel is published by buttons and button grids. The payload
// carries the index of the clicked button.
var ClickChannel = diagram.Channel[diagram.VisibilityToggle]{Name: "click"}

const (
	buttonPadX = 8.0
	buttonPadY = 4.0
)

// Button is a labelled push button publishing its index on "click".
type Button struct {
	diagram.Base
	label string
	index int
	style styles.Style
}

// NewButton returns a button publishing index when clicked.
func NewButton(label string, index int) *Button {
	return &Button{Base: diagram.NewBase(), label: label, index: index, style: styles.Default()}
}

// Label returns the button label.
func (b *Button) Label() string { return b.label }

// Index returns the index published on click.
func (b *Button) Index() int { return b.index }

// InheritStyle implements diagram.StyleInheritor.
func (b *Button) InheritStyle(s styles.Style) { b.style = s }

// Measure implements diagram.Element.
func (b *Button) Measure(diagram.Format) error {
	return b.MeasureOnce(func() (float64, float64, error) {
		w, h := styles.TextExtent(b.label, b.style.FontSize)
		return w + 2*buttonPadX, max(h, b.style.FontSize) + 2*buttonPadY, nil
	})
}

// Place implements diagram.Element.
func (b *Button) Place(s *diagram.Surface, cx, cy float64) error {
	if err := b.CheckMeasured(); err != nil {
		return err
	}
	s.Record(b, cx, cy)
	return s.Group(fmt.Sprintf(`id="%s" class="sp-control sp-button"`, b.ID()), func() error {
		s.Printf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="#f4f4f4" stroke="%s"/>`+"\n",
			cx-b.Width()/2, cy-b.Height()/2, b.Width(), b.Height(), styles.EscapeXML(s.Style().Stroke))
		s.Printf(`<text class="sp-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle">%s</text>`+"\n",
			cx, cy, styles.EscapeXML(b.label))
		return nil
	})
}

// ClientConfig implements diagram.ClientConfigurer.
func (b *Button) ClientConfig() map[string]any {
	return map[string]any{"kind": "button", "index": b.index}
}

// Behaviour implements diagram.Behaviour.
func (b *Button) Behaviour() (string, string) {
	return "button", buttonJS
}

const buttonJS = `
      sp.node(id).addEventListener('click', function () {
        sp.publish(id, 'click', { index: cfg.index });
      });`
