package controls

import (
	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/layout"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// ButtonGrid arranges buttons in rows of a fixed column count and
// republishes every button click on its own "click" output, highlighting
// the clicked button.
type ButtonGrid struct {
	diagram.Base
	grid    *layout.Grid
	columns int
	buttons []*Button
}

// NewButtonGrid returns an empty grid with the given number of columns.
func NewButtonGrid(columns int) (*ButtonGrid, error) {
	if columns <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "button grid needs at least one column, got %d", columns)
	}
	g, err := layout.NewGrid(layout.WithCellInsets(layout.Uniform(2)))
	if err != nil {
		return nil, err
	}
	bg := &ButtonGrid{Base: diagram.NewBase(), columns: columns}
	if err := diagram.Claim(g, bg.ID()); err != nil {
		return nil, err
	}
	bg.grid = g
	return bg, nil
}

// AddButton appends a button labelled label. Its click publishes the
// button's position in the grid.
func (bg *ButtonGrid) AddButton(label string) *ButtonGrid {
	i := len(bg.buttons)
	b := NewButton(label, i)
	bg.buttons = append(bg.buttons, b)
	bg.grid.Add(i/bg.columns, i%bg.columns, b)
	return bg
}

// Buttons returns the buttons in insertion order.
func (bg *ButtonGrid) Buttons() []*Button { return append([]*Button(nil), bg.buttons...) }

// Children implements diagram.Container.
func (bg *ButtonGrid) Children() []diagram.Element { return []diagram.Element{bg.grid} }

// DiscreteValues implements diagram.ValueEnumerator: a button grid driven
// through its click input accepts one value per button.
func (bg *ButtonGrid) DiscreteValues(input string) []string {
	if input != ClickChannel.Name {
		return nil
	}
	out := make([]string, len(bg.buttons))
	for i, b := range bg.buttons {
		out[i] = b.label
	}
	return out
}

// Measure implements diagram.Element.
func (bg *ButtonGrid) Measure(f diagram.Format) error {
	return bg.MeasureOnce(func() (float64, float64, error) {
		if err := bg.grid.Measure(f); err != nil {
			return 0, 0, err
		}
		return bg.grid.Width(), bg.grid.Height(), nil
	})
}

// Place places the buttons and wires each button's click to the grid's own
// click input. The wiring is only possible here, once the buttons are part
// of the placed tree.
func (bg *ButtonGrid) Place(s *diagram.Surface, cx, cy float64) error {
	if err := bg.CheckMeasured(); err != nil {
		return err
	}
	s.Record(bg, cx, cy)
	if err := bg.grid.Place(s, cx, cy); err != nil {
		return err
	}
	for _, b := range bg.buttons {
		s.Connect(b, ClickChannel.Name, bg, ClickChannel.Name)
	}
	return nil
}

// ClientConfig implements diagram.ClientConfigurer.
func (bg *ButtonGrid) ClientConfig() map[string]any {
	ids := make([]string, len(bg.buttons))
	for i, b := range bg.buttons {
		ids[i] = b.ID()
	}
	return map[string]any{"kind": "buttongrid", "buttons": ids}
}

// Behaviour implements diagram.Behaviour.
func (bg *ButtonGrid) Behaviour() (string, string) {
	return "buttongrid", buttonGridJS
}

const buttonGridJS = `
      sp.subscribe(id, 'click', function (v) {
        cfg.buttons.forEach(function (bid, i) {
          var b = sp.node(bid);
          if (b) { b.setAttribute('opacity', (v && v.index === i) ? '1' : '0.6'); }
        });
        sp.publish(id, 'click', v);
      });`
