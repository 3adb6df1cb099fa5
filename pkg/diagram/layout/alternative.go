package layout

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Alternative holds several children of which one is visible at a time.
// Every child is measured and placed, each in its own group; the container
// reserves the extent of its largest child so switching never reflows the
// document. The visible child is chosen client-side through the "show"
// input, which takes a [diagram.VisibilityToggle] or a bare index.
type Alternative struct {
	diagram.Base
	children []diagram.Element
	selected int
	err      error
}

// NewAlternative returns an empty alternative showing its first child.
func NewAlternative() *Alternative {
	return &Alternative{Base: diagram.NewBase()}
}

// Add appends child and returns the alternative for chaining.
func (a *Alternative) Add(child diagram.Element) *Alternative {
	if err := diagram.Claim(child, a.ID()); err != nil {
		if a.err == nil {
			a.err = err
		}
		return a
	}
	a.children = append(a.children, child)
	return a
}

// Select sets the child visible when the document loads.
func (a *Alternative) Select(i int) *Alternative {
	if i < 0 || (len(a.children) > 0 && i >= len(a.children)) {
		if a.err == nil {
			a.err = errors.New(errors.ErrCodeInvalidConfig, "alternative %s: no child %d", a.ID(), i)
		}
		return a
	}
	a.selected = i
	return a
}

// Selected returns the index of the initially visible child.
func (a *Alternative) Selected() int { return a.selected }

// Children implements diagram.Container.
func (a *Alternative) Children() []diagram.Element { return slices.Clone(a.children) }

// ShowInput is the synthetic input selecting the visible child.
func (a *Alternative) ShowInput() diagram.Channel[diagram.VisibilityToggle] {
	return diagram.VisibilityChannel
}

// SelectWith connects selector's output to the show input.
func (a *Alternative) SelectWith(d *diagram.Diagram, selector diagram.Element, output diagram.Channel[diagram.VisibilityToggle]) error {
	return diagram.ConnectTyped(d, selector, output, a, a.ShowInput())
}

// DiscreteValues implements diagram.ValueEnumerator: the show input accepts
// one value per child, labelled from one.
func (a *Alternative) DiscreteValues(input string) []string {
	if input != diagram.VisibilityChannel.Name {
		return nil
	}
	out := make([]string, len(a.children))
	for i := range a.children {
		out[i] = strconv.Itoa(i + 1)
	}
	return out
}

// Measure reserves the largest width and the largest height of any child.
func (a *Alternative) Measure(f diagram.Format) error {
	if a.err != nil {
		return a.err
	}
	if a.selected >= len(a.children) && len(a.children) > 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "alternative %s: no child %d", a.ID(), a.selected)
	}
	return a.MeasureOnce(func() (float64, float64, error) {
		var w, h float64
		for _, c := range a.children {
			if err := c.Measure(f); err != nil {
				return 0, 0, fmt.Errorf("alternative %s: %w", a.ID(), err)
			}
			w, h = max(w, c.Width()), max(h, c.Height())
		}
		return w, h, nil
	})
}

func (a *Alternative) groupID(i int) string { return fmt.Sprintf("%s-%d", a.ID(), i) }

// Place emits every child into its own group. Only the selected group is
// displayed; the others carry display="none", which nested groups cannot
// override, until the show input selects them.
func (a *Alternative) Place(s *diagram.Surface, cx, cy float64) error {
	if err := a.CheckMeasured(); err != nil {
		return err
	}
	s.Record(a, cx, cy)

	left, right := cx-a.Width()/2, cx+a.Width()/2
	return s.Group(fmt.Sprintf(`id="%s" class="sp-alternative"`, a.ID()), func() error {
		for i, c := range a.children {
			display := "none"
			if i == a.selected {
				display = "inline"
			}
			attrs := fmt.Sprintf(`id="%s" data-alt="%s" data-index="%d" display="%s"`,
				a.groupID(i), a.ID(), i, display)
			err := s.Group(attrs, func() error {
				return c.Place(s, diagram.Anchor(c.Justification(), left, right, c.Width()), cy)
			})
			if err != nil {
				return fmt.Errorf("alternative %s: %w", a.ID(), err)
			}
		}
		return nil
	})
}

// ClientConfig implements diagram.ClientConfigurer.
func (a *Alternative) ClientConfig() map[string]any {
	return map[string]any{
		"kind":     "alternative",
		"count":    len(a.children),
		"selected": a.selected,
	}
}

// Behaviour implements diagram.Behaviour.
func (a *Alternative) Behaviour() (string, string) {
	return "alternative", alternativeJS
}

const alternativeJS = `
      sp.subscribe(id, 'show', function (v) {
        var idx = (v !== null && typeof v === 'object') ? v.index : Number(v);
        if (!(idx >= 0 && idx < cfg.count)) { return; }
        for (var i = 0; i < cfg.count; i++) {
          var g = sp.node(id + '-' + i);
          if (g) { g.setAttribute('display', i === idx ? 'inline' : 'none'); }
        }
      });`
