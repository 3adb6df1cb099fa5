package layout

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
)

// Box wraps exactly one child with margin, border and padding.
//
//	+-------------------- margin --------------------+
//	|  +----------------- border -----------------+  |
//	|  |  +-------------- padding -------------+  |  |
//	|  |  |               child                |  |  |
type Box struct {
	diagram.Base
	child diagram.Element
	s     settings
}

// NewBox wraps child. Negative insets and a child that already has an owner
// are configuration errors.
func NewBox(child diagram.Element, opts ...Option) (*Box, error) {
	s, err := apply(opts)
	if err != nil {
		return nil, err
	}
	b := &Box{Base: diagram.NewBase(), child: child, s: s}
	if err := diagram.Claim(child, b.ID()); err != nil {
		return nil, err
	}
	return b, nil
}

// Child returns the wrapped element.
func (b *Box) Child() diagram.Element { return b.child }

// Children implements diagram.Container.
func (b *Box) Children() []diagram.Element { return []diagram.Element{b.child} }

func (b *Box) insets() Insets {
	m, p, bw := b.s.margin, b.s.padding, b.s.border
	return Insets{
		Top:    m.Top + bw + p.Top,
		Right:  m.Right + bw + p.Right,
		Bottom: m.Bottom + bw + p.Bottom,
		Left:   m.Left + bw + p.Left,
	}
}

// Measure is the child extent plus the fixed insets.
func (b *Box) Measure(f diagram.Format) error {
	return b.MeasureOnce(func() (float64, float64, error) {
		if err := b.child.Measure(f); err != nil {
			return 0, 0, fmt.Errorf("box %s: %w", b.ID(), err)
		}
		in := b.insets()
		return b.child.Width() + in.Horizontal(), b.child.Height() + in.Vertical(), nil
	})
}

// Place draws the optional background and border, then centers the child in
// the padded region.
func (b *Box) Place(s *diagram.Surface, cx, cy float64) error {
	if err := b.CheckMeasured(); err != nil {
		return err
	}
	s.Record(b, cx, cy)

	left, top := cx-b.Width()/2, cy-b.Height()/2
	m, bw := b.s.margin, b.s.border

	// The border is stroked along its own center line, so the shape spans
	// the padded region plus half the border width on every side.
	x := left + m.Left + bw/2
	y := top + m.Top + bw/2
	w := b.Width() - m.Horizontal() - bw
	h := b.Height() - m.Vertical() - bw

	return s.Group(fmt.Sprintf(`id="%s" class="sp-box"`, b.ID()), func() error {
		if b.s.fill != "" || bw > 0 {
			fill := "none"
			if b.s.fill != "" {
				fill = styles.EscapeXML(b.s.fill)
			}
			stroke := "none"
			if bw > 0 {
				stroke = b.s.stroke
				if stroke == "" {
					stroke = s.Style().Stroke
				}
				stroke = styles.EscapeXML(stroke)
			}
			s.Printf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
				x, y, max(0, w), max(0, h), fill, stroke, bw)
		}

		in := b.insets()
		childCX := left + in.Left + (b.Width()-in.Horizontal())/2
		childCY := top + in.Top + (b.Height()-in.Vertical())/2
		if err := b.child.Place(s, childCX, childCY); err != nil {
			return fmt.Errorf("box %s: %w", b.ID(), err)
		}
		return nil
	})
}
