package layout

import (
	"fmt"
	"slices"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Sequence lays out an ordered list of children along one axis.
//
// Along the primary axis the extent is the sum of the child extents plus the
// spacing between them; along the cross axis it is the widest child. A fixed
// allotted extent replaces the computed one and must be large enough for the
// children.
type Sequence struct {
	diagram.Base
	orientation Orientation
	children    []diagram.Element
	s           settings
	err         error
}

// NewSequence returns an empty sequence. Invalid options are configuration
// errors.
func NewSequence(o Orientation, opts ...Option) (*Sequence, error) {
	s, err := apply(opts)
	if err != nil {
		return nil, err
	}
	return &Sequence{Base: diagram.NewBase(), orientation: o, s: s}, nil
}

// Add appends child and returns the sequence for chaining.
func (q *Sequence) Add(child diagram.Element) *Sequence {
	if err := diagram.Claim(child, q.ID()); err != nil {
		if q.err == nil {
			q.err = err
		}
		return q
	}
	q.children = append(q.children, child)
	return q
}

// Orientation returns the primary axis.
func (q *Sequence) Orientation() Orientation { return q.orientation }

// Children implements diagram.Container.
func (q *Sequence) Children() []diagram.Element { return slices.Clone(q.children) }

// along returns the primary and cross extent of el.
func (q *Sequence) along(el diagram.Element) (primary, cross float64) {
	if q.orientation == Horizontal {
		return el.Width(), el.Height()
	}
	return el.Height(), el.Width()
}

func (q *Sequence) fixed() (primary, cross float64) {
	if q.orientation == Horizontal {
		return q.s.fixedW, q.s.fixedH
	}
	return q.s.fixedH, q.s.fixedW
}

// Measure measures every child, then sums along the primary axis and maxes
// across. The first failing child aborts the measurement.
func (q *Sequence) Measure(f diagram.Format) error {
	if q.err != nil {
		return q.err
	}
	return q.MeasureOnce(func() (float64, float64, error) {
		var primary, cross float64
		for i, c := range q.children {
			if err := c.Measure(f); err != nil {
				return 0, 0, fmt.Errorf("sequence %s: %w", q.ID(), err)
			}
			p, x := q.along(c)
			primary += p
			if i > 0 {
				primary += q.s.spacing
			}
			cross = max(cross, x)
		}

		fixedP, fixedX := q.fixed()
		if fixedP > 0 {
			if primary > fixedP {
				return 0, 0, errors.New(errors.ErrCodeLayout,
					"sequence %s: children need %.1f along the %s axis, only %.1f allotted",
					q.ID(), primary, q.orientation, fixedP)
			}
			primary = fixedP
		}
		if fixedX > 0 {
			if cross > fixedX {
				return 0, 0, errors.New(errors.ErrCodeLayout,
					"sequence %s: widest child needs %.1f across, only %.1f allotted",
					q.ID(), cross, fixedX)
			}
			cross = fixedX
		}

		if q.orientation == Horizontal {
			return primary, cross, nil
		}
		return cross, primary, nil
	})
}

// content returns the primary extent the children occupy, which is less
// than the measured extent when a larger fixed extent was allotted.
func (q *Sequence) content() float64 {
	var total float64
	for i, c := range q.children {
		p, _ := q.along(c)
		total += p
		if i > 0 {
			total += q.s.spacing
		}
	}
	return total
}

// Place walks the children in order. Each child is advanced by its own
// extent plus the spacing; across, it is anchored by its justification.
func (q *Sequence) Place(s *diagram.Surface, cx, cy float64) error {
	if err := q.CheckMeasured(); err != nil {
		return err
	}
	s.Record(q, cx, cy)

	return s.Group(fmt.Sprintf(`id="%s" class="sp-sequence"`, q.ID()), func() error {
		if q.orientation == Horizontal {
			x := cx - q.content()/2
			top, bottom := cy-q.Height()/2, cy+q.Height()/2
			for _, c := range q.children {
				childCY := diagram.Anchor(c.Justification(), top, bottom, c.Height())
				if err := c.Place(s, x+c.Width()/2, childCY); err != nil {
					return fmt.Errorf("sequence %s: %w", q.ID(), err)
				}
				x += c.Width() + q.s.spacing
			}
			return nil
		}

		y := cy - q.content()/2
		left, right := cx-q.Width()/2, cx+q.Width()/2
		for _, c := range q.children {
			childCX := diagram.Anchor(c.Justification(), left, right, c.Width())
			if err := c.Place(s, childCX, y+c.Height()/2); err != nil {
				return fmt.Errorf("sequence %s: %w", q.ID(), err)
			}
			y += c.Height() + q.s.spacing
		}
		return nil
	})
}
