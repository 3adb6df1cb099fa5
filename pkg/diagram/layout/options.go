package layout

import (
	"github.com/matzehuels/stackplot/pkg/errors"
)

// DefaultSpacing is the gap between consecutive Sequence children.
const DefaultSpacing = 10.0

// Orientation selects the primary axis of a Sequence.
type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation accepts "vertical" (or "") and "horizontal".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "", "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	}
	return Vertical, errors.New(errors.ErrCodeInvalidConfig, "invalid orientation: %q", s)
}

// Insets are per-side distances.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns insets of v on every side.
func Uniform(v float64) Insets { return Insets{v, v, v, v} }

// Horizontal returns the combined left and right inset.
func (i Insets) Horizontal() float64 { return i.Left + i.Right }

// Vertical returns the combined top and bottom inset.
func (i Insets) Vertical() float64 { return i.Top + i.Bottom }

func (i Insets) validate(name string) error {
	for _, v := range []float64{i.Top, i.Right, i.Bottom, i.Left} {
		if err := errors.ValidateExtent(name, v); err != nil {
			return err
		}
	}
	return nil
}

// settings collects the values every container option may set. Each
// container reads only the fields that apply to it.
type settings struct {
	spacing    float64
	fixedW     float64
	fixedH     float64
	cellInsets Insets
	margin     Insets
	border     float64
	padding    Insets
	fill       string
	stroke     string
}

func defaults() settings {
	return settings{spacing: DefaultSpacing}
}

func apply(opts []Option) (settings, error) {
	s := defaults()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Option configures a container. Invalid values are reported by the
// container constructor.
type Option func(*settings) error

// WithSpacing sets the gap between Sequence children.
func WithSpacing(v float64) Option {
	return func(s *settings) error {
		if err := errors.ValidateExtent("spacing", v); err != nil {
			return err
		}
		s.spacing = v
		return nil
	}
}

// WithFixedWidth allots a fixed width to a Sequence or Grid. Children that
// need more raise a layout error during measurement.
func WithFixedWidth(v float64) Option {
	return func(s *settings) error {
		if err := errors.ValidateExtent("fixed width", v); err != nil {
			return err
		}
		s.fixedW = v
		return nil
	}
}

// WithFixedHeight allots a fixed height to a Sequence or Grid.
func WithFixedHeight(v float64) Option {
	return func(s *settings) error {
		if err := errors.ValidateExtent("fixed height", v); err != nil {
			return err
		}
		s.fixedH = v
		return nil
	}
}

// WithCellInsets pads every occupied Grid cell.
func WithCellInsets(i Insets) Option {
	return func(s *settings) error {
		if err := i.validate("cell inset"); err != nil {
			return err
		}
		s.cellInsets = i
		return nil
	}
}

// WithMargin sets the blank space outside a Box border.
func WithMargin(i Insets) Option {
	return func(s *settings) error {
		if err := i.validate("margin"); err != nil {
			return err
		}
		s.margin = i
		return nil
	}
}

// WithBorder draws a Box border of the given width and colour. An empty
// colour uses the diagram stroke colour.
func WithBorder(width float64, colour string) Option {
	return func(s *settings) error {
		if err := errors.ValidateExtent("border", width); err != nil {
			return err
		}
		s.border, s.stroke = width, colour
		return nil
	}
}

// WithPadding sets the space between a Box border and its child.
func WithPadding(i Insets) Option {
	return func(s *settings) error {
		if err := i.validate("padding"); err != nil {
			return err
		}
		s.padding = i
		return nil
	}
}

// WithFill fills the padded region of a Box before the child is drawn.
func WithFill(colour string) Option {
	return func(s *settings) error {
		s.fill = colour
		return nil
	}
}
