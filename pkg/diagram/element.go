package diagram

import (
	"fmt"
	"strings"

	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Element is the contract every visual node honors, leaf or container.
type Element interface {
	// ID returns the process-unique identifier assigned at construction.
	ID() string
	// Justification controls where the element sits inside slack space on
	// the cross axis of its owning container.
	Justification() Justification
	// Measure computes and caches the element's extent. It is idempotent and
	// must report zero extent for empty inputs rather than fail.
	Measure(f Format) error
	// Width and Height are valid once Measure has returned nil.
	Width() float64
	Height() float64
	// Place writes the element's markup into s so that its bounding box is
	// centered on (cx, cy).
	Place(s *Surface, cx, cy float64) error
}

// Container is an element that owns and positions child elements.
type Container interface {
	Element
	Children() []Element
}

// Configurer is implemented by elements with a configure phase. Configure
// runs top-down over the whole tree before any measurement.
type Configurer interface {
	Configure(f Format) error
}

// StyleInheritor is implemented by text-bearing elements. The diagram hands
// them its default style during the configure phase, before measurement.
type StyleInheritor interface {
	InheritStyle(s styles.Style)
}

// ValueEnumerator is implemented by elements whose input accepts one of a
// discrete set of values. Controllers connected to such an input learn the
// set while bindings are resolved.
type ValueEnumerator interface {
	DiscreteValues(input string) []string
}

// SourceHook lets an element specialize its generated configuration once it
// knows what it publishes to.
type SourceHook interface {
	OnConnectedAsSource(c Connection, dest Element)
}

// DestinationHook lets an element specialize its generated configuration once
// it knows what it subscribes to.
type DestinationHook interface {
	OnConnectedAsDestination(c Connection, source Element)
}

// ClientConfigurer is implemented by elements that need per-instance
// configuration in the generated client code. The map must contain a "kind"
// entry naming a registered behaviour.
type ClientConfigurer interface {
	ClientConfig() map[string]any
}

// Behaviour is implemented by elements whose kind needs client-side logic.
// Script is the body of a JavaScript function taking (id, cfg, sp), where sp
// is the dispatch runtime. Each kind is emitted once per document.
type Behaviour interface {
	Behaviour() (kind, script string)
}

// Justification anchors an element inside slack space.
type Justification int

const (
	JustifyNone Justification = iota
	JustifyLeft
	JustifyRight
)

func (j Justification) String() string {
	switch j {
	case JustifyLeft:
		return "left"
	case JustifyRight:
		return "right"
	}
	return "none"
}

// ParseJustification accepts "", "none", "left" and "right", plus the
// axis-neutral aliases "center", "start"/"top" and "end"/"bottom".
func ParseJustification(s string) (Justification, error) {
	switch strings.ToLower(s) {
	case "", "none", "center":
		return JustifyNone, nil
	case "left", "start", "top":
		return JustifyLeft, nil
	case "right", "end", "bottom":
		return JustifyRight, nil
	}
	return JustifyNone, errors.New(errors.ErrCodeInvalidConfig, "invalid justification: %q", s)
}

// Anchor returns the center coordinate of an item of the given size placed
// in the span [lo, hi]. Left-justified items anchor to lo, right-justified to
// hi, everything else is centered.
func Anchor(j Justification, lo, hi, size float64) float64 {
	switch j {
	case JustifyLeft:
		return lo + size/2
	case JustifyRight:
		return hi - size/2
	}
	return (lo + hi) / 2
}

// Base implements the bookkeeping shared by all elements: identifier,
// justification, ownership and the measured-extent cache. Embed it by value.
type Base struct {
	id            string
	justification Justification
	owner         string
	width, height float64
	measured      bool
}

// NewBase returns a Base carrying a fresh identifier.
func NewBase() Base {
	return Base{id: NextID()}
}

func (b *Base) ID() string                       { return b.id }
func (b *Base) Justification() Justification     { return b.justification }
func (b *Base) SetJustification(j Justification) { b.justification = j }
func (b *Base) Width() float64                   { return b.width }
func (b *Base) Height() float64                  { return b.height }

// Measured reports whether the extent has been computed.
func (b *Base) Measured() bool { return b.measured }

// MeasureOnce runs fn the first time it is called and caches the extent it
// returns. Later calls are no-ops, which keeps measurement idempotent and the
// extent immutable for the rest of the render. A failing fn leaves the
// element unmeasured.
func (b *Base) MeasureOnce(fn func() (w, h float64, err error)) error {
	if b.measured {
		return nil
	}
	w, h, err := fn()
	if err != nil {
		return err
	}
	b.width, b.height, b.measured = max(0, w), max(0, h), true
	return nil
}

// CheckMeasured fails fast when placement is attempted before measurement.
func (b *Base) CheckMeasured() error {
	if !b.measured {
		return errors.New(errors.ErrCodeLifecycle, "element %s placed before it was measured", b.id)
	}
	return nil
}

func (b *Base) claim(owner string) error {
	if b.owner != "" && b.owner != owner {
		return errors.New(errors.ErrCodeInvalidConfig, "element %s already belongs to %s", b.id, b.owner)
	}
	b.owner = owner
	return nil
}

func (b *Base) release(owner string) {
	if b.owner == owner {
		b.owner = ""
	}
}

type ownable interface {
	claim(owner string) error
	release(owner string)
}

// Claim records owner as the exclusive owner of child. Elements that do not
// embed [Base] are not tracked.
func Claim(child Element, owner string) error {
	if child == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "cannot add nil element to %s", owner)
	}
	if o, ok := child.(ownable); ok {
		return o.claim(owner)
	}
	return nil
}

// Release drops owner's claim on child so it can be added elsewhere.
func Release(child Element, owner string) {
	if o, ok := child.(ownable); ok {
		o.release(owner)
	}
}

// Walk visits el and every descendant depth-first, parents before children.
func Walk(el Element, fn func(Element) error) error {
	if err := fn(el); err != nil {
		return err
	}
	if c, ok := el.(Container); ok {
		for _, child := range c.Children() {
			if err := Walk(child, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// KindOf returns a short lowercase name for el's concrete type, or the value
// of its Kind method when it has one.
func KindOf(el Element) string {
	if k, ok := el.(interface{ Kind() string }); ok {
		return k.Kind()
	}
	name := fmt.Sprintf("%T", el)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(strings.TrimPrefix(name, "*"))
}
