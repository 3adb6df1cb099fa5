package diagram

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram/styles"
)

// Surface is the placement target handed to [Element.Place]. It collects the
// element tree markup, shared definitions, the popup layer and the
// connections elements register while they are being placed.
type Surface struct {
	format   Format
	style    styles.Style
	channels *Registry

	body   bytes.Buffer
	defs   bytes.Buffer
	popups bytes.Buffer
	defIDs map[string]bool

	placements []Placement
	adopted    []Element
}

// NewSurface returns an empty surface. Diagram.Render creates one per render;
// tests use it to place elements directly.
func NewSurface(f Format, style styles.Style, channels *Registry) *Surface {
	if channels == nil {
		channels = NewRegistry()
	}
	return &Surface{
		format:   f,
		style:    style,
		channels: channels,
		defIDs:   make(map[string]bool),
	}
}

// Format returns the output format being rendered.
func (s *Surface) Format() Format { return s.format }

// Style returns the diagram default style.
func (s *Surface) Style() styles.Style { return s.style }

// Write appends raw markup to the element tree, so a Surface can be used with
// fmt.Fprintf.
func (s *Surface) Write(p []byte) (int, error) { return s.body.Write(p) }

// Printf appends formatted markup to the element tree.
func (s *Surface) Printf(format string, args ...any) {
	fmt.Fprintf(&s.body, format, args...)
}

// Buffer exposes the element tree buffer for helpers that take a
// *bytes.Buffer, such as [styles.WrapURL].
func (s *Surface) Buffer() *bytes.Buffer { return &s.body }

// Def adds a definition fragment (clip path, gradient, marker) under id.
// Fragments with an id already defined are ignored; the return value reports
// whether the fragment was added.
func (s *Surface) Def(id, fragment string) bool {
	if s.defIDs[id] {
		return false
	}
	s.defIDs[id] = true
	s.defs.WriteString(fragment)
	if n := len(fragment); n == 0 || fragment[n-1] != '\n' {
		s.defs.WriteByte('\n')
	}
	return true
}

// Popup appends markup to the always-on-top popup layer. Popups are drawn
// after the whole element tree so later elements never occlude them.
func (s *Surface) Popup(format string, args ...any) {
	fmt.Fprintf(&s.popups, format, args...)
}

// Group wraps the markup written by fn in a <g> element.
func (s *Surface) Group(attrs string, fn func() error) error {
	if attrs != "" {
		s.Printf("<g %s>\n", attrs)
	} else {
		s.body.WriteString("<g>\n")
	}
	if err := fn(); err != nil {
		return err
	}
	s.body.WriteString("</g>\n")
	return nil
}

// Connect registers a connection discovered during placement.
func (s *Surface) Connect(source Element, output string, dest Element, input string) {
	s.channels.Add(Connection{Source: source, Output: output, Dest: dest, Input: input})
}

// Record notes where el was placed. Every element should record itself once
// from Place; the records feed the JSON layout export.
func (s *Surface) Record(el Element, cx, cy float64) {
	s.placements = append(s.placements, Placement{
		ID:     el.ID(),
		Kind:   KindOf(el),
		CX:     cx,
		CY:     cy,
		Width:  el.Width(),
		Height: el.Height(),
	})
}

// Adopt adds el to the live element set without it being part of the
// container tree, for elements synthesized during placement.
func (s *Surface) Adopt(el Element) {
	s.adopted = append(s.adopted, el)
}

// Placements returns the placement records in placement order.
func (s *Surface) Placements() []Placement { return s.placements }

// Markup returns the element tree markup written so far.
func (s *Surface) Markup() string { return s.body.String() }

// PopupMarkup returns the popup layer written so far.
func (s *Surface) PopupMarkup() string { return s.popups.String() }

// Defs returns the definitions written so far.
func (s *Surface) Defs() string { return s.defs.String() }
