package spec

import (
	"slices"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// Element kinds.
const (
	KindRect        = "rect"
	KindText        = "text"
	KindButton      = "button"
	KindButtonGrid  = "buttongrid"
	KindSlider      = "slider"
	KindPanZoom     = "panzoom"
	KindLegend      = "legend"
	KindBox         = "box"
	KindSequence    = "sequence"
	KindGrid        = "grid"
	KindAlternative = "alternative"
	KindMap         = "map"
	KindPoints      = "points"
	KindCompass     = "compass"
)

var (
	containerKinds = []string{KindBox, KindSequence, KindGrid, KindAlternative, KindMap}
	layerKinds     = []string{KindPoints, KindCompass}
	leafKinds      = []string{KindRect, KindText, KindButton, KindButtonGrid, KindSlider, KindPanZoom, KindLegend}
)

// Kinds returns every element kind a description may use.
func Kinds() []string {
	out := slices.Concat(leafKinds, containerKinds, layerKinds)
	slices.Sort(out)
	return out
}

// IsContainer reports whether kind accepts children.
func IsContainer(kind string) bool { return slices.Contains(containerKinds, kind) }

// Validate checks the description for structural errors: unknown kinds,
// duplicate names, missing or unsuitable parents, parent cycles and
// connections naming unknown elements. It does not check values a
// constructor validates, such as negative extents.
func (f *File) Validate() error {
	byName := make(map[string]Element, len(f.Elements))
	for _, e := range f.Elements {
		if err := errors.ValidateElementName(e.Name); err != nil {
			return err
		}
		if _, dup := byName[e.Name]; dup {
			return errors.New(errors.ErrCodeInvalidSpec, "duplicate element name %q", e.Name)
		}
		if !slices.Contains(Kinds(), e.Kind) {
			return errors.New(errors.ErrCodeInvalidSpec, "element %q: unknown kind %q", e.Name, e.Kind)
		}
		if len(e.Bounds) != 0 && len(e.Bounds) != 4 {
			return errors.New(errors.ErrCodeInvalidSpec, "element %q: bounds needs 4 values, got %d", e.Name, len(e.Bounds))
		}
		byName[e.Name] = e
	}

	boxChildren := make(map[string]int)
	for _, e := range f.Elements {
		isLayer := slices.Contains(layerKinds, e.Kind)
		if e.Parent == "" {
			if isLayer {
				return errors.New(errors.ErrCodeInvalidSpec, "element %q: %s layers need a map parent", e.Name, e.Kind)
			}
			continue
		}
		parent, ok := byName[e.Parent]
		if !ok {
			return errors.New(errors.ErrCodeInvalidSpec, "element %q: unknown parent %q", e.Name, e.Parent)
		}
		if !IsContainer(parent.Kind) {
			return errors.New(errors.ErrCodeInvalidSpec, "element %q: parent %q is a %s, not a container", e.Name, e.Parent, parent.Kind)
		}
		if (parent.Kind == KindMap) != isLayer {
			return errors.New(errors.ErrCodeInvalidSpec, "element %q: a %s cannot be placed in a %s", e.Name, e.Kind, parent.Kind)
		}
		if parent.Kind == KindBox {
			boxChildren[parent.Name]++
			if boxChildren[parent.Name] > 1 {
				return errors.New(errors.ErrCodeInvalidSpec, "box %q holds more than one child", parent.Name)
			}
		}
	}
	for _, e := range f.Elements {
		if e.Kind == KindBox && boxChildren[e.Name] == 0 {
			return errors.New(errors.ErrCodeInvalidSpec, "box %q has no child", e.Name)
		}
		if err := checkAncestry(e, byName); err != nil {
			return err
		}
	}

	for i, c := range f.Connections {
		for _, name := range []string{c.From, c.To} {
			if _, ok := byName[name]; !ok {
				return errors.New(errors.ErrCodeInvalidSpec, "connection %d: unknown element %q", i+1, name)
			}
		}
		if err := errors.ValidateChannelName(c.Output); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSpec, err, "connection %d", i+1)
		}
		if err := errors.ValidateChannelName(c.Input); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSpec, err, "connection %d", i+1)
		}
	}
	return nil
}

func checkAncestry(e Element, byName map[string]Element) error {
	seen := map[string]bool{e.Name: true}
	for p := e.Parent; p != ""; p = byName[p].Parent {
		if seen[p] {
			return errors.New(errors.ErrCodeInvalidSpec, "element %q is its own ancestor", e.Name)
		}
		seen[p] = true
	}
	return nil
}
