package spec

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/controls"
	"github.com/matzehuels/stackplot/pkg/diagram/geo"
	"github.com/matzehuels/stackplot/pkg/diagram/layout"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Built is the element graph of one description.
type Built struct {
	Diagram *diagram.Diagram

	byName map[string]diagram.Element
	names  map[string]string
}

// Lookup returns the element built for name.
func (b *Built) Lookup(name string) (diagram.Element, bool) {
	el, ok := b.byName[name]
	return el, ok
}

// NameOf returns the description name of the element with the given id,
// or the id itself for elements created during placement.
func (b *Built) NameOf(id string) string {
	if n, ok := b.names[id]; ok {
		return n
	}
	return id
}

type builder struct {
	f        *File
	children map[string][]Element
	built    *Built
}

// Build constructs a fresh element graph for f. opts are applied after the
// document settings of f, so callers may attach a logger or override them.
func Build(f *File, opts ...diagram.Option) (*Built, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var dopts []diagram.Option
	if f.Diagram.Title != "" {
		dopts = append(dopts, diagram.WithTitle(f.Diagram.Title))
	}
	if f.Diagram.Margin != nil {
		dopts = append(dopts, diagram.WithMargin(*f.Diagram.Margin))
	}
	if f.Diagram.Spacing != nil {
		dopts = append(dopts, diagram.WithSpacing(*f.Diagram.Spacing))
	}
	dopts = append(dopts, diagram.WithStyle(f.Diagram.Style))

	b := &builder{
		f:        f,
		children: make(map[string][]Element),
		built: &Built{
			Diagram: diagram.New(append(dopts, opts...)...),
			byName:  make(map[string]diagram.Element, len(f.Elements)),
			names:   make(map[string]string, len(f.Elements)),
		},
	}
	for _, e := range f.Elements {
		if e.Parent != "" {
			b.children[e.Parent] = append(b.children[e.Parent], e)
		}
	}

	for _, e := range f.Elements {
		if e.Parent != "" {
			continue
		}
		el, err := b.element(e)
		if err != nil {
			return nil, err
		}
		b.built.Diagram.Add(el)
	}

	for i, c := range f.Connections {
		src, dst := b.built.byName[c.From], b.built.byName[c.To]
		if err := b.built.Diagram.Connect(src, c.Output, dst, c.Input); err != nil {
			return nil, fmt.Errorf("connection %d: %w", i+1, err)
		}
	}
	return b.built, nil
}

// element constructs e and, recursively, its children.
func (b *builder) element(e Element) (diagram.Element, error) {
	el, err := b.construct(e)
	if err != nil {
		return nil, fmt.Errorf("element %q: %w", e.Name, err)
	}
	if e.Justify != "" {
		j, err := diagram.ParseJustification(e.Justify)
		if err != nil {
			return nil, fmt.Errorf("element %q: %w", e.Name, err)
		}
		if js, ok := el.(interface{ SetJustification(diagram.Justification) }); ok {
			js.SetJustification(j)
		}
	}
	b.built.byName[e.Name] = el
	b.built.names[el.ID()] = e.Name
	return el, nil
}

func (b *builder) construct(e Element) (diagram.Element, error) {
	switch e.Kind {
	case KindRect:
		return controls.NewRect(e.Width, e.Height, e.Fill)
	case KindText:
		var opts []controls.TextOption
		if e.Style != nil {
			opts = append(opts, controls.WithTextStyle(*e.Style))
		}
		if e.Link != "" {
			opts = append(opts, controls.WithLink(e.Link))
		}
		return controls.NewText(e.Text, opts...)
	case KindButton:
		return controls.NewButton(e.Text, e.Selected), nil
	case KindButtonGrid:
		return b.buttonGrid(e)
	case KindSlider:
		return controls.NewSlider(e.Width, e.Values...)
	case KindPanZoom:
		return controls.NewPanZoom(e.Cell)
	case KindLegend:
		entries := make([]controls.LegendEntry, len(e.Entries))
		for i, le := range e.Entries {
			entries[i] = controls.LegendEntry{Label: le.Label, Colour: le.Colour}
		}
		return controls.NewLegend(entries...), nil
	case KindBox:
		return b.box(e)
	case KindSequence:
		return b.sequence(e)
	case KindGrid:
		return b.grid(e)
	case KindAlternative:
		return b.alternative(e)
	case KindMap:
		return b.geoMap(e)
	case KindPoints:
		features := make([]geo.Feature, len(e.Features))
		for i, f := range e.Features {
			features[i] = geo.Feature{Name: f.Name, At: geo.Point{Lon: f.Lon, Lat: f.Lat}, Colour: f.Colour}
		}
		return geo.NewPoints(features, e.Radius, e.Fill)
	case KindCompass:
		return geo.NewCompass(e.Size), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidSpec, "unknown kind %q", e.Kind)
}

// containerOptions translates the shared container fields.
func containerOptions(e Element) []layout.Option {
	var opts []layout.Option
	if e.Spacing != nil {
		opts = append(opts, layout.WithSpacing(*e.Spacing))
	}
	if e.FixedWidth != 0 {
		opts = append(opts, layout.WithFixedWidth(e.FixedWidth))
	}
	if e.FixedHeight != 0 {
		opts = append(opts, layout.WithFixedHeight(e.FixedHeight))
	}
	if e.CellInsets != 0 {
		opts = append(opts, layout.WithCellInsets(layout.Uniform(e.CellInsets)))
	}
	if e.Margin != 0 {
		opts = append(opts, layout.WithMargin(layout.Uniform(e.Margin)))
	}
	if e.Padding != 0 {
		opts = append(opts, layout.WithPadding(layout.Uniform(e.Padding)))
	}
	if e.Border != 0 || e.BorderColour != "" {
		opts = append(opts, layout.WithBorder(e.Border, e.BorderColour))
	}
	if e.Fill != "" {
		opts = append(opts, layout.WithFill(e.Fill))
	}
	return opts
}

func (b *builder) box(e Element) (diagram.Element, error) {
	child, err := b.element(b.children[e.Name][0])
	if err != nil {
		return nil, err
	}
	return layout.NewBox(child, containerOptions(e)...)
}

func (b *builder) sequence(e Element) (diagram.Element, error) {
	o, err := layout.ParseOrientation(e.Orientation)
	if err != nil {
		return nil, err
	}
	q, err := layout.NewSequence(o, containerOptions(e)...)
	if err != nil {
		return nil, err
	}
	for _, ce := range b.children[e.Name] {
		child, err := b.element(ce)
		if err != nil {
			return nil, err
		}
		q.Add(child)
	}
	return q, nil
}

func (b *builder) grid(e Element) (diagram.Element, error) {
	g, err := layout.NewGrid(containerOptions(e)...)
	if err != nil {
		return nil, err
	}
	for _, ce := range b.children[e.Name] {
		child, err := b.element(ce)
		if err != nil {
			return nil, err
		}
		g.Add(ce.Row, ce.Col, child)
	}
	return g, nil
}

func (b *builder) alternative(e Element) (diagram.Element, error) {
	a := layout.NewAlternative()
	for _, ce := range b.children[e.Name] {
		child, err := b.element(ce)
		if err != nil {
			return nil, err
		}
		a.Add(child)
	}
	return a.Select(e.Selected), nil
}

func (b *builder) buttonGrid(e Element) (diagram.Element, error) {
	cols := e.Columns
	if cols == 0 {
		cols = max(1, len(e.Buttons))
	}
	bg, err := controls.NewButtonGrid(cols)
	if err != nil {
		return nil, err
	}
	for _, label := range e.Buttons {
		bg.AddButton(label)
	}
	return bg, nil
}

func (b *builder) geoMap(e Element) (diagram.Element, error) {
	var opts []geo.MapOption
	if len(e.Bounds) == 4 {
		bounds, err := geo.NewBounds(e.Bounds[0], e.Bounds[1], e.Bounds[2], e.Bounds[3])
		if err != nil {
			return nil, err
		}
		opts = append(opts, geo.WithBounds(bounds))
	}
	if e.Zoom {
		opts = append(opts, geo.WithZoom())
	}
	m, err := geo.NewMap(e.Width, e.Height, opts...)
	if err != nil {
		return nil, err
	}
	for _, ce := range b.children[e.Name] {
		child, err := b.element(ce)
		if err != nil {
			return nil, err
		}
		layer, ok := child.(geo.Layer)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidSpec, "%q is not a map layer", ce.Name)
		}
		if ce.Foreground || ce.Kind == KindCompass {
			m.AddForeground(layer)
		} else {
			m.Add(layer)
		}
	}
	return m, nil
}
