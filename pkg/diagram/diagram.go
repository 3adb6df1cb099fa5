package diagram

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

const (
	// DefaultMargin is the blank border around the document content.
	DefaultMargin = 10.0
	// DefaultSpacing separates consecutive top-level elements.
	DefaultSpacing = 20.0
)

// rootOwner is the owner recorded for top-level elements.
const rootOwner = "diagram"

// Option configures a Diagram.
type Option func(*Diagram)

func WithStyle(s styles.Style) Option { return func(d *Diagram) { d.style = styles.Default().Merge(s) } }
func WithLogger(l *log.Logger) Option { return func(d *Diagram) { d.logger = l } }
func WithTitle(t string) Option       { return func(d *Diagram) { d.title = t } }
func WithMargin(m float64) Option     { return func(d *Diagram) { d.margin = m } }
func WithSpacing(s float64) Option    { return func(d *Diagram) { d.spacing = s } }

// Diagram is the root of a render: the top-level elements, the default style
// and every declared connection. A Diagram renders once; build a new graph
// for every render.
type Diagram struct {
	elements []Element
	channels *Registry
	style    styles.Style
	logger   *log.Logger
	title    string
	margin   float64
	spacing  float64
	err      error
	rendered bool
}

// New creates an empty diagram.
func New(opts ...Option) *Diagram {
	d := &Diagram{
		channels: NewRegistry(),
		style:    styles.Default(),
		margin:   DefaultMargin,
		spacing:  DefaultSpacing,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return d
}

// Add appends a top-level element. Top-level elements are stacked
// vertically in insertion order. Adding an element that already has an owner
// is a configuration error reported by Render.
func (d *Diagram) Add(el Element) *Diagram {
	if err := Claim(el, rootOwner); err != nil {
		if d.err == nil {
			d.err = err
		}
		return d
	}
	d.elements = append(d.elements, el)
	return d
}

// Remove drops a top-level element and releases it for use elsewhere.
// Connections naming it or any of its descendants are omitted at render time.
func (d *Diagram) Remove(el Element) bool {
	i := slices.Index(d.elements, el)
	if i < 0 {
		return false
	}
	d.elements = slices.Delete(d.elements, i, i+1)
	Release(el, rootOwner)
	return true
}

// Connect declares that values published on source's output channel are
// delivered to dest's input channel. Endpoints may live anywhere in the
// tree, or nowhere yet: endpoints missing at render time only drop the
// binding.
func (d *Diagram) Connect(source Element, output string, dest Element, input string) error {
	if source == nil || dest == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "connection endpoints cannot be nil")
	}
	if err := errors.ValidateChannelName(output); err != nil {
		return err
	}
	if err := errors.ValidateChannelName(input); err != nil {
		return err
	}
	d.channels.Add(Connection{Source: source, Output: output, Dest: dest, Input: input})
	return nil
}

// Elements returns the top-level elements.
func (d *Diagram) Elements() []Element { return slices.Clone(d.elements) }

// Connections returns the declared connections in declaration order,
// including those registered by placement after a render.
func (d *Diagram) Connections() []Connection { return d.channels.All() }

// Style returns the default style.
func (d *Diagram) Style() styles.Style { return d.style }

// Render runs configure, measure, place and resolve over the whole tree and
// assembles the document. Configuration and layout errors abort the render;
// dangling connections never do.
func (d *Diagram) Render(f Format) (*Document, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return nil, err
	}
	if d.err != nil {
		return nil, d.err
	}
	if d.rendered {
		return nil, errors.New(errors.ErrCodeLifecycle, "diagram already rendered; build a fresh element graph per render")
	}
	d.rendered = true

	for _, el := range d.elements {
		if err := configure(el, f, d.style); err != nil {
			return nil, err
		}
	}
	d.logger.Debug("configured elements", "count", len(d.elements))

	width, height, err := d.measure(f)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("measured diagram", "width", width, "height", height)

	surface := NewSurface(f, d.style, d.channels)
	if err := d.place(surface, width); err != nil {
		return nil, err
	}

	live := d.liveElements(surface)
	res := Resolve(d.channels.All(), live)
	for _, c := range res.Dropped {
		d.logger.Warn("dropping dangling connection", "connection", c.String())
	}
	d.logger.Debug("resolved connections", "bindings", len(res.Bindings), "dropped", len(res.Dropped))

	var buf bytes.Buffer
	if err := d.assemble(&buf, surface, width, height, sortedByID(live), res.Bindings); err != nil {
		return nil, err
	}

	return &Document{
		Format:     f,
		Markup:     buf.Bytes(),
		Width:      width,
		Height:     height,
		Placements: surface.Placements(),
		Bindings:   res.Bindings,
		Dropped:    res.Dropped,
	}, nil
}

func configure(el Element, f Format, style styles.Style) error {
	return Walk(el, func(e Element) error {
		if si, ok := e.(StyleInheritor); ok {
			si.InheritStyle(style)
		}
		if c, ok := e.(Configurer); ok {
			if err := c.Configure(f); err != nil {
				return fmt.Errorf("configure %s: %w", e.ID(), err)
			}
		}
		return nil
	})
}

// measure measures every top-level element and returns the document extent.
func (d *Diagram) measure(f Format) (width, height float64, err error) {
	var contentW, contentH float64
	for i, el := range d.elements {
		if err := el.Measure(f); err != nil {
			return 0, 0, err
		}
		contentW = max(contentW, el.Width())
		contentH += el.Height()
		if i > 0 {
			contentH += d.spacing
		}
	}
	return contentW + 2*d.margin, contentH + 2*d.margin, nil
}

func (d *Diagram) place(s *Surface, width float64) error {
	y := d.margin
	for _, el := range d.elements {
		cx := Anchor(el.Justification(), d.margin, width-d.margin, el.Width())
		cy := y + el.Height()/2
		if err := el.Place(s, cx, cy); err != nil {
			return fmt.Errorf("place %s: %w", el.ID(), err)
		}
		y += el.Height() + d.spacing
	}
	return nil
}

func (d *Diagram) liveElements(s *Surface) map[string]Element {
	live := make(map[string]Element)
	add := func(el Element) error {
		live[el.ID()] = el
		return nil
	}
	for _, el := range d.elements {
		_ = Walk(el, add)
	}
	for _, el := range s.adopted {
		_ = Walk(el, add)
	}
	return live
}

func (d *Diagram) assemble(buf *bytes.Buffer, s *Surface, width, height float64, live []Element, bindings []Binding) error {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	if d.title != "" {
		fmt.Fprintf(buf, "  <title>%s</title>\n", styles.EscapeXML(d.title))
	}

	buf.WriteString("  <defs>\n")
	buf.WriteString(s.Defs())
	buf.WriteString("  </defs>\n")
	d.style.RenderDefs(buf)

	if d.style.Background != "" {
		fmt.Fprintf(buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			width, height, styles.EscapeXML(d.style.Background))
	}

	buf.WriteString("  <g id=\"stackplot-root\">\n")
	buf.WriteString(s.Markup())
	buf.WriteString("  </g>\n")

	buf.WriteString("  <g id=\"stackplot-popups\" class=\"sp-popup\">\n")
	buf.WriteString(s.PopupMarkup())
	buf.WriteString("  </g>\n")

	if s.Format().Interactive() {
		if err := writeScript(buf, live, bindings); err != nil {
			return err
		}
	}

	buf.WriteString("</svg>\n")
	return nil
}
