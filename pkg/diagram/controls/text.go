package controls

import (
	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Text is a single line of text. It inherits the diagram default style;
// fields set in its own style override it.
type Text struct {
	diagram.Base
	content  string
	override styles.Style
	base     styles.Style
	url      string
}

// TextOption configures a Text.
type TextOption func(*Text) error

// WithTextStyle overrides the inherited style.
func WithTextStyle(s styles.Style) TextOption {
	return func(t *Text) error {
		if s.FontSize < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "font size cannot be negative")
		}
		t.override = s
		return nil
	}
}

// WithLink turns the text into a link.
func WithLink(url string) TextOption {
	return func(t *Text) error {
		if err := errors.ValidateURL(url); err != nil {
			return err
		}
		t.url = url
		return nil
	}
}

// NewText returns a text element. Empty content measures to zero.
func NewText(content string, opts ...TextOption) (*Text, error) {
	t := &Text{Base: diagram.NewBase(), content: content, base: styles.Default()}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Content returns the text.
func (t *Text) Content() string { return t.content }

// InheritStyle implements diagram.StyleInheritor.
func (t *Text) InheritStyle(s styles.Style) { t.base = s }

// Style returns the effective style.
func (t *Text) Style() styles.Style { return t.base.Merge(t.override) }

// Measure implements diagram.Element.
func (t *Text) Measure(diagram.Format) error {
	return t.MeasureOnce(func() (float64, float64, error) {
		w, h := styles.TextExtent(t.content, t.Style().FontSize)
		return w, h, nil
	})
}

// Place implements diagram.Element.
func (t *Text) Place(s *diagram.Surface, cx, cy float64) error {
	if err := t.CheckMeasured(); err != nil {
		return err
	}
	s.Record(t, cx, cy)
	if t.content == "" {
		return nil
	}
	styles.WrapURL(s.Buffer(), t.url, func() {
		s.Printf(`<text id="%s" class="sp-text" x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle"%s>%s</text>`,
			t.ID(), cx, cy, t.Style().TextAttrs(s.Style()), styles.EscapeXML(t.content))
	})
	s.Printf("\n")
	return nil
}
