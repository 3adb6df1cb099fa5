package controls

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
)

const (
	swatchSize = 12.0
	swatchGap  = 6.0
	rowGap     = 4.0
)

// LegendEntry is one category and its colour.
type LegendEntry struct {
	Label  string `json:"category" toml:"label" yaml:"label"`
	Colour string `json:"colour" toml:"colour" yaml:"colour"`
}

// Legend lists categories with colour swatches. Clicking an entry publishes
// a [diagram.ColourSelection] on "colour".
type Legend struct {
	diagram.Base
	entries []LegendEntry
	style   styles.Style
}

// NewLegend returns a legend for entries. An empty legend measures to zero.
func NewLegend(entries ...LegendEntry) *Legend {
	return &Legend{Base: diagram.NewBase(), entries: append([]LegendEntry(nil), entries...), style: styles.Default()}
}

// Entries returns the legend entries.
func (l *Legend) Entries() []LegendEntry { return append([]LegendEntry(nil), l.entries...) }

// InheritStyle implements diagram.StyleInheritor.
func (l *Legend) InheritStyle(s styles.Style) { l.style = s }

func (l *Legend) rowHeight() float64 {
	_, h := styles.TextExtent("M", l.style.FontSize)
	return max(swatchSize, h)
}

// Measure implements diagram.Element.
func (l *Legend) Measure(diagram.Format) error {
	return l.MeasureOnce(func() (float64, float64, error) {
		if len(l.entries) == 0 {
			return 0, 0, nil
		}
		var w float64
		for _, e := range l.entries {
			tw, _ := styles.TextExtent(e.Label, l.style.FontSize)
			w = max(w, swatchSize+swatchGap+tw)
		}
		n := float64(len(l.entries))
		return w, n*l.rowHeight() + (n-1)*rowGap, nil
	})
}

// Place implements diagram.Element.
func (l *Legend) Place(s *diagram.Surface, cx, cy float64) error {
	if err := l.CheckMeasured(); err != nil {
		return err
	}
	s.Record(l, cx, cy)
	left, top := cx-l.Width()/2, cy-l.Height()/2
	rh := l.rowHeight()
	return s.Group(fmt.Sprintf(`id="%s" class="sp-legend"`, l.ID()), func() error {
		for i, e := range l.entries {
			y := top + float64(i)*(rh+rowGap)
			s.Printf(`<g id="%s-%d" class="sp-control">`, l.ID(), i)
			s.Printf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
				left, y+(rh-swatchSize)/2, swatchSize, swatchSize, styles.EscapeXML(e.Colour))
			s.Printf(`<text class="sp-text" x="%.1f" y="%.1f" dominant-baseline="middle">%s</text>`,
				left+swatchSize+swatchGap, y+rh/2, styles.EscapeXML(e.Label))
			s.Printf("</g>\n")
		}
		return nil
	})
}

// ClientConfig implements diagram.ClientConfigurer.
func (l *Legend) ClientConfig() map[string]any {
	entries := l.entries
	if entries == nil {
		entries = []LegendEntry{}
	}
	return map[string]any{"kind": "legend", "entries": entries}
}

// Behaviour implements diagram.Behaviour.
func (l *Legend) Behaviour() (string, string) {
	return "legend", legendJS
}

const legendJS = `
      cfg.entries.forEach(function (e, i) {
        var n = sp.node(id + '-' + i);
        if (n) { n.addEventListener('click', function () { sp.publish(id, 'colour', e); }); }
      });`
