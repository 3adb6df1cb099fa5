package geo

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
)

// Compass draws a north arrow in the top-right corner of the map. It is
// meant to be added with [Map.AddForeground].
type Compass struct {
	LayerBase
	size float64
}

// NewCompass returns a compass of the given size; zero uses 24.
func NewCompass(size float64) *Compass {
	if size <= 0 {
		size = 24
	}
	return &Compass{LayerBase: NewLayerBase(), size: size}
}

// PreferredBounds implements Layer. A compass has no boundary preference.
func (c *Compass) PreferredBounds() (Bounds, bool) { return Bounds{}, false }

// Measure implements diagram.Element.
func (c *Compass) Measure(diagram.Format) error { return c.MeasureFrame() }

// Place implements diagram.Element.
func (c *Compass) Place(s *diagram.Surface, cx, cy float64) error {
	if err := c.CheckMeasured(); err != nil {
		return err
	}
	s.Record(c, cx, cy)

	left, top := c.Origin(cx, cy)
	x := left + c.Frame().Width - c.size
	y := top + c.size*0.25
	half := c.size / 4
	stroke := styles.EscapeXML(s.Style().Stroke)
	return s.Group(fmt.Sprintf(`id="%s" class="sp-compass"`, c.ID()), func() error {
		s.Printf(`<polygon points="%.1f,%.1f %.1f,%.1f %.1f,%.1f" fill="%s"/>`+"\n",
			x, y, x-half, y+c.size*0.6, x+half, y+c.size*0.6, stroke)
		s.Printf(`<text class="sp-text" x="%.1f" y="%.1f" text-anchor="middle" font-size="%.1f">N</text>`+"\n",
			x, y+c.size*0.6+half*2, half*2)
		return nil
	})
}
