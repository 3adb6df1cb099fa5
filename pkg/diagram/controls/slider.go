package controls

import (
	"fmt"
	"slices"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

const sliderHeight = 28.0

// Slider selects one of a discrete set of values and publishes a
// [diagram.SliceSelection] on "slice". When no values are given, the slider
// takes them from the first element it is connected to that enumerates the
// values its input accepts.
type Slider struct {
	diagram.Base
	width  float64
	values []string
}

// NewSlider returns a slider of the given track width.
func NewSlider(width float64, values ...string) (*Slider, error) {
	if err := errors.ValidateExtent("slider width", width); err != nil {
		return nil, err
	}
	return &Slider{Base: diagram.NewBase(), width: width, values: slices.Clone(values)}, nil
}

// Values returns the selectable values, including those learned from a
// connected target.
func (sl *Slider) Values() []string { return slices.Clone(sl.values) }

// OnConnectedAsSource implements diagram.SourceHook.
func (sl *Slider) OnConnectedAsSource(c diagram.Connection, dest diagram.Element) {
	if len(sl.values) > 0 || c.Output != diagram.SliceChannel.Name {
		return
	}
	if e, ok := dest.(diagram.ValueEnumerator); ok {
		sl.values = slices.Clone(e.DiscreteValues(c.Input))
	}
}

// Measure implements diagram.Element.
func (sl *Slider) Measure(diagram.Format) error {
	return sl.MeasureOnce(func() (float64, float64, error) { return sl.width, sliderHeight, nil })
}

// Place draws the track and the thumb at the first position. Ticks are added
// client-side once the values are known.
func (sl *Slider) Place(s *diagram.Surface, cx, cy float64) error {
	if err := sl.CheckMeasured(); err != nil {
		return err
	}
	s.Record(sl, cx, cy)
	left := cx - sl.width/2
	stroke := styles.EscapeXML(s.Style().Stroke)
	return s.Group(fmt.Sprintf(`id="%s" class="sp-control sp-slider"`, sl.ID()), func() error {
		s.Printf(`<line id="%s-track" x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="2"/>`+"\n",
			sl.ID(), left, cy, left+sl.width, cy, stroke)
		s.Printf(`<g id="%s-ticks"/>`+"\n", sl.ID())
		s.Printf(`<circle id="%s-thumb" cx="%.1f" cy="%.1f" r="6" fill="%s"/>`+"\n",
			sl.ID(), left, cy, styles.EscapeXML(s.Style().Fill))
		return nil
	})
}

// ClientConfig implements diagram.ClientConfigurer. It runs after bindings
// are resolved, so learned values are included.
func (sl *Slider) ClientConfig() map[string]any {
	values := sl.values
	if values == nil {
		values = []string{}
	}
	return map[string]any{"kind": "slider", "values": values}
}

// Behaviour implements diagram.Behaviour.
func (sl *Slider) Behaviour() (string, string) {
	return "slider", sliderJS
}

const sliderJS = `
      var track = sp.node(id + '-track'), thumb = sp.node(id + '-thumb'), ticks = sp.node(id + '-ticks');
      var x0 = Number(track.getAttribute('x1')), x1 = Number(track.getAttribute('x2'));
      var y = Number(track.getAttribute('y1')), n = cfg.values.length;
      function pos(i) { return n > 1 ? x0 + (x1 - x0) * i / (n - 1) : x0; }
      cfg.values.forEach(function (v, i) {
        var t = document.createElementNS('http://www.w3.org/2000/svg', 'line');
        t.setAttribute('x1', pos(i)); t.setAttribute('x2', pos(i));
        t.setAttribute('y1', y - 5); t.setAttribute('y2', y + 5);
        t.setAttribute('stroke', track.getAttribute('stroke'));
        ticks.appendChild(t);
      });
      function select(i) {
        thumb.setAttribute('cx', pos(i));
        sp.publish(id, 'slice', { index: i, value: cfg.values[i] });
      }
      sp.node(id).addEventListener('click', function (ev) {
        if (n === 0) { return; }
        var p = sp.node(id).ownerSVGElement.createSVGPoint();
        p.x = ev.clientX; p.y = ev.clientY;
        var local = p.matrixTransform(sp.node(id).getScreenCTM().inverse());
        var i = n > 1 ? Math.round((local.x - x0) / (x1 - x0) * (n - 1)) : 0;
        select(Math.max(0, Math.min(n - 1, i)));
      });`
