package controls

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/geo"
	"github.com/matzehuels/stackplot/pkg/diagram/layout"
	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

func mustRect(t *testing.T, w, h float64) *Rect {
	t.Helper()
	r, err := NewRect(w, h, "")
	if err != nil {
		t.Fatalf("NewRect() error = %v", err)
	}
	return r
}

func render(t *testing.T, d *diagram.Diagram, f diagram.Format) *diagram.Document {
	t.Helper()
	doc, err := d.Render(f)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return doc
}

func TestTextInheritsDiagramStyle(t *testing.T) {
	inherited, err := NewText("abc")
	if err != nil {
		t.Fatal(err)
	}
	overridden, err := NewText("abc", WithTextStyle(styles.Style{FontSize: 10, TextColour: "#f00"}))
	if err != nil {
		t.Fatal(err)
	}

	d := diagram.New(diagram.WithStyle(styles.Style{FontSize: 20}))
	d.Add(inherited).Add(overridden)
	doc := render(t, d, diagram.FormatSVG)

	if math.Abs(inherited.Width()-3*20*0.55) > 1e-9 {
		t.Errorf("inherited width = %v, want %v", inherited.Width(), 3*20*0.55)
	}
	if math.Abs(overridden.Width()-3*10*0.55) > 1e-9 {
		t.Errorf("overridden width = %v, want %v", overridden.Width(), 3*10*0.55)
	}
	if !strings.Contains(string(doc.Markup), `font-size="10.0" fill="#f00"`) {
		t.Error("override attributes missing from markup")
	}
}

func TestTextLink(t *testing.T) {
	txt, err := NewText("docs", WithLink("https://example.com/a?b=1&c=2"))
	if err != nil {
		t.Fatal(err)
	}
	d := diagram.New()
	d.Add(txt)
	doc := render(t, d, diagram.FormatSVG)
	if !strings.Contains(string(doc.Markup), `<a href="https://example.com/a?b=1&amp;c=2" target="_blank">`) {
		t.Errorf("link missing:\n%s", doc.Markup)
	}

	if _, err := NewText("x", WithLink("javascript:alert(1)")); err == nil {
		t.Error("non-http link should fail")
	}
}

func TestEmptyTextMeasuresZero(t *testing.T) {
	txt, err := NewText("")
	if err != nil {
		t.Fatal(err)
	}
	if err := txt.Measure(diagram.FormatSVG); err != nil {
		t.Fatal(err)
	}
	if txt.Width() != 0 || txt.Height() != 0 {
		t.Errorf("extent = %vx%v, want 0x0", txt.Width(), txt.Height())
	}
}

func TestNewRectRejectsNegativeSize(t *testing.T) {
	if _, err := NewRect(-1, 10, ""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewRect() error = %v, want INVALID_CONFIG", err)
	}
}

func TestLegendRecoloursRect(t *testing.T) {
	legend := NewLegend(LegendEntry{"apples", "#c00"}, LegendEntry{"pears", "#0c0"})
	target, idle := mustRect(t, 50, 20), mustRect(t, 50, 20)

	d := diagram.New()
	seq, err := layout.NewSequence(layout.Horizontal)
	if err != nil {
		t.Fatal(err)
	}
	d.Add(legend).Add(seq.Add(target).Add(idle))
	if err := diagram.ConnectTyped(d, legend, diagram.ColourChannel, target, diagram.ColourChannel); err != nil {
		t.Fatal(err)
	}

	markup := string(render(t, d, diagram.FormatInteractive).Markup)
	if !strings.Contains(markup, `sp.configure("`+target.ID()+`", {"kind":"rect"});`) {
		t.Error("connected rect has no client config")
	}
	if strings.Contains(markup, `sp.configure("`+idle.ID()+`"`) {
		t.Error("unconnected rect should not be configured")
	}
	if !strings.Contains(markup, `{"category":"apples","colour":"#c00"}`) {
		t.Error("legend entries missing from client config")
	}
}

func TestLegendMeasure(t *testing.T) {
	empty := NewLegend()
	if err := empty.Measure(diagram.FormatSVG); err != nil {
		t.Fatal(err)
	}
	if empty.Width() != 0 || empty.Height() != 0 {
		t.Errorf("empty legend extent = %vx%v", empty.Width(), empty.Height())
	}
	if got := empty.ClientConfig()["entries"]; got == nil {
		t.Error("empty legend must still emit an entries list")
	}

	l := NewLegend(LegendEntry{"a", "#000"}, LegendEntry{"b", "#fff"})
	if err := l.Measure(diagram.FormatSVG); err != nil {
		t.Fatal(err)
	}
	rh := max(swatchSize, 14*1.25)
	if want := 2*rh + rowGap; math.Abs(l.Height()-want) > 1e-9 {
		t.Errorf("Height() = %v, want %v", l.Height(), want)
	}
}

func TestButtonGridWiresButtonsDuringPlacement(t *testing.T) {
	bg, err := NewButtonGrid(2)
	if err != nil {
		t.Fatal(err)
	}
	bg.AddButton("one").AddButton("two").AddButton("three")

	r1, r2, r3 := mustRect(t, 10, 10), mustRect(t, 10, 10), mustRect(t, 10, 10)
	alt := layout.NewAlternative().Add(r1).Add(r2).Add(r3)

	d := diagram.New()
	d.Add(bg).Add(alt)
	if err := diagram.ConnectTyped(d, bg, ClickChannel, alt, alt.ShowInput()); err != nil {
		t.Fatal(err)
	}
	if n := len(d.Connections()); n != 1 {
		t.Fatalf("connections before render = %d, want 1", n)
	}

	doc := render(t, d, diagram.FormatInteractive)
	if len(doc.Bindings) != 4 {
		t.Fatalf("Bindings = %d, want 4: %v", len(doc.Bindings), doc.Bindings)
	}
	for _, b := range bg.Buttons() {
		want := diagram.Binding{SourceID: b.ID(), Output: "click", DestID: bg.ID(), Input: "click"}
		found := false
		for _, got := range doc.Bindings {
			if got == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing binding %+v", want)
		}
	}

	// two columns, two rows
	cols := bg.grid.ColumnWidths()
	if len(cols) != 2 || len(bg.grid.RowHeights()) != 2 {
		t.Errorf("grid shape = %d cols x %d rows, want 2x2", len(cols), len(bg.grid.RowHeights()))
	}
}

func TestNewButtonGridRejectsZeroColumns(t *testing.T) {
	if _, err := NewButtonGrid(0); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("NewButtonGrid(0) error = %v, want INVALID_CONFIG", err)
	}
}

func TestSliderLearnsValuesFromTarget(t *testing.T) {
	slider, err := NewSlider(200)
	if err != nil {
		t.Fatal(err)
	}
	alt := layout.NewAlternative().Add(mustRect(t, 10, 10)).Add(mustRect(t, 10, 10))

	d := diagram.New()
	d.Add(slider).Add(alt)
	if err := d.Connect(slider, diagram.SliceChannel.Name, alt, alt.ShowInput().Name); err != nil {
		t.Fatal(err)
	}
	doc := render(t, d, diagram.FormatInteractive)

	if diff := cmp.Diff([]string{"1", "2"}, slider.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(doc.Markup), `"values":["1","2"]`) {
		t.Error("learned values missing from client config")
	}
}

func TestSliderKeepsExplicitValues(t *testing.T) {
	slider, err := NewSlider(100, "2020", "2021")
	if err != nil {
		t.Fatal(err)
	}
	alt := layout.NewAlternative().Add(mustRect(t, 1, 1))
	slider.OnConnectedAsSource(diagram.Connection{Source: slider, Output: "slice", Dest: alt, Input: "show"}, alt)
	if diff := cmp.Diff([]string{"2020", "2021"}, slider.Values()); diff != "" {
		t.Errorf("Values() mismatch:\n%s", diff)
	}
}

func TestSliderWithoutTarget(t *testing.T) {
	slider, err := NewSlider(100)
	if err != nil {
		t.Fatal(err)
	}
	d := diagram.New()
	d.Add(slider)
	doc := render(t, d, diagram.FormatInteractive)
	if !strings.Contains(string(doc.Markup), `"values":[]`) {
		t.Error("slider without values must emit an empty list")
	}
}

func TestPanZoomDrivesMap(t *testing.T) {
	pad, err := NewPanZoom(0)
	if err != nil {
		t.Fatal(err)
	}
	pts, err := geo.NewPoints([]geo.Feature{{Name: "a", At: geo.Point{Lon: 1, Lat: 1}}}, 0, "")
	if err != nil {
		t.Fatal(err)
	}
	m, err := geo.NewMap(200, 100, geo.WithZoom())
	if err != nil {
		t.Fatal(err)
	}
	m.Add(pts)

	d := diagram.New()
	d.Add(pad).Add(m)
	if err := diagram.ConnectTyped(d, pad, diagram.PanChannel, m, diagram.PanChannel); err != nil {
		t.Fatal(err)
	}
	if err := diagram.ConnectTyped(d, pad, diagram.ZoomChannel, m, diagram.ZoomChannel); err != nil {
		t.Fatal(err)
	}
	doc := render(t, d, diagram.FormatInteractive)

	want := []diagram.Binding{
		{SourceID: pad.ID(), Output: "pan", DestID: m.ID(), Input: "pan"},
		{SourceID: pad.ID(), Output: "zoom", DestID: m.ID(), Input: "zoom"},
		{SourceID: m.ID(), Output: "visible_window", DestID: pts.ID(), Input: "visible_window"},
	}
	byKey := cmpopts.SortSlices(func(a, b diagram.Binding) bool { return a.Key() < b.Key() })
	if diff := cmp.Diff(want, doc.Bindings, byKey); diff != "" {
		t.Errorf("Bindings mismatch (-want +got):\n%s", diff)
	}
	if pad.Width() != 80 || pad.Height() != 60 {
		t.Errorf("pad extent = %vx%v, want 80x60", pad.Width(), pad.Height())
	}
}
