package wiring

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/controls"
	"github.com/matzehuels/stackplot/pkg/spec"
)

const description = `
[[elements]]
name = "legend"
kind = "legend"
entries = [{ label = "a", colour = "#c00" }]

[[elements]]
name = "bar"
kind = "rect"
width = 60
height = 20

[[connections]]
from = "legend"
output = "colour"
to = "bar"
input = "colour"
`

// render builds the description. With orphan set, the legend also
// publishes to an element that is never added, so one connection drops.
func render(t *testing.T, orphan bool) (*spec.Built, *diagram.Document) {
	t.Helper()
	f, err := spec.Decode([]byte(description), spec.EncodingTOML)
	if err != nil {
		t.Fatal(err)
	}
	built, err := spec.Build(f)
	if err != nil {
		t.Fatal(err)
	}
	if orphan {
		legend, _ := built.Lookup("legend")
		rect, err := controls.NewRect(10, 10, "")
		if err != nil {
			t.Fatal(err)
		}
		if err := built.Diagram.Connect(legend, "colour", rect, "fill"); err != nil {
			t.Fatal(err)
		}
	}
	doc, err := built.Diagram.Render(diagram.FormatInteractive)
	if err != nil {
		t.Fatal(err)
	}
	return built, doc
}

func TestToDOTListsEveryBinding(t *testing.T) {
	built, doc := render(t, true)
	if len(doc.Bindings) == 0 {
		t.Fatal("document has no bindings")
	}

	dot := ToDOT(doc, Options{Names: built.NameOf})
	for _, b := range doc.Bindings {
		edge := `"` + b.SourceID + `" -> "` + b.DestID + `"`
		if !strings.Contains(dot, edge) {
			t.Errorf("DOT missing edge %s", edge)
		}
	}
	if !strings.Contains(dot, `label="bar\nrect"`) {
		t.Errorf("DOT should label nodes with name and kind:\n%s", dot)
	}
	if strings.Contains(dot, "dashed") {
		t.Error("dropped connections included without Options.Dropped")
	}
}

func TestToDOTDropped(t *testing.T) {
	built, doc := render(t, true)
	if len(doc.Dropped) != 1 {
		t.Fatalf("Dropped = %d, want 1", len(doc.Dropped))
	}

	dot := ToDOT(doc, Options{Names: built.NameOf, Dropped: true})
	orphan := doc.Dropped[0].Dest.ID()
	if !strings.Contains(dot, `"`+orphan+`" [label="`+orphan+`", style="rounded,dashed"`) {
		t.Errorf("unplaced endpoint should be drawn dashed:\n%s", dot)
	}
	if !strings.Contains(dot, `label="colour → fill", style=dashed`) {
		t.Errorf("dropped edge missing:\n%s", dot)
	}
}

func TestToDOTRawIDs(t *testing.T) {
	_, doc := render(t, false)
	dot := ToDOT(doc, Options{Title: "wiring"})
	if !strings.Contains(dot, `"`+doc.Bindings[0].SourceID+`" [label="`+doc.Bindings[0].SourceID) {
		t.Errorf("nodes should be labelled with ids when Names is nil:\n%s", dot)
	}
	if !strings.Contains(dot, `label="wiring";`) {
		t.Error("title missing")
	}
}

func TestEdgeLabel(t *testing.T) {
	tests := []struct {
		output, input string
		want          string
	}{
		{"colour", "colour", "colour"},
		{"click", "show", "click → show"},
	}
	for _, tt := range tests {
		if got := edgeLabel(tt.output, tt.input); got != tt.want {
			t.Errorf("edgeLabel(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	built, doc := render(t, false)

	svg, err := RenderSVG(context.Background(), ToDOT(doc, Options{Names: built.NameOf}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("root tag not normalized:\n%.200s", svg)
	}
	if !bytes.Contains(svg, []byte("legend")) {
		t.Error("SVG should contain node names")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got := string(normalizeViewBox(in)); got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(noBox); !bytes.Equal(got, noBox) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}
