package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/render"
	"github.com/matzehuels/stackplot/pkg/spec"
	"github.com/matzehuels/stackplot/pkg/wiring"
)

// rendered is one document together with the graph it came from.
type rendered struct {
	built *spec.Built
	doc   *diagram.Document
}

// Export is the JSON artifact: where every element was placed and how the
// elements are wired, with description names next to element ids.
type Export struct {
	Title    string          `json:"title,omitempty"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Elements []ExportElement `json:"elements"`
	Bindings []ExportBinding `json:"bindings"`
	Dropped  []string        `json:"dropped,omitempty"`
}

// ExportElement is one placement. Name is empty for elements created during
// placement, such as slider ticks.
type ExportElement struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Kind   string  `json:"kind"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExportBinding is one resolved connection.
type ExportBinding struct {
	From     string `json:"from"`
	Output   string `json:"output"`
	To       string `json:"to"`
	Input    string `json:"input"`
	SourceID string `json:"source_id"`
	DestID   string `json:"dest_id"`
}

// NewExport describes doc using the names of built.
func NewExport(f *spec.File, built *spec.Built, doc *diagram.Document) Export {
	e := Export{
		Title:    f.Diagram.Title,
		Width:    doc.Width,
		Height:   doc.Height,
		Elements: make([]ExportElement, 0, len(doc.Placements)),
		Bindings: make([]ExportBinding, 0, len(doc.Bindings)),
	}
	for _, p := range doc.Placements {
		el := ExportElement{ID: p.ID, Kind: p.Kind, CX: p.CX, CY: p.CY, Width: p.Width, Height: p.Height}
		if name := built.NameOf(p.ID); name != p.ID {
			el.Name = name
		}
		e.Elements = append(e.Elements, el)
	}
	for _, b := range doc.Bindings {
		e.Bindings = append(e.Bindings, ExportBinding{
			From:     built.NameOf(b.SourceID),
			Output:   b.Output,
			To:       built.NameOf(b.DestID),
			Input:    b.Input,
			SourceID: b.SourceID,
			DestID:   b.DestID,
		})
	}
	for _, c := range doc.Dropped {
		e.Dropped = append(e.Dropped, fmt.Sprintf("%s.%s -> %s.%s",
			built.NameOf(c.Source.ID()), c.Output, built.NameOf(c.Dest.ID()), c.Input))
	}
	return e
}

// export derives one artifact from its document.
func export(ctx context.Context, format string, rd *rendered, f *spec.File, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG, FormatInteractive:
		return rd.doc.Markup, nil
	case FormatPNG:
		return render.ToPNG(ctx, rd.doc.Markup, opts.Scale)
	case FormatPDF:
		return render.ToPDF(ctx, rd.doc.Markup)
	case FormatJSON:
		return json.MarshalIndent(NewExport(f, rd.built, rd.doc), "", "  ")
	case FormatDOT:
		return []byte(wiringDOT(f, rd)), nil
	case FormatWiring:
		return wiring.RenderSVG(ctx, wiringDOT(f, rd))
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
}

func wiringDOT(f *spec.File, rd *rendered) string {
	return wiring.ToDOT(rd.doc, wiring.Options{
		Names:   rd.built.NameOf,
		Dropped: true,
		Title:   f.Diagram.Title,
	})
}
