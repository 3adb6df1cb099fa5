// Package pkg provides the core libraries for Stackplot diagrams.
//
// # Overview
//
// Stackplot composes charts, maps, legends and controls into a single SVG
// document. Elements are measured bottom-up, placed top-down, and wired
// together with named output and input channels that are resolved into a
// small client-side dispatch table when the document is rendered.
//
// # Architecture
//
// The typical data flow:
//
//	TOML / YAML description
//	         ↓
//	    [spec] package (decode, validate, build the element graph)
//	         ↓
//	    [diagram] package (configure → measure → place → resolve bindings)
//	         ↓
//	    [pipeline] package (artifacts, caching, hooks)
//	         ↓
//	    SVG / interactive SVG / JSON / PNG / PDF / wiring graph
//
// # Quick Start
//
// Build a diagram in code and render it:
//
//	legend := controls.NewLegend(controls.LegendEntry{Label: "apples", Colour: "#c00"})
//	bar, _ := controls.NewRect(40, 20, "")
//
//	d := diagram.New(diagram.WithTitle("Fruit"))
//	d.Add(legend).Add(bar)
//	_ = d.Connect(legend, "colour", bar, "colour")
//
//	doc, err := d.Render(diagram.FormatInteractive)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("fruit.svg", doc.Markup, 0o644)
//
// # Main Packages
//
// ## Diagram Engine
//
// [diagram] - Element contract, identifier sources, the drawing surface, the
// diagram root and the channel registry that turns connections into
// bindings. Typed channels ([diagram.Channel]) check payload kinds at
// compile time.
//
//   - [diagram/layout]: Box, Sequence, Grid and Alternative containers
//   - [diagram/geo]: Map overlay container with point and compass layers
//   - [diagram/controls]: Rect, Text, Button, ButtonGrid, Slider, PanZoom, Legend
//   - [diagram/styles]: Default style record, inheritance and emission
//
// ## Descriptions
//
// [spec] - Declarative descriptions in TOML or YAML. Names are local to a
// description and map to element ids once built.
//
// ## Output
//
// [pipeline] - Decode, render and export, shared by the CLI and the HTTP
// service. Artifacts are cached by the hash of the canonical description.
//
// [render] - SVG to PNG and PDF conversion.
//
// [wiring] - The connection graph of a document as Graphviz DOT or SVG.
//
// ## Infrastructure
//
// [cache] - Cache interface with null, file and Redis backends, and keyers.
//
// [observability] - Render, cache and HTTP hooks with no-op and logging
// implementations.
//
// [errors] - Coded errors and validation helpers.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/diagram/...            # Specific package
//	go test -run Example                 # Examples only
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/diagram
// [diagram/layout]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/diagram/layout
// [diagram/geo]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/diagram/geo
// [diagram/controls]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/diagram/controls
// [diagram/styles]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/diagram/styles
// [diagram.Channel]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/diagram#Channel
// [spec]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/spec
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/render
// [wiring]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/wiring
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/buildinfo
package pkg
