package spec_test

import (
	"fmt"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/spec"
)

func ExampleBuild() {
	const description = `
[diagram]
margin = 0
spacing = 10

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
	f, err := spec.Decode([]byte(description), spec.EncodingTOML)
	if err != nil {
		panic(err)
	}
	built, err := spec.Build(f)
	if err != nil {
		panic(err)
	}
	doc, err := built.Diagram.Render(diagram.FormatInteractive)
	if err != nil {
		panic(err)
	}

	for _, b := range doc.Bindings {
		fmt.Printf("%s.%s -> %s.%s\n", built.NameOf(b.SourceID), b.Output, built.NameOf(b.DestID), b.Input)
	}
	// Output:
	// legend.colour -> bar.colour
}
