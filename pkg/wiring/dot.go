package wiring

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/stackplot/pkg/diagram"
)

// Options configures DOT export.
type Options struct {
	// Names maps element ids to display names. Nil shows raw ids.
	Names func(id string) string
	// Dropped includes connections omitted at render time as dashed edges.
	Dropped bool
	// Title is drawn above the graph.
	Title string
}

func (o Options) name(id string) string {
	if o.Names == nil {
		return id
	}
	return o.Names(id)
}

// ToDOT converts the bindings of doc to Graphviz DOT. Node labels carry the
// display name and the element kind when the element was placed.
func ToDOT(doc *diagram.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph wiring {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	kinds := make(map[string]string, len(doc.Placements))
	for _, p := range doc.Placements {
		kinds[p.ID] = p.Kind
	}

	var ids []string
	for _, b := range doc.Bindings {
		ids = append(ids, b.SourceID, b.DestID)
	}
	var dropped []diagram.Connection
	if opts.Dropped {
		for _, c := range doc.Dropped {
			if c.Source == nil || c.Dest == nil {
				continue
			}
			dropped = append(dropped, c)
			ids = append(ids, c.Source.ID(), c.Dest.ID())
		}
	}
	slices.Sort(ids)
	for _, id := range slices.Compact(ids) {
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(nodeAttrs(opts.name(id), kinds[id]), ", "))
	}

	buf.WriteString("\n")
	for _, b := range doc.Bindings {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", b.SourceID, b.DestID, edgeLabel(b.Output, b.Input))
	}
	for _, c := range dropped {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, style=dashed, color=grey, fontcolor=grey];\n",
			c.Source.ID(), c.Dest.ID(), edgeLabel(c.Output, c.Input))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(name, kind string) []string {
	if kind == "" {
		// never placed: an unselected alternative or a dropped endpoint
		return []string{fmt.Sprintf("label=%q", name), "style=\"rounded,dashed\"", "fontcolor=grey"}
	}
	return []string{fmt.Sprintf("label=%q", name+"\n"+kind)}
}

func edgeLabel(output, input string) string {
	if output == input {
		return output
	}
	return output + " → " + input
}
