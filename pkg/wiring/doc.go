// Package wiring draws the event wiring of a rendered diagram as a
// directed graph.
//
// Every binding of a [diagram.Document] becomes an edge from the publishing
// element to the subscribing one, labelled with the output and input
// channel names. Connections that were dropped during rendering can be
// included as dashed edges, which makes a dangling declaration easy to spot.
//
//	dot := wiring.ToDOT(doc, wiring.Options{Names: built.NameOf, Dropped: true})
//	svg, err := wiring.RenderSVG(ctx, dot)
//
// Layout is done by Graphviz through github.com/goccy/go-graphviz, which
// embeds the engine, so no system install is needed.
package wiring
