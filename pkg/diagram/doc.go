// Package diagram is the composition core of stackplot: the element
// contract, the diagram root, and the channel registry that turns declared
// element-to-element connections into client-side event wiring.
//
// # Lifecycle
//
// Every render runs the same phases over the element tree:
//
//  1. Configure (top-down): optional, for elements implementing [Configurer].
//     Containers that share a coordinate space with their children (the map
//     overlay) hand them that space here.
//  2. Measure (bottom-up): every element computes and caches its extent.
//  3. Place (top-down): every element writes its markup into the [Surface],
//     centered on the point its owner hands it. Placement may register
//     further connections, e.g. a container wiring its own channel to each
//     child.
//  4. Resolve: every [Connection] is checked against the element set,
//     specialization hooks run, and live connections become [Binding]s.
//  5. Assemble: one SVG document with definitions, the default style, the
//     placed tree, the popup layer and, for [FormatInteractive], a single
//     script block that installs every binding on load.
//
// # Channels
//
// Elements never hold references to the elements they talk to. A connection
// names a source element's output channel and a destination element's input
// channel; the generated client code forwards values published on the first
// to handlers subscribed on the second.
//
//	d := diagram.New()
//	d.Add(layout.NewSequence(layout.Vertical).Add(legend).Add(chart))
//	_ = d.Connect(legend, "colour", chart, "colour")
//	doc, err := d.Render(diagram.FormatInteractive)
//
// Well-known payload shapes are available as typed channels, see
// [ConnectTyped].
package diagram
