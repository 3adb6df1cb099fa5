// Package spec reads declarative diagram descriptions and builds them into
// element graphs.
//
// A description is a TOML or YAML document with three sections:
//
//	[diagram]
//	title = "Fruit"
//	style = { font_size = 12 }
//
//	[[elements]]
//	name = "legend"
//	kind = "legend"
//	entries = [{ label = "apples", colour = "#c00" }]
//
//	[[elements]]
//	name = "bar"
//	kind = "rect"
//	width = 40
//	height = 20
//
//	[[connections]]
//	from = "legend"
//	output = "colour"
//	to = "bar"
//	input = "colour"
//
// Element names are local to the description; [Build] maps them to freshly
// allocated element ids. Containers are declared like any other element and
// children name them in their parent field. Elements without a parent are
// stacked on the diagram root in declaration order.
//
// Every call to [Build] constructs a new element graph, so one decoded
// [File] can be rendered in several formats.
package spec
