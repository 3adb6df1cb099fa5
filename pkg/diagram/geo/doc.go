// Package geo provides the map overlay container and the layers drawn in
// it.
//
// A [Map] stacks its layers at shared absolute coordinates instead of
// flow-positioning them. Before measurement it resolves one geographic
// boundary for all layers, explicit or merged from the layers' own
// preferences, and hands every layer a [Frame] describing the shared pixel
// extent, the boundary and the [Projection].
//
// Layers are drawn in insertion order. Background layers are clipped to the
// map; foreground layers such as a [Compass] are drawn on top, unclipped.
// Popups raised by layers go to the document's popup layer so no later
// layer can cover them.
package geo
