// Package layout provides the flow containers that compose elements into
// larger elements: [Box], [Sequence], [Grid] and [Alternative].
//
// Flow containers keep no absolute coordinates. Measure sums or maxes the
// cached extents of their children; Place derives every child's center from
// the center the owner hands in. A child's justification anchors it inside
// the slack space on the container's cross axis.
//
// All containers take exclusive ownership of their children. Adding a child
// that already has an owner is a configuration error, returned by the
// container's Measure since the fluent Add methods cannot return one.
package layout
