package diagram

import "fmt"

// Connection declares that values published by Source on its Output channel
// are delivered to Dest's Input channel. Connections are directional and
// many-to-many.
type Connection struct {
	Source Element
	Output string
	Dest   Element
	Input  string
}

func (c Connection) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", idOf(c.Source), c.Output, idOf(c.Dest), c.Input)
}

func idOf(el Element) string {
	if el == nil {
		return "<nil>"
	}
	return el.ID()
}

// Registry is the insertion-ordered multiset of connections for one
// diagram. It is written during construction and placement and only read
// while bindings are resolved.
type Registry struct {
	conns []Connection
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends c. Duplicates are kept.
func (r *Registry) Add(c Connection) {
	r.conns = append(r.conns, c)
}

// All returns a copy of the registered connections in insertion order.
func (r *Registry) All() []Connection {
	out := make([]Connection, len(r.conns))
	copy(out, r.conns)
	return out
}

// Len returns the number of registered connections.
func (r *Registry) Len() int { return len(r.conns) }
