package diagram

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// Binding is a connection resolved against the live element set. It only
// carries identifiers; the client runtime never sees element types.
type Binding struct {
	SourceID string `json:"source"`
	Output   string `json:"output"`
	DestID   string `json:"dest"`
	Input    string `json:"input"`
}

// Key is the dispatch-table key of the subscriber input. It is derived from
// the destination id so several publishers can target one input.
func (b Binding) Key() string { return b.DestID + "/" + b.Input }

// Statement returns the generated client statement installing b.
func (b Binding) Statement() string {
	return fmt.Sprintf("sp.bind(%s, %s, %s, %s);",
		strconv.Quote(b.SourceID), strconv.Quote(b.Output),
		strconv.Quote(b.DestID), strconv.Quote(b.Input))
}

func compareBindings(a, b Binding) int {
	return cmp.Or(
		cmp.Compare(a.DestID, b.DestID),
		cmp.Compare(a.Input, b.Input),
		cmp.Compare(a.SourceID, b.SourceID),
		cmp.Compare(a.Output, b.Output),
	)
}

// Resolution is the outcome of resolving a registry.
type Resolution struct {
	Bindings []Binding
	Dropped  []Connection
}

// Resolve checks every connection against live, runs the specialization
// hooks of both endpoints, and returns the bindings sorted so the result does
// not depend on declaration order. Connections naming an element outside
// live, or a different element under the same id, are dropped.
func Resolve(conns []Connection, live map[string]Element) Resolution {
	type resolved struct {
		conn    Connection
		binding Binding
	}

	var res Resolution
	var ok []resolved
	for _, c := range conns {
		if !isLive(c.Source, live) || !isLive(c.Dest, live) {
			res.Dropped = append(res.Dropped, c)
			continue
		}
		ok = append(ok, resolved{
			conn: c,
			binding: Binding{
				SourceID: c.Source.ID(),
				Output:   c.Output,
				DestID:   c.Dest.ID(),
				Input:    c.Input,
			},
		})
	}

	slices.SortStableFunc(ok, func(a, b resolved) int {
		return compareBindings(a.binding, b.binding)
	})

	res.Bindings = make([]Binding, 0, len(ok))
	for _, r := range ok {
		if h, isHook := r.conn.Source.(SourceHook); isHook {
			h.OnConnectedAsSource(r.conn, r.conn.Dest)
		}
		if h, isHook := r.conn.Dest.(DestinationHook); isHook {
			h.OnConnectedAsDestination(r.conn, r.conn.Source)
		}
		res.Bindings = append(res.Bindings, r.binding)
	}
	return res
}

func isLive(el Element, live map[string]Element) bool {
	if el == nil {
		return false
	}
	found, ok := live[el.ID()]
	return ok && found == el
}
