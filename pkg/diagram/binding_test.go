package diagram

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type hookedLeaf struct {
	*leaf
	asSource []string
	asDest   []string
}

func (h *hookedLeaf) OnConnectedAsSource(c Connection, dest Element) {
	h.asSource = append(h.asSource, c.Output+"->"+dest.ID())
}

func (h *hookedLeaf) OnConnectedAsDestination(c Connection, source Element) {
	h.asDest = append(h.asDest, source.ID()+"->"+c.Input)
}

func liveSet(els ...Element) map[string]Element {
	live := make(map[string]Element)
	for _, el := range els {
		live[el.ID()] = el
	}
	return live
}

func TestResolveIsOrderIndependent(t *testing.T) {
	a, b, c := newLeaf(1, 1), newLeaf(1, 1), newLeaf(1, 1)
	live := liveSet(a, b, c)

	forward := Resolve([]Connection{
		{Source: a, Output: "x", Dest: b, Input: "y"},
		{Source: c, Output: "z", Dest: b, Input: "y"},
	}, live)
	reverse := Resolve([]Connection{
		{Source: c, Output: "z", Dest: b, Input: "y"},
		{Source: a, Output: "x", Dest: b, Input: "y"},
	}, live)

	if d := cmp.Diff(forward.Bindings, reverse.Bindings); d != "" {
		t.Errorf("bindings depend on declaration order (-forward +reverse):\n%s", d)
	}
	if len(forward.Bindings) != 2 {
		t.Errorf("got %d bindings, want 2", len(forward.Bindings))
	}
}

func TestResolveDropsDanglingConnections(t *testing.T) {
	a, b := newLeaf(1, 1), newLeaf(1, 1)
	ghost := newLeaf(1, 1)
	impostor := &leaf{Base: b.Base}

	res := Resolve([]Connection{
		{Source: a, Output: "x", Dest: b, Input: "y"},
		{Source: ghost, Output: "x", Dest: b, Input: "y"},
		{Source: a, Output: "x", Dest: ghost, Input: "y"},
		{Source: a, Output: "x", Dest: impostor, Input: "y"},
		{Source: nil, Output: "x", Dest: b, Input: "y"},
	}, liveSet(a, b))

	if len(res.Bindings) != 1 {
		t.Fatalf("got %d bindings, want 1", len(res.Bindings))
	}
	if len(res.Dropped) != 4 {
		t.Errorf("got %d dropped, want 4", len(res.Dropped))
	}
	want := Binding{SourceID: a.ID(), Output: "x", DestID: b.ID(), Input: "y"}
	if res.Bindings[0] != want {
		t.Errorf("binding = %+v, want %+v", res.Bindings[0], want)
	}
}

func TestResolveRunsHooks(t *testing.T) {
	src := &hookedLeaf{leaf: newLeaf(1, 1)}
	dst := &hookedLeaf{leaf: newLeaf(1, 1)}
	ghost := newLeaf(1, 1)

	Resolve([]Connection{
		{Source: src, Output: "value", Dest: dst, Input: "slice"},
		{Source: src, Output: "value", Dest: ghost, Input: "slice"},
	}, liveSet(src, dst))

	if d := cmp.Diff([]string{"value->" + dst.ID()}, src.asSource); d != "" {
		t.Errorf("source hook calls mismatch:\n%s", d)
	}
	if d := cmp.Diff([]string{src.ID() + "->slice"}, dst.asDest); d != "" {
		t.Errorf("destination hook calls mismatch:\n%s", d)
	}
}

func TestBindingStatement(t *testing.T) {
	b := Binding{SourceID: "e1", Output: "click", DestID: "e2", Input: "show"}
	if got, want := b.Statement(), `sp.bind("e1", "click", "e2", "show");`; got != want {
		t.Errorf("Statement() = %s, want %s", got, want)
	}
	if got := b.Key(); got != "e2/show" {
		t.Errorf("Key() = %s, want e2/show", got)
	}
}

func TestRegistryKeepsDuplicates(t *testing.T) {
	a, b := newLeaf(1, 1), newLeaf(1, 1)
	r := NewRegistry()
	c := Connection{Source: a, Output: "x", Dest: b, Input: "y"}
	r.Add(c)
	r.Add(c)
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}

	all := r.All()
	all[0].Output = "mutated"
	if r.All()[0].Output != "x" {
		t.Error("All() must return a copy")
	}
}
