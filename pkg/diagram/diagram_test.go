package diagram

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// scripted is a leaf with client-side behaviour and a configure phase.
type scripted struct {
	*leaf
	configured int
}

func (s *scripted) Configure(Format) error {
	s.configured++
	return nil
}

func (s *scripted) Behaviour() (string, string) {
	return "scripted", "\n      sp.subscribe(id, 'ping', function () {});"
}

func (s *scripted) ClientConfig() map[string]any {
	return map[string]any{"kind": "scripted", "label": "</script>"}
}

func TestRenderStacksTopLevelElements(t *testing.T) {
	a, b := newLeaf(100, 50), newLeaf(60, 30)
	b.SetJustification(JustifyLeft)

	d := New(WithMargin(10), WithSpacing(20))
	d.Add(a).Add(b)

	doc, err := d.Render(FormatSVG)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if doc.Width != 120 || doc.Height != 120 {
		t.Errorf("document extent = %vx%v, want 120x120", doc.Width, doc.Height)
	}
	if a.placedAt != [2]float64{60, 35} {
		t.Errorf("first element placed at %v, want [60 35]", a.placedAt)
	}
	if b.placedAt != [2]float64{40, 95} {
		t.Errorf("left-justified element placed at %v, want [40 95]", b.placedAt)
	}

	p, ok := doc.Placement(b.ID())
	if !ok {
		t.Fatalf("Placement(%s) not recorded", b.ID())
	}
	if p.Kind != "leaf" || p.Width != 60 || p.Height != 30 {
		t.Errorf("Placement = %+v", p)
	}
}

func TestRenderEmptyDiagram(t *testing.T) {
	doc, err := New(WithMargin(0)).Render(FormatSVG)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if doc.Width != 0 || doc.Height != 0 {
		t.Errorf("empty diagram extent = %vx%v, want 0x0", doc.Width, doc.Height)
	}
}

func TestRenderTwiceFails(t *testing.T) {
	d := New()
	d.Add(newLeaf(10, 10))
	if _, err := d.Render(FormatSVG); err != nil {
		t.Fatalf("first Render() error = %v", err)
	}
	if _, err := d.Render(FormatSVG); !errors.Is(err, errors.ErrCodeLifecycle) {
		t.Errorf("second Render() error = %v, want LIFECYCLE", err)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	if _, err := New().Render(Format("pdf")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Render(pdf) error = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderPropagatesMeasureErrors(t *testing.T) {
	l := newLeaf(10, 10)
	l.fail = errors.New(errors.ErrCodeLayout, "does not fit")
	d := New()
	d.Add(l)
	if _, err := d.Render(FormatSVG); !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("Render() error = %v, want LAYOUT", err)
	}
}

func TestAddOwnedElementFails(t *testing.T) {
	l := newLeaf(10, 10)
	if err := Claim(l, "someone-else"); err != nil {
		t.Fatal(err)
	}
	d := New()
	d.Add(l)
	if _, err := d.Render(FormatSVG); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Render() error = %v, want INVALID_CONFIG", err)
	}
}

func TestConnectValidatesChannels(t *testing.T) {
	a, b := newLeaf(1, 1), newLeaf(1, 1)
	d := New()
	tests := []struct {
		name    string
		src     Element
		out, in string
		wantErr bool
	}{
		{"valid", a, "click", "show", false},
		{"nil source", nil, "click", "show", true},
		{"empty output", a, "", "show", true},
		{"bad input", a, "click", "has space", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.Connect(tt.src, tt.out, b, tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("Connect() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStaticRenderHasNoScript(t *testing.T) {
	s := &scripted{leaf: newLeaf(10, 10)}
	d := New()
	d.Add(s)

	doc, err := d.Render(FormatSVG)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if bytes.Contains(doc.Markup, []byte("<script")) {
		t.Error("static document contains a script block")
	}
	if s.configured != 1 {
		t.Errorf("Configure ran %d times, want 1", s.configured)
	}
}

func TestInteractiveRenderEmitsBindings(t *testing.T) {
	a := &scripted{leaf: newLeaf(10, 10)}
	b := &scripted{leaf: newLeaf(10, 10)}
	removed := newLeaf(10, 10)

	var logs bytes.Buffer
	d := New(WithLogger(log.New(&logs)), WithTitle("demo & co"))
	d.Add(a).Add(b)
	if err := d.Connect(a, "ping", b, "ping"); err != nil {
		t.Fatal(err)
	}
	if err := d.Connect(removed, "ping", b, "ping"); err != nil {
		t.Fatal(err)
	}

	doc, err := d.Render(FormatInteractive)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	markup := string(doc.Markup)

	wantBind := (Binding{SourceID: a.ID(), Output: "ping", DestID: b.ID(), Input: "ping"}).Statement()
	for _, want := range []string{
		"<title>demo &amp; co</title>",
		"<![CDATA[",
		wantBind,
		"window.addEventListener('load', sp.start);",
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q", want)
		}
	}
	if strings.Contains(markup, strconv.Quote(removed.ID())) {
		t.Error("dangling connection leaked into the document")
	}
	if strings.Contains(markup, "</script>\"") {
		t.Error("client config was not escaped")
	}
	if n := strings.Count(markup, `sp.behaviour("scripted"`); n != 1 {
		t.Errorf("behaviour emitted %d times, want 1", n)
	}
	if len(doc.Dropped) != 1 {
		t.Errorf("Dropped = %d, want 1", len(doc.Dropped))
	}
	if !strings.Contains(logs.String(), "dangling") {
		t.Error("dropped connection was not logged")
	}
}

func TestRemoveDropsConnections(t *testing.T) {
	a, b := newLeaf(10, 10), newLeaf(10, 10)
	d := New()
	d.Add(a).Add(b)
	if err := d.Connect(a, "x", b, "y"); err != nil {
		t.Fatal(err)
	}
	if !d.Remove(b) {
		t.Fatal("Remove() = false")
	}
	if d.Remove(b) {
		t.Error("second Remove() = true")
	}

	doc, err := d.Render(FormatInteractive)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(doc.Bindings) != 0 {
		t.Errorf("Bindings = %v, want none", doc.Bindings)
	}
}

func TestRemoveReleasesOwnership(t *testing.T) {
	l := newLeaf(10, 10)
	d := New()
	d.Add(l)
	d.Remove(l)

	if err := Claim(l, "box"); err != nil {
		t.Errorf("Claim() after Remove() error = %v, want nil", err)
	}

	other := New()
	other.Add(newLeaf(5, 5))
	kept := newLeaf(5, 5)
	other.Add(kept)
	Release(kept, "someone-else")
	if err := Claim(kept, "box"); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Release() by a non-owner should keep the claim, Claim() error = %v", err)
	}
}

func TestConnectTyped(t *testing.T) {
	a, b := newLeaf(10, 10), newLeaf(10, 10)
	d := New()
	d.Add(a).Add(b)
	if err := ConnectTyped(d, a, VisibilityChannel, b, VisibilityChannel); err != nil {
		t.Fatalf("ConnectTyped() error = %v", err)
	}
	conns := d.Connections()
	if len(conns) != 1 || conns[0].Output != "show" || conns[0].Input != "show" {
		t.Errorf("Connections() = %v", conns)
	}
}
