package spec

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/diagram/controls"
	"github.com/matzehuels/stackplot/pkg/diagram/geo"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// sequentialIDs restarts element numbering so two builds produce the same
// ids. It restores the previous source when the test ends.
func sequentialIDs(t *testing.T) {
	t.Helper()
	n := 0
	prev := diagram.SetIDSource(func() string {
		n++
		return fmt.Sprintf("t%d", n)
	})
	t.Cleanup(func() { diagram.SetIDSource(prev) })
}

func mustLoad(t *testing.T, path string) *File {
	t.Helper()
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", path, err)
	}
	return f
}

func renderFile(t *testing.T, f *File, format diagram.Format) (*Built, *diagram.Document) {
	t.Helper()
	b, err := Build(f)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	doc, err := b.Diagram.Render(format)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return b, doc
}

func TestTOMLAndYAMLAgree(t *testing.T) {
	fromTOML := mustLoad(t, "testdata/fruit.toml")
	fromYAML := mustLoad(t, "testdata/fruit.yaml")

	if diff := cmp.Diff(fromTOML, fromYAML); diff != "" {
		t.Fatalf("decoded files differ (-toml +yaml):\n%s", diff)
	}

	ct, err := fromTOML.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	cy, err := fromYAML.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ct, cy) {
		t.Error("Canonical() differs between encodings")
	}

	sequentialIDs(t)
	_, docTOML := renderFile(t, fromTOML, diagram.FormatInteractive)
	sequentialIDs(t)
	_, docYAML := renderFile(t, fromYAML, diagram.FormatInteractive)
	if !bytes.Equal(docTOML.Markup, docYAML.Markup) {
		t.Error("documents differ between encodings")
	}
}

func TestBuildResolvesNames(t *testing.T) {
	b, doc := renderFile(t, mustLoad(t, "testdata/fruit.toml"), diagram.FormatInteractive)

	apples, ok := b.Lookup("apples")
	if !ok {
		t.Fatal("Lookup(apples) found nothing")
	}
	if _, ok := apples.(*controls.Rect); !ok {
		t.Errorf("apples is %T, want *controls.Rect", apples)
	}
	if got := b.NameOf(apples.ID()); got != "apples" {
		t.Errorf("NameOf(%s) = %q, want apples", apples.ID(), got)
	}
	if got := b.NameOf("unknown"); got != "unknown" {
		t.Errorf("NameOf(unknown) = %q, want the id back", got)
	}

	legend, _ := b.Lookup("legend")
	want := []diagram.Binding{{SourceID: legend.ID(), Output: "colour", DestID: apples.ID(), Input: "colour"}}
	if diff := cmp.Diff(want, doc.Bindings); diff != "" {
		t.Errorf("Bindings mismatch (-want +got):\n%s", diff)
	}

	caption, _ := b.Lookup("caption")
	if caption.Justification() != diagram.JustifyRight {
		t.Errorf("caption justification = %v, want right", caption.Justification())
	}
	if !strings.Contains(string(doc.Markup), "<title>Fruit &amp; veg</title>") {
		t.Error("title missing from document")
	}
}

func TestBuildAtlas(t *testing.T) {
	b, doc := renderFile(t, mustLoad(t, "testdata/atlas.yaml"), diagram.FormatInteractive)

	north, _ := b.Lookup("north")
	m := north.(*geo.Map)
	if !m.Zoomable() {
		t.Error("north map should be zoomable")
	}
	layers := m.Layers()
	if len(layers) != 2 {
		t.Fatalf("north has %d layers, want 2", len(layers))
	}

	picker, _ := b.Lookup("picker")
	if n := len(picker.(*controls.ButtonGrid).Buttons()); n != 2 {
		t.Errorf("picker has %d buttons, want 2", n)
	}

	// three declared connections, one per button, one map window
	if len(doc.Bindings) != 6 {
		t.Errorf("Bindings = %d, want 6: %v", len(doc.Bindings), doc.Bindings)
	}
	if len(doc.Dropped) != 0 {
		t.Errorf("Dropped = %v, want none", doc.Dropped)
	}
}

func TestValidate(t *testing.T) {
	rect := func(name, parent string) Element {
		return Element{Name: name, Kind: KindRect, Parent: parent, Width: 1, Height: 1}
	}
	tests := []struct {
		name string
		file File
	}{
		{
			name: "empty name",
			file: File{Elements: []Element{{Kind: KindRect}}},
		},
		{
			name: "duplicate name",
			file: File{Elements: []Element{rect("a", ""), rect("a", "")}},
		},
		{
			name: "unknown kind",
			file: File{Elements: []Element{{Name: "a", Kind: "pie"}}},
		},
		{
			name: "unknown parent",
			file: File{Elements: []Element{rect("a", "nowhere")}},
		},
		{
			name: "leaf parent",
			file: File{Elements: []Element{rect("a", ""), rect("b", "a")}},
		},
		{
			name: "layer outside map",
			file: File{Elements: []Element{{Name: "c", Kind: KindCompass}}},
		},
		{
			name: "rect inside map",
			file: File{Elements: []Element{{Name: "m", Kind: KindMap, Width: 10}, rect("a", "m")}},
		},
		{
			name: "box with two children",
			file: File{Elements: []Element{{Name: "b", Kind: KindBox}, rect("x", "b"), rect("y", "b")}},
		},
		{
			name: "empty box",
			file: File{Elements: []Element{{Name: "b", Kind: KindBox}}},
		},
		{
			name: "parent cycle",
			file: File{Elements: []Element{
				{Name: "a", Kind: KindSequence, Parent: "b"},
				{Name: "b", Kind: KindSequence, Parent: "a"},
			}},
		},
		{
			name: "bad bounds",
			file: File{Elements: []Element{{Name: "m", Kind: KindMap, Bounds: []float64{1, 2}}}},
		},
		{
			name: "connection to unknown element",
			file: File{
				Elements:    []Element{rect("a", "")},
				Connections: []Connection{{From: "a", Output: "x", To: "ghost", Input: "y"}},
			},
		},
		{
			name: "bad channel name",
			file: File{
				Elements:    []Element{rect("a", ""), rect("b", "")},
				Connections: []Connection{{From: "a", Output: "has space", To: "b", Input: "y"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.file.Validate()
			if !errors.Is(err, errors.ErrCodeInvalidSpec) {
				t.Errorf("Validate() error = %v, want INVALID_SPEC", err)
			}
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		enc  Encoding
		data string
	}{
		{EncodingTOML, "[[elements]]\nname = \"a\"\nkind = \"rect\"\ncolor = \"#fff\"\n"},
		{EncodingYAML, "elements:\n  - name: a\n    kind: rect\n    color: \"#fff\"\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.enc), func(t *testing.T) {
			if _, err := Decode([]byte(tt.data), tt.enc); !errors.Is(err, errors.ErrCodeInvalidSpec) {
				t.Errorf("Decode() error = %v, want INVALID_SPEC", err)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, enc := range []Encoding{EncodingTOML, EncodingYAML} {
		f, err := Decode(nil, enc)
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", enc, err)
		}
		_, doc := renderFile(t, f, diagram.FormatSVG)
		if doc.Width != 2*diagram.DefaultMargin || doc.Height != 2*diagram.DefaultMargin {
			t.Errorf("empty document is %vx%v", doc.Width, doc.Height)
		}
	}
}

func TestBuildPropagatesConstructorErrors(t *testing.T) {
	f := &File{Elements: []Element{{Name: "bar", Kind: KindRect, Width: -1}}}
	_, err := Build(f)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Build() error = %v, want INVALID_CONFIG", err)
	}
	if !strings.Contains(err.Error(), `"bar"`) {
		t.Errorf("error %q should name the element", err)
	}
}

func TestEncodingFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Encoding
		wantErr bool
	}{
		{"a.toml", EncodingTOML, false},
		{"dir/a.YAML", EncodingYAML, false},
		{"a.yml", EncodingYAML, false},
		{"a.json", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := EncodingFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("EncodingFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("EncodingFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEncodingFromContentType(t *testing.T) {
	tests := []struct {
		ct   string
		want Encoding
	}{
		{"", EncodingTOML},
		{"application/toml", EncodingTOML},
		{"application/yaml", EncodingYAML},
		{"text/x-yaml; charset=utf-8", EncodingYAML},
	}
	for _, tt := range tests {
		if got := EncodingFromContentType(tt.ct); got != tt.want {
			t.Errorf("EncodingFromContentType(%q) = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/nope.toml"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}
