package styles

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestMerge(t *testing.T) {
	base := Default()
	got := base.Merge(Style{FontSize: 20, Fill: "red"})

	if got.FontSize != 20 {
		t.Errorf("FontSize = %v, want 20", got.FontSize)
	}
	if got.Fill != "red" {
		t.Errorf("Fill = %v, want red", got.Fill)
	}
	if got.FontFamily != base.FontFamily {
		t.Errorf("FontFamily = %v, want inherited %v", got.FontFamily, base.FontFamily)
	}
}

func TestTextAttrs(t *testing.T) {
	base := Default()
	if got := base.TextAttrs(base); got != "" {
		t.Errorf("TextAttrs(self) = %q, want empty", got)
	}

	over := base.Merge(Style{TextColour: "#ff0000"})
	if got := over.TextAttrs(base); got != ` fill="#ff0000"` {
		t.Errorf("TextAttrs() = %q", got)
	}
}

func TestRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	Default().RenderDefs(&buf)
	out := buf.String()
	for _, want := range []string{"<style>", ".sp-text", ".sp-shape", "</style>"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDefs() missing %q", want)
		}
	}
}

func TestTextExtent(t *testing.T) {
	tests := []struct {
		text  string
		size  float64
		wantW float64
		wantH float64
	}{
		{"", 10, 0, 0},
		{"ab", 10, 11, 12.5},
		{"ä", 20, 11, 25},
	}

	for _, tt := range tests {
		w, h := TextExtent(tt.text, tt.size)
		if math.Abs(w-tt.wantW) > 1e-9 || math.Abs(h-tt.wantH) > 1e-9 {
			t.Errorf("TextExtent(%q, %v) = (%v, %v), want (%v, %v)", tt.text, tt.size, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`<a & "b">`); got != "&lt;a &amp; &#34;b&#34;&gt;" {
		t.Errorf("EscapeXML() = %q", got)
	}
}
