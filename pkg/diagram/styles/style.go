// Package styles holds the default style record that text-bearing elements
// inherit, plus the small set of XML/text helpers every element uses when it
// writes markup.
package styles

import (
	"bytes"
	"fmt"
)

// Style is the default style record of a diagram. Elements inherit it unless
// they carry their own override; zero-valued fields in an override mean
// "inherit".
type Style struct {
	FontFamily  string  `toml:"font_family" yaml:"font_family" json:"font_family,omitempty"`
	FontSize    float64 `toml:"font_size" yaml:"font_size" json:"font_size,omitempty"`
	FontWeight  string  `toml:"font_weight" yaml:"font_weight" json:"font_weight,omitempty"`
	TextColour  string  `toml:"text_colour" yaml:"text_colour" json:"text_colour,omitempty"`
	Fill        string  `toml:"fill" yaml:"fill" json:"fill,omitempty"`
	Stroke      string  `toml:"stroke" yaml:"stroke" json:"stroke,omitempty"`
	StrokeWidth float64 `toml:"stroke_width" yaml:"stroke_width" json:"stroke_width,omitempty"`
	Background  string  `toml:"background" yaml:"background" json:"background,omitempty"`
}

// Default returns the built-in style used when a diagram sets none.
func Default() Style {
	return Style{
		FontFamily:  "Helvetica, Arial, sans-serif",
		FontSize:    14,
		FontWeight:  "normal",
		TextColour:  "#222222",
		Fill:        "#4c78a8",
		Stroke:      "#333333",
		StrokeWidth: 1,
	}
}

// Merge returns s with every non-zero field of over applied on top.
func (s Style) Merge(over Style) Style {
	if over.FontFamily != "" {
		s.FontFamily = over.FontFamily
	}
	if over.FontSize > 0 {
		s.FontSize = over.FontSize
	}
	if over.FontWeight != "" {
		s.FontWeight = over.FontWeight
	}
	if over.TextColour != "" {
		s.TextColour = over.TextColour
	}
	if over.Fill != "" {
		s.Fill = over.Fill
	}
	if over.Stroke != "" {
		s.Stroke = over.Stroke
	}
	if over.StrokeWidth > 0 {
		s.StrokeWidth = over.StrokeWidth
	}
	if over.Background != "" {
		s.Background = over.Background
	}
	return s
}

// RenderDefs writes the default-style block. Elements reference the
// classes below instead of repeating font attributes on every node.
func (s Style) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <style>\n")
	fmt.Fprintf(buf, "    .sp-text { font-family: %s; font-size: %.1fpx; font-weight: %s; fill: %s; }\n",
		EscapeXML(s.FontFamily), s.FontSize, EscapeXML(s.FontWeight), EscapeXML(s.TextColour))
	fmt.Fprintf(buf, "    .sp-shape { fill: %s; stroke: %s; stroke-width: %.1f; }\n",
		EscapeXML(s.Fill), EscapeXML(s.Stroke), s.StrokeWidth)
	buf.WriteString("    .sp-control { cursor: pointer; }\n")
	buf.WriteString("    .sp-popup { pointer-events: none; }\n")
	buf.WriteString("  </style>\n")
}

// TextAttrs returns inline presentation attributes for the fields of s that
// differ from base. It returns "" when s adds nothing.
func (s Style) TextAttrs(base Style) string {
	var buf bytes.Buffer
	if s.FontFamily != base.FontFamily {
		fmt.Fprintf(&buf, ` font-family="%s"`, EscapeXML(s.FontFamily))
	}
	if s.FontSize != base.FontSize {
		fmt.Fprintf(&buf, ` font-size="%.1f"`, s.FontSize)
	}
	if s.FontWeight != base.FontWeight {
		fmt.Fprintf(&buf, ` font-weight="%s"`, EscapeXML(s.FontWeight))
	}
	if s.TextColour != base.TextColour {
		fmt.Fprintf(&buf, ` fill="%s"`, EscapeXML(s.TextColour))
	}
	return buf.String()
}
