package spec

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/stackplot/pkg/diagram/styles"
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Encoding identifies the syntax of a description.
type Encoding string

const (
	EncodingTOML Encoding = "toml"
	EncodingYAML Encoding = "yaml"
)

// File is a decoded description.
type File struct {
	Diagram     Diagram      `toml:"diagram" yaml:"diagram" json:"diagram"`
	Elements    []Element    `toml:"elements" yaml:"elements" json:"elements"`
	Connections []Connection `toml:"connections" yaml:"connections" json:"connections,omitempty"`
}

// Diagram holds document-wide settings.
type Diagram struct {
	Title   string       `toml:"title" yaml:"title" json:"title,omitempty"`
	Margin  *float64     `toml:"margin" yaml:"margin" json:"margin,omitempty"`
	Spacing *float64     `toml:"spacing" yaml:"spacing" json:"spacing,omitempty"`
	Style   styles.Style `toml:"style" yaml:"style" json:"style"`
}

// Element describes one element. Kind selects the constructor; fields that
// do not apply to a kind are ignored.
type Element struct {
	Name    string `toml:"name" yaml:"name" json:"name"`
	Kind    string `toml:"kind" yaml:"kind" json:"kind"`
	Parent  string `toml:"parent" yaml:"parent" json:"parent,omitempty"`
	Justify string `toml:"justify" yaml:"justify" json:"justify,omitempty"`

	// Row and Col place a child of a grid.
	Row int `toml:"row" yaml:"row" json:"row,omitempty"`
	Col int `toml:"col" yaml:"col" json:"col,omitempty"`

	// Foreground draws a map layer above the clipped layers.
	Foreground bool `toml:"foreground" yaml:"foreground" json:"foreground,omitempty"`

	Width  float64 `toml:"width" yaml:"width" json:"width,omitempty"`
	Height float64 `toml:"height" yaml:"height" json:"height,omitempty"`
	Fill   string  `toml:"fill" yaml:"fill" json:"fill,omitempty"`

	Text  string        `toml:"text" yaml:"text" json:"text,omitempty"`
	Link  string        `toml:"link" yaml:"link" json:"link,omitempty"`
	Style *styles.Style `toml:"style" yaml:"style" json:"style,omitempty"`

	Orientation string   `toml:"orientation" yaml:"orientation" json:"orientation,omitempty"`
	Spacing     *float64 `toml:"spacing" yaml:"spacing" json:"spacing,omitempty"`
	FixedWidth  float64  `toml:"fixed_width" yaml:"fixed_width" json:"fixed_width,omitempty"`
	FixedHeight float64  `toml:"fixed_height" yaml:"fixed_height" json:"fixed_height,omitempty"`
	CellInsets  float64  `toml:"cell_insets" yaml:"cell_insets" json:"cell_insets,omitempty"`

	Margin       float64 `toml:"margin" yaml:"margin" json:"margin,omitempty"`
	Padding      float64 `toml:"padding" yaml:"padding" json:"padding,omitempty"`
	Border       float64 `toml:"border" yaml:"border" json:"border,omitempty"`
	BorderColour string  `toml:"border_colour" yaml:"border_colour" json:"border_colour,omitempty"`

	Selected int `toml:"selected" yaml:"selected" json:"selected,omitempty"`

	Columns int           `toml:"columns" yaml:"columns" json:"columns,omitempty"`
	Buttons []string      `toml:"buttons" yaml:"buttons" json:"buttons,omitempty"`
	Values  []string      `toml:"values" yaml:"values" json:"values,omitempty"`
	Cell    float64       `toml:"cell" yaml:"cell" json:"cell,omitempty"`
	Entries []LegendEntry `toml:"entries" yaml:"entries" json:"entries,omitempty"`

	Bounds   []float64 `toml:"bounds" yaml:"bounds" json:"bounds,omitempty"`
	Zoom     bool      `toml:"zoom" yaml:"zoom" json:"zoom,omitempty"`
	Features []Feature `toml:"features" yaml:"features" json:"features,omitempty"`
	Radius   float64   `toml:"radius" yaml:"radius" json:"radius,omitempty"`
	Size     float64   `toml:"size" yaml:"size" json:"size,omitempty"`
}

// LegendEntry is one row of a legend.
type LegendEntry struct {
	Label  string `toml:"label" yaml:"label" json:"label"`
	Colour string `toml:"colour" yaml:"colour" json:"colour"`
}

// Feature is one location of a points layer.
type Feature struct {
	Name   string  `toml:"name" yaml:"name" json:"name"`
	Lon    float64 `toml:"lon" yaml:"lon" json:"lon"`
	Lat    float64 `toml:"lat" yaml:"lat" json:"lat"`
	Colour string  `toml:"colour" yaml:"colour" json:"colour,omitempty"`
}

// Connection wires an output of one named element to an input of another.
type Connection struct {
	From   string `toml:"from" yaml:"from" json:"from"`
	Output string `toml:"output" yaml:"output" json:"output"`
	To     string `toml:"to" yaml:"to" json:"to"`
	Input  string `toml:"input" yaml:"input" json:"input"`
}

// EncodingFromPath picks the encoding from a file extension.
func EncodingFromPath(path string) (Encoding, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return EncodingTOML, nil
	case ".yaml", ".yml":
		return EncodingYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSpec, "unsupported description file %q (must be .toml, .yaml or .yml)", path)
}

// EncodingFromContentType picks the encoding from an HTTP media type.
// Unknown or empty media types default to TOML.
func EncodingFromContentType(ct string) Encoding {
	ct = strings.ToLower(ct)
	if strings.Contains(ct, "yaml") {
		return EncodingYAML
	}
	return EncodingTOML
}

// ParseEncoding converts a name into an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(s)) {
	case EncodingTOML:
		return EncodingTOML, nil
	case EncodingYAML, "yml":
		return EncodingYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSpec, "unsupported encoding %q (must be toml or yaml)", s)
}

// Decode parses data in the given encoding and validates the result.
func Decode(data []byte, enc Encoding) (*File, error) {
	var f File
	switch enc {
	case EncodingTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode TOML")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidSpec, "unknown field %q", undecoded[0].String())
		}
	case EncodingYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidSpec, err, "decode YAML")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidSpec, "unsupported encoding %q", enc)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and decodes the description at path.
func Load(path string) (*File, error) {
	enc, err := EncodingFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return Decode(data, enc)
}

// Canonical returns an encoding-independent serialization of f. Two
// descriptions that decode to the same File produce the same bytes.
func (f *File) Canonical() ([]byte, error) {
	return json.Marshal(f)
}

// Element returns the element named name.
func (f *File) Element(name string) (Element, bool) {
	for _, e := range f.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return Element{}, false
}
