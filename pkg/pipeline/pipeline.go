// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP service.
//
// A run decodes a declarative description (see [spec]), builds a fresh
// element graph for every document it needs, renders it and converts the
// result into the requested artifacts. Centralizing this keeps caching,
// logging and hooks identical across entry points.
//
// # Stages
//
//  1. Decode: parse TOML or YAML into a [spec.File] and hash its canonical
//     form. The hash, not the raw bytes, keys the cache, so a TOML file and
//     its YAML translation share entries.
//  2. Render: build and render one document per diagram format the
//     requested artifacts need (svg, interactive).
//  3. Export: derive every artifact from those documents: markup, the
//     JSON placement export, the wiring graph, PNG and PDF.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Spec:     data,
//	    Encoding: spec.EncodingTOML,
//	    Formats:  []string{"interactive", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	html := result.Artifacts["interactive"]
//
// [spec]: github.com/matzehuels/stackplot/pkg/spec
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackplot/pkg/diagram"
	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/spec"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats. svg and interactive are the two document formats; the
// others are derived from one of them.
const (
	FormatSVG         = string(diagram.FormatSVG)
	FormatInteractive = string(diagram.FormatInteractive)
	FormatJSON        = "json"
	FormatPNG         = "png"
	FormatPDF         = "pdf"
	FormatDOT         = "dot"
	FormatWiring      = "wiring"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:         true,
	FormatInteractive: true,
	FormatJSON:        true,
	FormatPNG:         true,
	FormatPDF:         true,
	FormatDOT:         true,
	FormatWiring:      true,
}

// Extensions maps each format to the file extension the CLI writes.
var Extensions = map[string]string{
	FormatSVG:         ".svg",
	FormatInteractive: ".svg",
	FormatJSON:        ".json",
	FormatPNG:         ".png",
	FormatPDF:         ".pdf",
	FormatDOT:         ".dot",
	FormatWiring:      ".wiring.svg",
}

// ContentTypes maps each format to its HTTP media type.
var ContentTypes = map[string]string{
	FormatSVG:         "image/svg+xml",
	FormatInteractive: "image/svg+xml",
	FormatJSON:        "application/json",
	FormatPNG:         "image/png",
	FormatPDF:         "application/pdf",
	FormatDOT:         "text/vnd.graphviz",
	FormatWiring:      "image/svg+xml",
}

// documentFormat is the diagram format an output is derived from.
func documentFormat(format string) diagram.Format {
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		return diagram.FormatSVG
	default:
		// json and the wiring graph need the bindings only the
		// interactive render installs
		return diagram.FormatInteractive
	}
}

// isWiring reports whether format draws the connection graph.
func isWiring(format string) bool { return format == FormatDOT || format == FormatWiring }

// =============================================================================
// Options
// =============================================================================

// DefaultScale is the PNG scale factor.
const DefaultScale = 2.0

// Options configures one pipeline run.
type Options struct {
	// Spec is the raw description.
	Spec []byte `json:"-"`
	// Encoding selects the decoder; empty means TOML.
	Encoding spec.Encoding `json:"encoding,omitempty"`
	// Name identifies the run in logs and hooks, usually the file path.
	Name string `json:"name,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// SetRenderDefaults fills unset fields.
func (o *Options) SetRenderDefaults() {
	if o.Encoding == "" {
		o.Encoding = spec.EncodingTOML
	}
	if o.Name == "" {
		o.Name = "<stdin>"
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateAndSetDefaults applies defaults and checks every field. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	enc, err := spec.ParseEncoding(string(o.Encoding))
	if err != nil {
		return err
	}
	o.Encoding = enc
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must not be negative, got %v", o.Scale)
	}
	o.Formats = dedupe(o.Formats)
	o.validated = true
	return nil
}

func dedupe(formats []string) []string {
	var out []string
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Validation
// =============================================================================

// FormatNames returns the supported formats, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return names
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Name is the run name from Options.
	Name string

	// SpecHash is the content hash of the canonical description.
	SpecHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Bindings and Dropped count the resolved and dangling connections of
	// the last document rendered. Both are zero when every artifact came
	// from the cache.
	Bindings int
	Dropped  int

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Elements   int
	DecodeTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which artifacts came from the cache.
type CacheInfo struct {
	Hits   []string
	Misses []string
}

// AllHit reports whether no artifact had to be rendered.
func (c CacheInfo) AllHit() bool { return len(c.Misses) == 0 }

func (r *Result) String() string {
	return fmt.Sprintf("%s: %d artifacts, %d bindings, %d dropped", r.Name, len(r.Artifacts), r.Bindings, r.Dropped)
}
