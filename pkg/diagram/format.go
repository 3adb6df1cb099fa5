package diagram

import (
	"github.com/matzehuels/stackplot/pkg/errors"
)

// Format selects the document variant produced by [Diagram.Render].
type Format string

const (
	// FormatSVG is a self-contained static SVG document without script.
	FormatSVG Format = "svg"
	// FormatInteractive is an SVG document embedding the dispatch runtime
	// and the generated bindings.
	FormatInteractive Format = "interactive"
)

// ParseFormat converts a format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatInteractive:
		return Format(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, interactive)", s)
}

// Interactive reports whether documents in this format carry client code.
func (f Format) Interactive() bool { return f == FormatInteractive }
