package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// ValidateExtent checks that a size, spacing or inset value is usable.
// Negative, NaN and infinite values are rejected at construction time so
// that layout never has to deal with them.
func ValidateExtent(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s cannot be negative, got %v", name, v)
	}
	return nil
}

// channelNameRegex matches channel names usable as dispatch keys.
var channelNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// ValidateChannelName validates a channel name.
// Channel names are free-form but end up as keys in generated client code,
// so quotes, slashes and whitespace are rejected.
func ValidateChannelName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidChannel, "channel name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidChannel, "channel name too long (max 128 characters)")
	}
	if !channelNameRegex.MatchString(name) {
		return New(ErrCodeInvalidChannel, "invalid channel name: %q", name)
	}
	return nil
}

// ValidateElementName validates a spec-local element name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No whitespace
//   - Maximum length of 128 characters
func ValidateElementName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSpec, "element name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidSpec, "element name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidSpec, "element name contains invalid characters: %q", name)
		}
	}
	return nil
}

// ValidateURL validates a link target for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidConfig, "URL must use http or https scheme")
	}

	return nil
}
