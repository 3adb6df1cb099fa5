package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"unicode/utf8"
)

const (
	fontCharWidth  = 0.55
	fontLineHeight = 1.25
)

// TextExtent estimates the box a single line of text occupies. Real font
// metrics are out of reach here; a fixed average glyph width is close enough
// for layout slack.
func TextExtent(text string, fontSize float64) (w, h float64) {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0, 0
	}
	return float64(n) * fontSize * fontCharWidth, fontSize * fontLineHeight
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func WrapURL(buf *bytes.Buffer, url string, fn func()) {
	if url != "" {
		fmt.Fprintf(buf, `<a href="%s" target="_blank">`, EscapeXML(url))
	}
	fn()
	if url != "" {
		buf.WriteString("</a>")
	}
}
