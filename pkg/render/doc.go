// Package render converts rendered SVG documents into raster and print
// formats.
//
// [ToPNG] and [ToPDF] shell out to rsvg-convert (from librsvg), which must
// be on PATH:
//
//	png, err := render.ToPNG(ctx, doc.Markup, 2.0) // 2x scale
//	pdf, err := render.ToPDF(ctx, doc.Markup)
//
// Interactive documents convert too, but the script is ignored: the output
// shows the initial state.
package render
