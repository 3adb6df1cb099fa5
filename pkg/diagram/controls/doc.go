// Package controls provides leaf elements: plain shapes and text, and the
// interactive controls that publish on channels (buttons, sliders, pan/zoom
// pads, legends).
//
// Controls never reference the elements they drive. Connect their outputs
// through [diagram.Diagram.Connect] or [diagram.ConnectTyped]:
//
//	legend := controls.NewLegend(entries...)
//	_ = diagram.ConnectTyped(d, legend, diagram.ColourChannel, rect, diagram.ColourChannel)
package controls
