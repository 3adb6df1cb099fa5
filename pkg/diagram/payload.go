package diagram

// Channel is a channel name tied to a payload shape. Connecting two typed
// channels with [ConnectTyped] only compiles when both carry the same
// payload, which catches mismatched wiring of the common bindings. The
// client runtime still sees plain channel names.
type Channel[T any] struct {
	Name string
}

// ColourSelection is published when the user picks a category colour, e.g.
// by clicking a legend entry.
type ColourSelection struct {
	Category string `json:"category"`
	Colour   string `json:"colour"`
}

// SliceSelection selects one value out of a discrete set, e.g. a slider
// position or a time slice.
type SliceSelection struct {
	Index int    `json:"index"`
	Value string `json:"value"`
}

// VisibilityToggle selects which alternative, layer or series is shown.
type VisibilityToggle struct {
	Index int `json:"index"`
}

// Window is a rectangular view window in the publisher's own coordinates.
type Window struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pan moves a view window by a fraction of its own extent.
type Pan struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// Zoom scales a view window around its center. Factors above one zoom in.
type Zoom struct {
	Factor float64 `json:"factor"`
}

// Well-known channels.
var (
	ColourChannel     = Channel[ColourSelection]{Name: "colour"}
	SliceChannel      = Channel[SliceSelection]{Name: "slice"}
	VisibilityChannel = Channel[VisibilityToggle]{Name: "show"}
	WindowChannel     = Channel[Window]{Name: "visible_window"}
	PanChannel        = Channel[Pan]{Name: "pan"}
	ZoomChannel       = Channel[Zoom]{Name: "zoom"}
)

// ConnectTyped registers a connection between two channels sharing the
// payload type T.
func ConnectTyped[T any](d *Diagram, source Element, output Channel[T], dest Element, input Channel[T]) error {
	return d.Connect(source, output.Name, dest, input.Name)
}
