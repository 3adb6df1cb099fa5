package diagram

// Placement records where an element ended up. Coordinates are the center
// of the element's bounding box in document units.
type Placement struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Document is the result of one render.
type Document struct {
	Format     Format
	Markup     []byte
	Width      float64
	Height     float64
	Placements []Placement
	Bindings   []Binding
	// Dropped lists connections omitted because an endpoint was not part of
	// the rendered element set.
	Dropped []Connection
}

// Placement returns the placement record for id.
func (d *Document) Placement(id string) (Placement, bool) {
	for _, p := range d.Placements {
		if p.ID == id {
			return p, true
		}
	}
	return Placement{}, false
}
