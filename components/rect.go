package components

// Rect is an axis-aligned containment rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// ContainsCircle reports whether a circle of the given radius at p fits entirely inside r.
func (r Rect) ContainsCircle(p Vector, radius float64) bool {
	return p.X-radius >= r.MinX && p.X+radius <= r.MaxX &&
		p.Y-radius >= r.MinY && p.Y+radius <= r.MaxY
}
