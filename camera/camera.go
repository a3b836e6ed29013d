// Package camera maps the bounded arena onto the window.
package camera

// Camera controls the viewport into the arena.
// At zoom 1 the whole arena fits the viewport with a margin.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom is relative to the fitted scale (1.0 = whole arena visible)
	Zoom float32

	ViewportW, ViewportH float32
	WorldW, WorldH       float32

	// Margin is the screen border kept around the arena at zoom 1
	Margin float32

	MinZoom, MaxZoom float32
}

// New creates a camera that fits the arena into the viewport.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		Margin:    20,
		MinZoom:   1,
		MaxZoom:   8,
	}
}

// fit is the pixels-per-unit that makes the arena fit the viewport.
func (c *Camera) fit() float32 {
	sx := (c.ViewportW - 2*c.Margin) / c.WorldW
	sy := (c.ViewportH - 2*c.Margin) / c.WorldH
	s := sx
	if sy < s {
		s = sy
	}
	if s <= 0 {
		return 1
	}
	return s
}

// Scale returns the current pixels per world unit.
func (c *Camera) Scale() float32 {
	return c.fit() * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	return c.ViewportW/2 + (wx-c.X)*s, c.ViewportH/2 + (wy-c.Y)*s
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	return c.X + (sx-c.ViewportW/2)/s, c.Y + (sy-c.ViewportH/2)/s
}

// Length converts a world distance to pixels.
func (c *Camera) Length(d float32) float32 {
	return d * c.Scale()
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.clampCenter()
}

// Pan moves the camera by a delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X += dx / s
	c.Y += dy / s
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the fitted view.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1
}

// clampCenter keeps the arena covering the view once zoomed in, and
// recentres it when the whole arena is visible.
func (c *Camera) clampCenter() {
	s := c.Scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	c.X = clampAxis(c.X, halfW, c.WorldW)
	c.Y = clampAxis(c.Y, halfH, c.WorldH)
}

func clampAxis(center, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(center, half, size-half)
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
