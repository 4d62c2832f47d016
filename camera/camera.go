// Package camera provides a top-down 2D camera over the XZ ground plane.
package camera

// Camera maps world XZ coordinates onto the screen. The world is bounded
// and centered on the origin; the camera center is kept inside it.
type Camera struct {
	// Center of the view in world coordinates
	X, Z float32

	// Zoom multiplies the base scale (1.0 = Scale pixels per world unit)
	Zoom  float32
	Scale float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Half-size of the square the camera may look at
	Extent float32

	MinZoom, MaxZoom float32
}

// New creates a camera centered on the origin. scale is pixels per world
// unit at zoom 1; extent is the half-size of the world.
func New(viewportW, viewportH, scale, extent float32) *Camera {
	return &Camera{
		Zoom:      1.0,
		Scale:     scale,
		ViewportW: viewportW,
		ViewportH: viewportH,
		Extent:    extent,
		MinZoom:   0.25,
		MaxZoom:   8.0,
	}
}

func (c *Camera) pixelsPerUnit() float32 {
	return c.Scale * c.Zoom
}

// WorldToScreen converts a ground-plane point to screen coordinates.
// Screen Y grows downward with world Z.
func (c *Camera) WorldToScreen(wx, wz float32) (sx, sy float32) {
	ppu := c.pixelsPerUnit()
	sx = c.ViewportW/2 + (wx-c.X)*ppu
	sy = c.ViewportH/2 + (wz-c.Z)*ppu
	return sx, sy
}

// ScreenToWorld converts screen coordinates to a ground-plane point.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wz float32) {
	ppu := c.pixelsPerUnit()
	wx = c.X + (sx-c.ViewportW/2)/ppu
	wz = c.Z + (sy-c.ViewportH/2)/ppu
	return wx, wz
}

// WorldLength converts a world distance to pixels.
func (c *Camera) WorldLength(d float32) float32 {
	return d * c.pixelsPerUnit()
}

// IsVisible returns true if a circle at (wx, wz) with the given radius
// could be on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wz, radius float32) bool {
	minX, minZ, maxX, maxZ := c.VisibleWorldBounds()
	return wx+radius >= minX && wx-radius <= maxX &&
		wz+radius >= minZ && wz-radius <= maxZ
}

// Resize updates the viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by a delta in screen pixels, staying within the world.
func (c *Camera) Pan(dx, dy float32) {
	ppu := c.pixelsPerUnit()
	c.X = clamp(c.X+dx/ppu, -c.Extent, c.Extent)
	c.Z = clamp(c.Z+dy/ppu, -c.Extent, c.Extent)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin at zoom 1.
func (c *Camera) Reset() {
	c.X, c.Z = 0, 0
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minZ, maxX, maxZ float32) {
	ppu := c.pixelsPerUnit()
	halfW := c.ViewportW / (2 * ppu)
	halfH := c.ViewportH / (2 * ppu)
	return c.X - halfW, c.Z - halfH, c.X + halfW, c.Z + halfH
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
