package viewer

import "github.com/decker502/pfx/pkg/vmath"

// Camera is a fixed perspective camera on the +Z axis looking at the
// origin. It is just enough projection for the preview tool; the engine
// itself never depends on it.
type Camera struct {
	Distance float64 // camera z position in scene units
	Focal    float64 // focal length in pixels
	Width    int     // screen size in pixels
	Height   int
}

// NewCamera returns a camera centered on a screen of the given size.
func NewCamera(width, height int, distance float64) *Camera {
	return &Camera{
		Distance: distance,
		Focal:    float64(height), // ~53 degree vertical field of view
		Width:    width,
		Height:   height,
	}
}

// Project maps a scene position to screen coordinates and a perspective
// scale factor. ok is false for points at or behind the camera plane.
func (c *Camera) Project(p vmath.Vector3) (x, y, scale float64, ok bool) {
	const near = 0.05
	viewZ := c.Distance - p.Z
	if viewZ < near {
		return 0, 0, 0, false
	}
	scale = c.Focal / viewZ
	x = float64(c.Width)/2 + p.X*scale
	y = float64(c.Height)/2 - p.Y*scale
	return x, y, scale, true
}

// Unproject maps a screen point back onto the z=0 scene plane, the
// inverse of Project for points on that plane. Used to place the emitter
// at a mouse click.
func (c *Camera) Unproject(x, y float64) vmath.Vector3 {
	scale := c.Focal / c.Distance
	return vmath.Vector3{
		X: (x - float64(c.Width)/2) / scale,
		Y: -(y - float64(c.Height)/2) / scale,
	}
}
