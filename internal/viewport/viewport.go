// Package viewport maps between screen space and canvas space under an
// independent pan and zoom.
//
// The render transform translates by the pan offset and then scales about the
// board's own center, so a canvas point c lands on screen at
//
//	s = (c - size/2) * zoom + size/2 + pan
//
// ScreenToCanvas is the exact inverse of that mapping.
package viewport

import "math"

const (
	MinZoom = 0.3
	MaxZoom = 3.0

	// ZoomStep is the increment used by the zoom in/out buttons.
	ZoomStep = 0.2
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is the board's on-screen width and height.
type Size struct {
	W float64 `json:"width"`
	H float64 `json:"height"`
}

// Center returns the midpoint of the board.
func (s Size) Center() Point {
	return Point{X: s.W / 2, Y: s.H / 2}
}

// Viewport holds the current zoom factor and pan offset. It is owned by the
// board controller and passed by reference into gesture handlers.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"panX"`
	PanY float64 `json:"panY"`
}

// New returns a viewport at zoom 1 with no pan.
func New() *Viewport {
	return &Viewport{Zoom: 1}
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// SetZoom sets an absolute zoom, clamped. NaN leaves the zoom unchanged.
func (v *Viewport) SetZoom(z float64) float64 {
	if !math.IsNaN(z) {
		v.Zoom = ClampZoom(z)
	}
	return v.Zoom
}

// ZoomBy adds delta to the current zoom, clamped.
func (v *Viewport) ZoomBy(delta float64) float64 {
	return v.SetZoom(v.Zoom + delta)
}

// ScaleZoom multiplies the current zoom by factor, clamped.
// Non-positive or non-finite factors are ignored.
func (v *Viewport) ScaleZoom(factor float64) float64 {
	if factor <= 0 || math.IsInf(factor, 0) || math.IsNaN(factor) {
		return v.Zoom
	}
	return v.SetZoom(v.Zoom * factor)
}

// ZoomIn steps the zoom up by ZoomStep.
func (v *Viewport) ZoomIn() float64 { return v.ZoomBy(ZoomStep) }

// ZoomOut steps the zoom down by ZoomStep.
func (v *Viewport) ZoomOut() float64 { return v.ZoomBy(-ZoomStep) }

// Pan adds to the pan offset. Panning is never clamped.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// SetPan sets the pan offset.
func (v *Viewport) SetPan(x, y float64) {
	v.PanX = x
	v.PanY = y
}

// Reset returns to zoom 1 and no pan.
func (v *Viewport) Reset() {
	v.Zoom = 1
	v.PanX = 0
	v.PanY = 0
}

// ScreenToCanvas converts a point relative to the board's bounding box into
// canvas coordinates. No clamping is applied.
func (v Viewport) ScreenToCanvas(p Point, board Size) Point {
	c := board.Center()
	return Point{
		X: (p.X-c.X-v.PanX)/v.Zoom + c.X,
		Y: (p.Y-c.Y-v.PanY)/v.Zoom + c.Y,
	}
}

// CanvasToScreen applies the render transform to a canvas point.
func (v Viewport) CanvasToScreen(p Point, board Size) Point {
	c := board.Center()
	return Point{
		X: (p.X-c.X)*v.Zoom + c.X + v.PanX,
		Y: (p.Y-c.Y)*v.Zoom + c.Y + v.PanY,
	}
}

// VelocityToCanvas converts a screen-space velocity into canvas units.
func (v Viewport) VelocityToCanvas(vel Point) Point {
	return Point{X: vel.X / v.Zoom, Y: vel.Y / v.Zoom}
}
