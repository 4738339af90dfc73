package viewport

import "math"

// WheelZoomRate converts a modifier-wheel deltaY into a zoom delta.
const WheelZoomRate = 0.01

// WheelEvent is a normalized wheel or trackpad event.
type WheelEvent struct {
	DeltaX   float64
	DeltaY   float64
	Modifier bool // ctrl/meta held, or a trackpad pinch
}

// Gestures tracks per-gesture baselines for pan-button drags and two-finger
// touches. Handlers take the viewport they act on explicitly.
type Gestures struct {
	panning   bool
	panStart  Point
	panOrigin Point

	pinching   bool
	pinchDist  float64
	pinchCentr Point
}

// Wheel applies a wheel event: with the modifier it zooms (scroll up zooms
// in), otherwise it pans by the negated deltas.
func (g *Gestures) Wheel(v *Viewport, e WheelEvent) {
	if e.Modifier {
		v.ZoomBy(-e.DeltaY * WheelZoomRate)
		return
	}
	v.Pan(-e.DeltaX, -e.DeltaY)
}

// PanStart begins a pan-button drag at the given pointer position.
func (g *Gestures) PanStart(v *Viewport, p Point) {
	g.panning = true
	g.panStart = p
	g.panOrigin = Point{X: v.PanX, Y: v.PanY}
}

// PanMove moves the pan to the captured origin plus the cursor delta since
// PanStart. Ignored when no pan is in progress.
func (g *Gestures) PanMove(v *Viewport, p Point) {
	if !g.panning {
		return
	}
	v.SetPan(g.panOrigin.X+p.X-g.panStart.X, g.panOrigin.Y+p.Y-g.panStart.Y)
}

// PanEnd finishes a pan-button drag.
func (g *Gestures) PanEnd() {
	g.panning = false
}

// Panning reports whether a pan-button drag is in progress.
func (g *Gestures) Panning() bool {
	return g.panning
}

// Touch handles a touch start or move with the current set of touch points.
// Two points drive pinch zoom (distance ratio) and pan (centroid delta) from
// the previous event; any other count resets the baseline.
func (g *Gestures) Touch(v *Viewport, touches []Point) {
	if len(touches) != 2 {
		g.pinching = false
		return
	}

	a, b := touches[0], touches[1]
	dist := math.Hypot(b.X-a.X, b.Y-a.Y)
	centroid := Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}

	if !g.pinching {
		g.pinching = true
		g.pinchDist = dist
		g.pinchCentr = centroid
		return
	}

	if g.pinchDist > 0 && dist > 0 {
		v.ScaleZoom(dist / g.pinchDist)
	}
	v.Pan(centroid.X-g.pinchCentr.X, centroid.Y-g.pinchCentr.Y)

	g.pinchDist = dist
	g.pinchCentr = centroid
}

// TouchEnd handles a touch end with the touches that remain.
func (g *Gestures) TouchEnd(v *Viewport, remaining []Point) {
	if len(remaining) < 2 {
		g.pinching = false
		return
	}
	// A third finger lifted: restart from two of the remaining touches.
	g.pinching = false
	g.Touch(v, remaining[:2])
}

// Pinching reports whether a two-finger gesture is being tracked.
func (g *Gestures) Pinching() bool {
	return g.pinching
}
