package board

import "github.com/rcliao/thought-stick/internal/viewport"

// Viewport returns the current view.
func (b *Board) Viewport() viewport.Viewport {
	b.mu.Lock()
	defer b.mu.Unlock()
	return *b.view
}

// ScreenToCanvas maps a screen point through the current view.
func (b *Board) ScreenToCanvas(p viewport.Point) viewport.Point {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.ScreenToCanvas(p, b.cfg.Size)
}

// Wheel applies a wheel or trackpad event.
func (b *Board) Wheel(e viewport.WheelEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gestures.Wheel(b.view, e)
}

// PanStart begins a pan-button drag.
func (b *Board) PanStart(p viewport.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gestures.PanStart(b.view, p)
}

// PanMove continues a pan-button drag.
func (b *Board) PanMove(p viewport.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gestures.PanMove(b.view, p)
}

// PanEnd finishes a pan-button drag.
func (b *Board) PanEnd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gestures.PanEnd()
}

// Touch handles a touch move with the current touch points.
func (b *Board) Touch(touches []viewport.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gestures.Touch(b.view, touches)
}

// TouchEnd handles fingers lifting, with the points still down.
func (b *Board) TouchEnd(remaining []viewport.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gestures.TouchEnd(b.view, remaining)
}

// ZoomIn steps the zoom up by viewport.ZoomStep and returns the new zoom.
func (b *Board) ZoomIn() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.ZoomIn()
}

// ZoomOut steps the zoom down by viewport.ZoomStep and returns the new zoom.
func (b *Board) ZoomOut() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.ZoomOut()
}

// SetZoom sets an absolute zoom, clamped.
func (b *Board) SetZoom(z float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view.SetZoom(z)
}

// SetPan sets an absolute pan offset.
func (b *Board) SetPan(x, y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.SetPan(x, y)
}

// ResetView returns to zoom 1 with no pan.
func (b *Board) ResetView() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Reset()
}
