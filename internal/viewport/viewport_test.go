package viewport

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestScreenToCanvasScenario(t *testing.T) {
	v := New()
	v.SetZoom(0.5)
	v.SetPan(100, -50)

	got := v.ScreenToCanvas(Point{X: 400, Y: 300}, Size{W: 800, H: 600})
	assert.InDelta(t, 200.0, got.X, eps)
	assert.InDelta(t, 400.0, got.Y, eps)
}

func TestScreenToCanvasIdentityAtRest(t *testing.T) {
	v := New()
	got := v.ScreenToCanvas(Point{X: 123, Y: 456}, Size{W: 800, H: 600})
	assert.InDelta(t, 123.0, got.X, eps)
	assert.InDelta(t, 456.0, got.Y, eps)
}

func TestScreenToCanvasInvertsRenderTransform(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	board := Size{W: 1280, H: 800}

	for i := 0; i < 1000; i++ {
		v := Viewport{
			Zoom: MinZoom + rng.Float64()*(MaxZoom-MinZoom),
			PanX: (rng.Float64() - 0.5) * 4000,
			PanY: (rng.Float64() - 0.5) * 4000,
		}
		p := Point{X: (rng.Float64() - 0.25) * 3000, Y: (rng.Float64() - 0.25) * 2000}

		back := v.CanvasToScreen(v.ScreenToCanvas(p, board), board)
		require.InDelta(t, p.X, back.X, 1e-6)
		require.InDelta(t, p.Y, back.Y, 1e-6)
	}
}

func TestZoomAlwaysClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	v := New()

	for i := 0; i < 2000; i++ {
		switch rng.Intn(3) {
		case 0:
			v.ZoomBy((rng.Float64() - 0.5) * 50)
		case 1:
			v.ScaleZoom(rng.Float64() * 10)
		case 2:
			v.SetZoom((rng.Float64() - 0.5) * 100)
		}
		require.GreaterOrEqual(t, v.Zoom, MinZoom)
		require.LessOrEqual(t, v.Zoom, MaxZoom)
	}
}

func TestSetZoomEdges(t *testing.T) {
	v := New()
	assert.Equal(t, MaxZoom, v.SetZoom(1e9))
	assert.Equal(t, MinZoom, v.SetZoom(-3))
	assert.Equal(t, MinZoom, v.SetZoom(math.NaN()))
	assert.Equal(t, MinZoom, v.ScaleZoom(0))
	assert.Equal(t, MinZoom, v.ScaleZoom(math.Inf(1)))
}

func TestZoomButtons(t *testing.T) {
	v := New()
	assert.InDelta(t, 1.2, v.ZoomIn(), eps)
	assert.InDelta(t, 1.0, v.ZoomOut(), eps)
	for i := 0; i < 20; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, MinZoom, v.Zoom)
}

func TestPanUnclampedAndReset(t *testing.T) {
	v := New()
	v.Pan(1e6, -1e6)
	v.Pan(5, 5)
	assert.Equal(t, 1e6+5, v.PanX)
	assert.Equal(t, -1e6+5, v.PanY)

	v.SetZoom(2.5)
	v.Reset()
	assert.Equal(t, Viewport{Zoom: 1}, *v)
}

func TestVelocityToCanvas(t *testing.T) {
	v := Viewport{Zoom: 0.5}
	got := v.VelocityToCanvas(Point{X: 100, Y: -40})
	assert.Equal(t, Point{X: 200, Y: -80}, got)
}
