package physics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rcliao/thought-stick/internal/viewport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var board = viewport.Size{W: 800, H: 600}

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	c := DefaultConfig()
	c.ThrowFactor = 0.5
	assert.Error(t, c.Validate())
	c.ThrowFactor = MaxThrowFactor
	assert.NoError(t, c.Validate())
}

func TestBoundsAtZoomOne(t *testing.T) {
	b := DefaultConfig().Bounds(board, 1)
	assert.Equal(t, Bounds{MinX: 0, MaxX: 720, MinY: 60, MaxY: 520}, b)
}

func TestBoundsDoNotShrinkWhenZoomedIn(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, c.Bounds(board, 1), c.Bounds(board, 2.5))
}

func TestBoundsExpandWhenZoomedOut(t *testing.T) {
	c := DefaultConfig()
	base := c.Bounds(board, 1)
	half := c.Bounds(board, 0.5)

	dx, dy := Expansion(board, 0.5)
	assert.InDelta(t, (1/0.5-1)*board.W/2, dx, 1e-9)
	assert.InDelta(t, (1/0.5-1)*board.H/2, dy, 1e-9)

	assert.InDelta(t, base.MinX-dx, half.MinX, 1e-9)
	assert.InDelta(t, base.MaxX+dx, half.MaxX, 1e-9)
	assert.InDelta(t, base.MinY-dy, half.MinY, 1e-9)
	assert.InDelta(t, base.MaxY+dy, half.MaxY, 1e-9)

	// Symmetric on both horizontal sides.
	assert.InDelta(t, base.MinX-half.MinX, half.MaxX-base.MaxX, 1e-9)
}

func TestBoundsTinyBoard(t *testing.T) {
	b := DefaultConfig().Bounds(viewport.Size{W: 40, H: 40}, 1)
	assert.Equal(t, b.MinX, b.MaxX)
	assert.Equal(t, b.MinY, b.MaxY)
}

func TestResolveClampsToNearestBound(t *testing.T) {
	c := DefaultConfig()

	cases := []struct {
		name string
		pos  viewport.Point
		want viewport.Point
	}{
		{"left", viewport.Point{X: -300, Y: 200}, viewport.Point{X: 0, Y: 200}},
		{"right", viewport.Point{X: 5000, Y: 200}, viewport.Point{X: 720, Y: 200}},
		{"top", viewport.Point{X: 100, Y: 0}, viewport.Point{X: 100, Y: 60}},
		{"bottom-right corner", viewport.Point{X: 1e7, Y: 1e7}, viewport.Point{X: 720, Y: 520}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := c.Resolve(Release{Position: tc.pos}, board, 1)
			assert.Equal(t, tc.want, st.Rest)
		})
	}
}

func TestResolveZeroVelocityIsATap(t *testing.T) {
	c := DefaultConfig()
	pos := viewport.Point{X: 300, Y: 200}

	st := c.Resolve(Release{Position: pos}, board, 1)
	assert.Equal(t, pos, st.Rest)

	st = c.Resolve(Release{Position: pos, Velocity: viewport.Point{X: math.NaN(), Y: math.Inf(1)}}, board, 1)
	assert.Equal(t, pos, st.Rest)
}

func TestResolveMovesInThrowDirection(t *testing.T) {
	c := DefaultConfig()
	pos := viewport.Point{X: 300, Y: 300}

	slow := c.Resolve(Release{Position: pos, Velocity: viewport.Point{X: 100, Y: -100}}, board, 1)
	fast := c.Resolve(Release{Position: pos, Velocity: viewport.Point{X: 400, Y: -400}}, board, 1)

	assert.Greater(t, slow.Rest.X, pos.X)
	assert.Less(t, slow.Rest.Y, pos.Y)
	assert.Greater(t, fast.Rest.X, slow.Rest.X)
	assert.Less(t, fast.Rest.Y, slow.Rest.Y)
	assert.True(t, c.Bounds(board, 1).Contains(fast.Rest))
}

func TestResolveZoomedOutReachesRevealedCanvas(t *testing.T) {
	c := DefaultConfig()
	far := viewport.Point{X: -1000, Y: 300}

	atOne := c.Resolve(Release{Position: far}, board, 1)
	atHalf := c.Resolve(Release{Position: far}, board, 0.5)

	assert.Equal(t, 0.0, atOne.Rest.X)
	assert.Equal(t, -400.0, atHalf.Rest.X)
}

func TestTrajectoryStartsAtReleaseAndSettles(t *testing.T) {
	c := DefaultConfig()
	st := c.Resolve(Release{
		Position: viewport.Point{X: 100, Y: 100},
		Velocity: viewport.Point{X: 1000, Y: 0},
	}, board, 1)

	assert.Equal(t, st.From, st.Trajectory.At(0))

	end := st.Trajectory.At(2 * time.Second)
	assert.InDelta(t, st.Rest.X, end.X, 0.01)
	assert.InDelta(t, st.Rest.Y, end.Y, 0.01)

	// Early frames continue in the throw direction.
	early := st.Trajectory.At(16 * time.Millisecond)
	assert.Greater(t, early.X, st.From.X)
}

func TestTrajectoryFrames(t *testing.T) {
	tr := NewTrajectory(viewport.Point{X: 0, Y: 0}, viewport.Point{X: 100, Y: 50}, viewport.Point{}, 200)
	frames := tr.Frames(800*time.Millisecond, 60)

	require.GreaterOrEqual(t, len(frames), 49)
	require.LessOrEqual(t, len(frames), 50)
	assert.Equal(t, viewport.Point{}, frames[0])
	assert.Equal(t, viewport.Point{X: 100, Y: 50}, frames[len(frames)-1])
	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i].X, frames[i-1].X, "frame %d moved backwards", i)
	}

	assert.Equal(t, []viewport.Point{{X: 100, Y: 50}}, tr.Frames(0, 60))
}
