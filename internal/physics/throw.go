// Package physics resolves drag releases into resting positions and schedules
// the single store commit that follows the settle animation.
package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/rcliao/thought-stick/internal/viewport"
)

// Throw factor limits. Release velocity is projected forward by a factor in this range.
const (
	MinThrowFactor = 0.18
	MaxThrowFactor = 0.22
)

// Config holds the tunable throw constants.
type Config struct {
	ThrowFactor   float64       // seconds of release velocity added to the resting position
	ItemSize      float64       // width and height of a note on the canvas
	MinTop        float64       // top margin kept clear for board chrome
	Stiffness     float64       // spring stiffness, unit mass
	VelocityCarry float64       // share of release velocity carried into the spring
	SettleDelay   time.Duration // nominal settle duration before the store commit
}

// DefaultConfig returns the constants used for notes already on the board.
func DefaultConfig() Config {
	return Config{
		ThrowFactor:   0.18,
		ItemSize:      80,
		MinTop:        60,
		Stiffness:     200,
		VelocityCarry: 0.4,
		SettleDelay:   800 * time.Millisecond,
	}
}

// Validate checks the config for usable values.
func (c Config) Validate() error {
	if c.ThrowFactor < MinThrowFactor || c.ThrowFactor > MaxThrowFactor {
		return fmt.Errorf("throw factor %.3f outside [%.2f, %.2f]", c.ThrowFactor, MinThrowFactor, MaxThrowFactor)
	}
	if c.ItemSize < 0 {
		return fmt.Errorf("item size must not be negative")
	}
	if c.Stiffness <= 0 {
		return fmt.Errorf("stiffness must be positive")
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle delay must not be negative")
	}
	return nil
}

// Bounds is the rectangle a note's anchor may settle in.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Clamp returns p moved to the nearest point inside b.
func (b Bounds) Clamp(p viewport.Point) viewport.Point {
	return viewport.Point{
		X: math.Max(b.MinX, math.Min(b.MaxX, p.X)),
		Y: math.Max(b.MinY, math.Min(b.MaxY, p.Y)),
	}
}

// Contains reports whether p lies inside b.
func (b Bounds) Contains(p viewport.Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Expansion returns how far each side of the bounds grows at the given zoom:
// (1/zoom - 1) * dimension / 2 when zoomed out, zero otherwise.
func Expansion(board viewport.Size, zoom float64) (dx, dy float64) {
	if zoom <= 0 || zoom >= 1 {
		return 0, 0
	}
	f := 1/zoom - 1
	return f * board.W / 2, f * board.H / 2
}

// Bounds returns the settle area for the board at the given zoom. Zooming out
// reveals extra canvas on every side; zooming in never shrinks the area.
func (c Config) Bounds(board viewport.Size, zoom float64) Bounds {
	dx, dy := Expansion(board, zoom)
	b := Bounds{
		MinX: -dx,
		MaxX: board.W - c.ItemSize + dx,
		MinY: c.MinTop - dy,
		MaxY: board.H - c.ItemSize + dy,
	}
	if b.MaxX < b.MinX {
		b.MaxX = b.MinX
	}
	if b.MaxY < b.MinY {
		b.MaxY = b.MinY
	}
	return b
}

// Release describes a drag release in canvas space.
type Release struct {
	Position viewport.Point
	Velocity viewport.Point // canvas units per second
}

// Settle is the resolved outcome of a release.
type Settle struct {
	From       viewport.Point
	Projected  viewport.Point
	Rest       viewport.Point
	Trajectory Trajectory
	Duration   time.Duration
}

// Resolve projects the release along its velocity, clamps it into the
// zoom-aware bounds and builds the settle trajectory.
func (c Config) Resolve(r Release, board viewport.Size, zoom float64) Settle {
	vel := finite(r.Velocity)
	from := finite(r.Position)

	projected := viewport.Point{
		X: from.X + vel.X*c.ThrowFactor,
		Y: from.Y + vel.Y*c.ThrowFactor,
	}
	rest := c.Bounds(board, zoom).Clamp(projected)

	return Settle{
		From:      from,
		Projected: projected,
		Rest:      rest,
		Trajectory: NewTrajectory(from, rest, viewport.Point{
			X: vel.X * c.VelocityCarry,
			Y: vel.Y * c.VelocityCarry,
		}, c.Stiffness),
		Duration: c.SettleDelay,
	}
}

// finite replaces NaN and infinite components with zero so a tap without a
// measured velocity settles in place.
func finite(p viewport.Point) viewport.Point {
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) {
		p.X = 0
	}
	if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		p.Y = 0
	}
	return p
}
