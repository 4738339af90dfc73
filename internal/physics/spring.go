package physics

import (
	"math"
	"time"

	"github.com/rcliao/thought-stick/internal/viewport"
)

// Trajectory is a critically damped spring from a start point to a target,
// seeded with an initial velocity so the motion continues the throw.
type Trajectory struct {
	From     viewport.Point
	To       viewport.Point
	Velocity viewport.Point
	Omega    float64 // natural frequency, sqrt(stiffness) for unit mass
}

// NewTrajectory builds a trajectory for the given spring stiffness.
func NewTrajectory(from, to, velocity viewport.Point, stiffness float64) Trajectory {
	return Trajectory{
		From:     from,
		To:       to,
		Velocity: velocity,
		Omega:    math.Sqrt(math.Max(stiffness, 1e-6)),
	}
}

// At returns the position t after release.
func (tr Trajectory) At(t time.Duration) viewport.Point {
	if t <= 0 {
		return tr.From
	}
	s := t.Seconds()
	return viewport.Point{
		X: tr.To.X + springOffset(tr.From.X-tr.To.X, tr.Velocity.X, tr.Omega, s),
		Y: tr.To.Y + springOffset(tr.From.Y-tr.To.Y, tr.Velocity.Y, tr.Omega, s),
	}
}

// Frames samples the trajectory at the given rate over d, ending exactly at To.
func (tr Trajectory) Frames(d time.Duration, fps int) []viewport.Point {
	if fps <= 0 || d <= 0 {
		return []viewport.Point{tr.To}
	}
	n := int(math.Ceil(d.Seconds() * float64(fps)))
	frames := make([]viewport.Point, 0, n+1)
	step := time.Second / time.Duration(fps)
	for i := 0; i < n; i++ {
		frames = append(frames, tr.At(time.Duration(i)*step))
	}
	return append(frames, tr.To)
}

// springOffset is the displacement of a critically damped oscillator with
// initial displacement x0 and velocity v0 after s seconds.
func springOffset(x0, v0, omega, s float64) float64 {
	return (x0 + (v0+omega*x0)*s) * math.Exp(-omega*s)
}
