package board

import (
	"context"

	"github.com/rcliao/thought-stick/internal/physics"
	"github.com/rcliao/thought-stick/internal/viewport"
)

// DragStart picks up note id at screen point p. Any settle still in flight
// for the note is dropped and the drag continues from where its animation
// had it. The note is brought to the front; a failure to persist the new
// stacking order is logged and does not stop the drag.
func (b *Board) DragStart(ctx context.Context, id string, p viewport.Point) error {
	n, ok := b.store.Get(id)
	if !ok {
		return ErrNotFound
	}
	anchor := viewport.Point{X: n.X, Y: n.Y}
	if cur, ok := b.settler.Position(id); ok {
		anchor = cur
	}
	b.settler.Cancel(id)

	b.mu.Lock()
	pointer := b.view.ScreenToCanvas(p, b.cfg.Size)
	b.drags[id] = &drag{
		grab:    viewport.Point{X: anchor.X - pointer.X, Y: anchor.Y - pointer.Y},
		pos:     anchor,
		pointer: p,
		at:      b.clock.Now(),
	}
	b.mu.Unlock()

	if err := b.store.BringToFront(ctx, id); err != nil {
		b.log.Warn().Err(err).Str("id", id).Msg("bring to front on drag start")
	}
	return nil
}

// DragMove moves a dragged note to follow the pointer. It reports false when
// id is not being dragged.
func (b *Board) DragMove(id string, p viewport.Point) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.drags[id]
	if !ok {
		return false
	}
	b.follow(d, p)
	return true
}

// follow updates d for a pointer at p. Callers hold the lock.
func (b *Board) follow(d *drag, p viewport.Point) {
	now := b.clock.Now()
	if dt := now.Sub(d.at).Seconds(); dt > 0 {
		d.velocity = viewport.Point{
			X: (p.X - d.pointer.X) / dt,
			Y: (p.Y - d.pointer.Y) / dt,
		}
		d.at = now
	}
	d.pointer = p
	canvas := b.view.ScreenToCanvas(p, b.cfg.Size)
	d.pos = viewport.Point{X: canvas.X + d.grab.X, Y: canvas.Y + d.grab.Y}
}

// DragEnd releases a dragged note at p with the velocity of its last pointer
// move, and schedules the settle commit. A pointer that paused before release
// measures as zero velocity.
func (b *Board) DragEnd(id string, p viewport.Point) (physics.Settle, error) {
	b.mu.Lock()
	d, ok := b.drags[id]
	if !ok {
		b.mu.Unlock()
		return physics.Settle{}, ErrNotFound
	}
	b.follow(d, p)
	vel := d.velocity
	b.mu.Unlock()
	return b.release(id, vel), nil
}

// Throw picks up note id at screen point at and releases it immediately with
// the given screen velocity.
func (b *Board) Throw(ctx context.Context, id string, at, velocity viewport.Point) (physics.Settle, error) {
	if err := b.DragStart(ctx, id, at); err != nil {
		return physics.Settle{}, err
	}
	return b.release(id, velocity), nil
}

// CancelDrag abandons a drag without scheduling a settle.
func (b *Board) CancelDrag(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.drags[id]
	delete(b.drags, id)
	return ok
}

// Dragging reports whether id is being dragged.
func (b *Board) Dragging(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.drags[id]
	return ok
}

func (b *Board) release(id string, screenVel viewport.Point) physics.Settle {
	b.mu.Lock()
	d, ok := b.drags[id]
	if !ok {
		b.mu.Unlock()
		return physics.Settle{}
	}
	delete(b.drags, id)
	st := b.cfg.Physics.Resolve(physics.Release{
		Position: d.pos,
		Velocity: b.view.VelocityToCanvas(screenVel),
	}, b.cfg.Size, b.view.Zoom)
	b.mu.Unlock()

	b.settler.Schedule(id, st)
	return st
}
