package board

import (
	"github.com/rcliao/thought-stick/internal/model"
	"github.com/rcliao/thought-stick/internal/viewport"
	"github.com/rcliao/thought-stick/internal/voice"
)

// Snapshot is everything a presentation layer needs to draw the board.
type Snapshot struct {
	Notes    []model.Note              `json:"notes"`
	Viewport viewport.Viewport         `json:"viewport"`
	Moving   map[string]viewport.Point `json:"moving,omitempty"` // visual position of dragged or settling notes
	Pending  *model.Note               `json:"pending,omitempty"`
	Voice    voice.Snapshot            `json:"voice"`
}

// Snapshot returns a read-only view of the board.
func (b *Board) Snapshot() Snapshot {
	moving := b.settler.Positions()

	b.mu.Lock()
	for id, d := range b.drags {
		moving[id] = d.pos
	}
	view := *b.view
	var pending *model.Note
	if b.pending != nil {
		p := *b.pending
		pending = &p
	}
	b.mu.Unlock()

	return Snapshot{
		Notes:    b.store.Notes(),
		Viewport: view,
		Moving:   moving,
		Pending:  pending,
		Voice:    b.voice.Snapshot(),
	}
}
