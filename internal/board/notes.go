package board

import (
	"context"
	"strings"

	"github.com/rcliao/thought-stick/internal/model"
	"github.com/rcliao/thought-stick/internal/store"
)

// EditParams holds an expanded-view edit. Nil fields are left alone.
type EditParams struct {
	Text        *string
	Color       *model.Color
	StickerKind *model.StickerKind
}

// Edit applies the fields of p that differ from the note. Text is trimmed and
// an empty edit keeps the current text. It reports whether anything changed.
func (b *Board) Edit(ctx context.Context, id string, p EditParams) (bool, error) {
	n, ok := b.store.Get(id)
	if !ok {
		return false, ErrNotFound
	}
	var u store.Update
	if p.Text != nil {
		if text := strings.TrimSpace(*p.Text); text != "" && text != n.Text {
			u.Text = &text
		}
	}
	if p.Color != nil && *p.Color != n.Color {
		u.Color = p.Color
	}
	if p.StickerKind != nil && *p.StickerKind != n.StickerKind {
		u.StickerKind = p.StickerKind
	}
	if u.Empty() {
		return false, nil
	}
	if err := b.store.Update(ctx, id, u); err != nil {
		return true, err
	}
	return true, nil
}

// BringToFront raises note id above every other note.
func (b *Board) BringToFront(ctx context.Context, id string) error {
	return b.store.BringToFront(ctx, id)
}

// Delete removes note id along with any drag or settle in flight for it.
func (b *Board) Delete(ctx context.Context, id string) error {
	b.settler.Cancel(id)
	b.mu.Lock()
	delete(b.drags, id)
	b.mu.Unlock()
	return b.store.Delete(ctx, id)
}

// Clear removes every note and drops all drags and settles.
func (b *Board) Clear(ctx context.Context) error {
	b.settler.Stop()
	b.mu.Lock()
	b.drags = map[string]*drag{}
	b.mu.Unlock()
	return b.store.Clear(ctx)
}
