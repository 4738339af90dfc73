// Package store owns the canonical note collection and its persistence.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rcliao/thought-stick/internal/metrics"
	"github.com/rcliao/thought-stick/internal/model"
)

// DefaultSlot is the key the note collection is stored under.
const DefaultSlot = "thought-stick-notes"

// minFrontZ is the floor for bring-to-front so stacking never goes negative.
const minFrontZ = 10

// Slots is a key-value string store holding named slots.
type Slots interface {
	// Get returns the slot value and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the slot value.
	Set(ctx context.Context, key, value string) error

	// Close closes the store.
	Close() error
}

// Update holds the mutable fields of a note. Nil fields are left unchanged.
type Update struct {
	Text        *string
	Color       *model.Color
	StickerKind *model.StickerKind
	X           *float64
	Y           *float64
	ZIndex      *int
	AutoThrow   *bool
}

// Empty reports whether u changes nothing.
func (u Update) Empty() bool {
	return u.Text == nil && u.Color == nil && u.StickerKind == nil &&
		u.X == nil && u.Y == nil && u.ZIndex == nil && u.AutoThrow == nil
}

func (u Update) apply(n *model.Note) {
	if u.Text != nil {
		n.Text = *u.Text
	}
	if u.Color != nil {
		n.Color = *u.Color
	}
	if u.StickerKind != nil {
		n.StickerKind = *u.StickerKind
	}
	if u.X != nil {
		n.X = *u.X
	}
	if u.Y != nil {
		n.Y = *u.Y
	}
	if u.ZIndex != nil {
		n.ZIndex = *u.ZIndex
	}
	if u.AutoThrow != nil {
		n.AutoThrow = *u.AutoThrow
	}
}

// Option configures a NoteStore.
type Option func(*NoteStore)

// WithSlot sets the slot key (default DefaultSlot).
func WithSlot(key string) Option {
	return func(s *NoteStore) { s.key = key }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *NoteStore) { s.log = log }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.BoardMetrics) Option {
	return func(s *NoteStore) { s.metrics = m }
}

// NoteStore is the single writer of note data. Every mutation is applied in
// memory, visible to readers, and written through to the slot before it returns.
type NoteStore struct {
	mu      sync.RWMutex
	slots   Slots
	key     string
	notes   []model.Note
	log     zerolog.Logger
	metrics *metrics.BoardMetrics
}

// Open creates a NoteStore over slots and loads the persisted collection.
func Open(ctx context.Context, slots Slots, opts ...Option) *NoteStore {
	s := &NoteStore{
		slots: slots,
		key:   DefaultSlot,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load(ctx)
	return s
}

// Load replaces the in-memory collection with the persisted one.
// A missing, unreadable or malformed slot yields an empty collection.
func (s *NoteStore) Load(ctx context.Context) []model.Note {
	notes := s.read(ctx)

	s.mu.Lock()
	s.notes = notes
	s.metrics.SetNoteCount(len(notes))
	s.mu.Unlock()

	return cloneNotes(notes)
}

func (s *NoteStore) read(ctx context.Context) []model.Note {
	raw, ok, err := s.slots.Get(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Str("slot", s.key).Msg("read notes failed, starting empty")
		return []model.Note{}
	}
	if !ok || raw == "" {
		return []model.Note{}
	}

	var decoded []model.Note
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.log.Warn().Err(err).Str("slot", s.key).Msg("corrupt notes payload, starting empty")
		return []model.Note{}
	}

	// Drop repeated ids so uniqueness holds even for hand-edited payloads.
	seen := make(map[string]bool, len(decoded))
	notes := make([]model.Note, 0, len(decoded))
	for _, n := range decoded {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		notes = append(notes, n)
	}
	return notes
}

// Notes returns a snapshot of the collection in insertion order.
func (s *NoteStore) Notes() []model.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNotes(s.notes)
}

// Len returns the number of notes.
func (s *NoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Get returns the note with the given id.
func (s *NoteStore) Get(id string) (model.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.notes[i], true
	}
	return model.Note{}, false
}

// Add appends n. A note whose id already exists is ignored.
func (s *NoteStore) Add(ctx context.Context, n model.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(n.ID) >= 0 {
		s.metrics.RecordStoreOperation("add", "noop")
		return nil
	}
	s.notes = append(s.notes, n)
	return s.commit(ctx, "add")
}

// Update merges u into the note with the given id. Unknown ids are ignored.
func (s *NoteStore) Update(ctx context.Context, id string, u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		s.metrics.RecordStoreOperation("update", "noop")
		return nil
	}
	u.apply(&s.notes[i])
	return s.commit(ctx, "update")
}

// Delete removes the note with the given id. Unknown ids are ignored.
func (s *NoteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		s.metrics.RecordStoreOperation("delete", "noop")
		return nil
	}
	s.notes = append(s.notes[:i], s.notes[i+1:]...)
	return s.commit(ctx, "delete")
}

// BringToFront raises the note above every other note:
// zIndex = max(10, max zIndex) + 1. Unknown ids are ignored.
func (s *NoteStore) BringToFront(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		s.metrics.RecordStoreOperation("front", "noop")
		return nil
	}
	top := minFrontZ
	for _, n := range s.notes {
		if n.ZIndex > top {
			top = n.ZIndex
		}
	}
	s.notes[i].ZIndex = top + 1
	return s.commit(ctx, "front")
}

// Clear removes every note.
func (s *NoteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = []model.Note{}
	return s.commit(ctx, "clear")
}

// commit writes the full collection. Caller holds s.mu.
func (s *NoteStore) commit(ctx context.Context, op string) error {
	s.metrics.SetNoteCount(len(s.notes))

	b, err := json.Marshal(s.notes)
	if err != nil {
		s.metrics.RecordStoreOperation(op, "error")
		return fmt.Errorf("encode notes: %w", err)
	}
	if err := s.slots.Set(ctx, s.key, string(b)); err != nil {
		s.metrics.RecordStoreOperation(op, "error")
		s.metrics.RecordStoreWriteError()
		s.log.Error().Err(err).Str("op", op).Msg("persist notes failed")
		return fmt.Errorf("persist notes: %w", err)
	}
	s.metrics.RecordStoreOperation(op, "ok")
	return nil
}

func (s *NoteStore) index(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// Close closes the underlying slots.
func (s *NoteStore) Close() error {
	return s.slots.Close()
}

func cloneNotes(notes []model.Note) []model.Note {
	out := make([]model.Note, len(notes))
	copy(out, notes)
	return out
}
