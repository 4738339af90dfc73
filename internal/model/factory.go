package model

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	spawnMargin  = 0.2 // fraction of the board kept clear on each side
	spawnNote    = 90.0
	maxJitterDeg = 10.0
	baseZIndex   = 10
)

// NewNoteParams holds parameters for creating a note.
type NewNoteParams struct {
	Text        string
	Color       Color
	StickerKind StickerKind // empty picks one at random
	BoardWidth  float64
	BoardHeight float64
	AutoThrow   bool
}

// Factory creates notes with fresh ids, random stickers and placement jitter.
type Factory struct {
	mu      sync.Mutex
	now     func() time.Time
	rng     *rand.Rand
	entropy *ulid.MonotonicEntropy
}

// NewFactory returns a Factory seeded from the current time.
func NewFactory() *Factory {
	return NewFactoryWithSource(rand.NewSource(time.Now().UnixNano()), time.Now)
}

// NewFactoryWithSource returns a Factory using src for randomness and now as its clock.
func NewFactoryWithSource(src rand.Source, now func() time.Time) *Factory {
	rng := rand.New(src)
	return &Factory{
		now:     now,
		rng:     rng,
		entropy: ulid.Monotonic(rng, 0),
	}
}

func (f *Factory) newID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), f.entropy).String()
}

// New builds a note. Text is taken as given; callers trim and validate it.
func (f *Factory) New(p NewNoteParams) Note {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	color := p.Color
	if color == "" {
		color = DefaultColor
	}
	kind := p.StickerKind
	if kind == "" {
		kind = StickerKinds[f.rng.Intn(len(StickerKinds))]
	}

	mx := p.BoardWidth * spawnMargin
	my := p.BoardHeight * spawnMargin
	spanX := p.BoardWidth - 2*mx - spawnNote
	spanY := p.BoardHeight - 2*my - spawnNote
	if spanX < 0 {
		spanX = 0
	}
	if spanY < 0 {
		spanY = 0
	}

	ms := now.UnixMilli()
	return Note{
		ID:          f.newID(now),
		Text:        p.Text,
		Color:       color,
		StickerKind: kind,
		X:           mx + f.rng.Float64()*spanX,
		Y:           my + f.rng.Float64()*spanY,
		Rotation:    (f.rng.Float64() - 0.5) * maxJitterDeg,
		ZIndex:      baseZIndex + int(ms%1000),
		CreatedAt:   ms,
		AutoThrow:   p.AutoThrow,
	}
}
