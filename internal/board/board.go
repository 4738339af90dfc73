// Package board ties the note store, viewport, throw physics and dictation
// session together into the interactive board a presentation layer drives.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/thought-stick/internal/metrics"
	"github.com/rcliao/thought-stick/internal/model"
	"github.com/rcliao/thought-stick/internal/physics"
	"github.com/rcliao/thought-stick/internal/store"
	"github.com/rcliao/thought-stick/internal/viewport"
	"github.com/rcliao/thought-stick/internal/voice"
)

var (
	ErrEmptyText = errors.New("note text is empty")
	ErrNoPending = errors.New("no pending note")
	ErrNotFound  = errors.New("note not found")
)

// Pending notes are thrown from this offset relative to the board's
// bottom center.
const (
	pendingOffsetX = 95
	pendingOffsetY = 320
)

// Config holds the board geometry and physics.
type Config struct {
	Size    viewport.Size
	Physics physics.Config // notes already on the board
	Pending physics.Config // the freshly composed note
}

// DefaultConfig returns a 1280x800 board with the default physics.
func DefaultConfig() Config {
	pending := physics.DefaultConfig()
	pending.ThrowFactor = physics.MaxThrowFactor
	return Config{
		Size:    viewport.Size{W: 1280, H: 800},
		Physics: physics.DefaultConfig(),
		Pending: pending,
	}
}

// Validate checks the config for usable values.
func (c Config) Validate() error {
	if c.Size.W <= 0 || c.Size.H <= 0 {
		return fmt.Errorf("board size must be positive, got %gx%g", c.Size.W, c.Size.H)
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("physics: %w", err)
	}
	if err := c.Pending.Validate(); err != nil {
		return fmt.Errorf("pending physics: %w", err)
	}
	return nil
}

// Option configures a Board.
type Option func(*Board)

// WithClock sets the clock used for settle timers and drag velocity.
func WithClock(c physics.Clock) Option {
	return func(b *Board) { b.clock = c }
}

// WithFactory sets the note factory.
func WithFactory(f *model.Factory) Option {
	return func(b *Board) { b.factory = f }
}

// WithVoice sets the dictation session. Without one, dictation is unsupported.
func WithVoice(s *voice.Session) Option {
	return func(b *Board) { b.voice = s }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(b *Board) { b.log = log }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.BoardMetrics) Option {
	return func(b *Board) { b.metrics = m }
}

type drag struct {
	grab     viewport.Point // canvas offset from the pointer to the note anchor
	pos      viewport.Point // current canvas anchor
	pointer  viewport.Point // last screen position
	at       time.Time
	velocity viewport.Point // screen units per second
}

// Board is the interaction engine. The store stays the only writer of note
// data; the board holds transient drag state and the single pending note.
type Board struct {
	mu       sync.Mutex
	store    *store.NoteStore
	cfg      Config
	view     *viewport.Viewport
	gestures viewport.Gestures
	settler  *physics.Settler
	clock    physics.Clock
	factory  *model.Factory
	voice    *voice.Session
	pending  *model.Note
	drags    map[string]*drag
	log      zerolog.Logger
	metrics  *metrics.BoardMetrics
}

// New returns a Board over st.
func New(st *store.NoteStore, cfg Config, opts ...Option) (*Board, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}
	b := &Board{
		store: st,
		cfg:   cfg,
		view:  viewport.New(),
		drags: map[string]*drag{},
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.clock == nil {
		b.clock = physics.RealClock()
	}
	if b.factory == nil {
		b.factory = model.NewFactory()
	}
	if b.voice == nil {
		b.voice = voice.NewSession(nil, voice.WithLogger(b.log), voice.WithMetrics(b.metrics))
	}
	b.settler = physics.NewSettler(b.clock, b.commitSettle,
		physics.WithLogger(b.log), physics.WithMetrics(b.metrics))
	return b, nil
}

// Store returns the underlying note store.
func (b *Board) Store() *store.NoteStore { return b.store }

// Size returns the board size.
func (b *Board) Size() viewport.Size { return b.cfg.Size }

// Close commits every settle still in flight and stops dictation.
func (b *Board) Close() {
	b.settler.Flush()
	b.voice.Stop()
}

func (b *Board) commitSettle(id string, rest viewport.Point) {
	b.mu.Lock()
	_, dragging := b.drags[id]
	b.mu.Unlock()
	if dragging {
		b.log.Debug().Str("id", id).Msg("settle skipped, note is being dragged")
		return
	}
	x, y := rest.X, rest.Y
	if err := b.store.Update(context.Background(), id, store.Update{X: &x, Y: &y}); err != nil {
		b.log.Error().Err(err).Str("id", id).Msg("settle commit")
	}
}

// ComposeParams holds a composer submission.
type ComposeParams struct {
	Text        string
	Color       model.Color
	StickerKind model.StickerKind
	Dictated    bool
}

// Compose turns a composer submission into a note. Dictated notes go straight
// onto the board with autoThrow set. Typed notes become the pending note,
// replacing any previous one, until thrown or canceled.
func (b *Board) Compose(ctx context.Context, p ComposeParams) (model.Note, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return model.Note{}, ErrEmptyText
	}
	n := b.factory.New(model.NewNoteParams{
		Text:        text,
		Color:       p.Color,
		StickerKind: p.StickerKind,
		BoardWidth:  b.cfg.Size.W,
		BoardHeight: b.cfg.Size.H,
		AutoThrow:   p.Dictated,
	})
	if p.Dictated {
		if err := b.store.Add(ctx, n); err != nil {
			return n, err
		}
		return n, nil
	}

	b.mu.Lock()
	b.pending = &n
	b.mu.Unlock()
	return n, nil
}

// Pending returns the note waiting to be thrown.
func (b *Board) Pending() (model.Note, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pending == nil {
		return model.Note{}, false
	}
	return *b.pending, true
}

// PendingStart is the screen point a pending note is thrown from.
func (b *Board) PendingStart() viewport.Point {
	return viewport.Point{
		X: b.cfg.Size.W/2 - pendingOffsetX,
		Y: b.cfg.Size.H - pendingOffsetY,
	}
}

// ThrowPending lands the pending note. offset is how far the pointer dragged
// it from PendingStart and velocity its release velocity, both in screen space.
// The note is committed at its resting position right away.
func (b *Board) ThrowPending(ctx context.Context, offset, velocity viewport.Point) (model.Note, error) {
	b.mu.Lock()
	if b.pending == nil {
		b.mu.Unlock()
		return model.Note{}, ErrNoPending
	}
	n := *b.pending
	b.pending = nil
	start := b.PendingStart()
	screen := viewport.Point{X: start.X + offset.X, Y: start.Y + offset.Y}
	st := b.cfg.Pending.Resolve(physics.Release{
		Position: b.view.ScreenToCanvas(screen, b.cfg.Size),
		Velocity: b.view.VelocityToCanvas(velocity),
	}, b.cfg.Size, b.view.Zoom)
	b.mu.Unlock()

	n.X, n.Y = st.Rest.X, st.Rest.Y
	n.AutoThrow = false
	if err := b.store.Add(ctx, n); err != nil {
		return n, err
	}
	return n, nil
}

// CancelPending discards the pending note without touching the store.
func (b *Board) CancelPending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	had := b.pending != nil
	b.pending = nil
	return had
}
