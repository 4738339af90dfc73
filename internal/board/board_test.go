package board

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rcliao/thought-stick/internal/model"
	"github.com/rcliao/thought-stick/internal/physics"
	"github.com/rcliao/thought-stick/internal/store"
	"github.com/rcliao/thought-stick/internal/viewport"
	"github.com/rcliao/thought-stick/internal/voice"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testBoard struct {
	*Board
	clock *physics.ManualClock
	slots *store.MemorySlots
}

func newTestBoard(t *testing.T, opts ...Option) testBoard {
	t.Helper()
	clock := physics.NewManualClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	slots := store.NewMemorySlots()
	st := store.Open(context.Background(), slots)
	opts = append([]Option{
		WithClock(clock),
		WithFactory(model.NewFactoryWithSource(rand.NewSource(7), clock.Now)),
	}, opts...)
	b, err := New(st, DefaultConfig(), opts...)
	require.NoError(t, err)
	return testBoard{Board: b, clock: clock, slots: slots}
}

// placed adds a note at (x, y) directly through the store.
func (tb testBoard) placed(t *testing.T, id string, x, y float64) model.Note {
	t.Helper()
	n := model.Note{ID: id, Text: "note " + id, Color: model.ColorSky, StickerKind: "frog", X: x, Y: y, ZIndex: 10}
	require.NoError(t, tb.Store().Add(context.Background(), n))
	return n
}

func (tb testBoard) note(t *testing.T, id string) model.Note {
	t.Helper()
	n, ok := tb.Store().Get(id)
	require.True(t, ok, "note %s missing", id)
	return n
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.Equal(t, physics.MaxThrowFactor, DefaultConfig().Pending.ThrowFactor)

	cfg := DefaultConfig()
	cfg.Size.W = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Physics.ThrowFactor = 0.3
	_, err := New(store.Open(context.Background(), store.NewMemorySlots()), cfg)
	assert.Error(t, err)
}

func TestComposeRejectsEmptyText(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := tb.Compose(ctx, ComposeParams{Text: text})
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	_, ok := tb.Pending()
	assert.False(t, ok)
	assert.Equal(t, 0, tb.slots.Writes())
}

func TestComposeTypedBecomesPending(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()

	n, err := tb.Compose(ctx, ComposeParams{Text: "  call mom  ", Color: model.ColorMint})
	require.NoError(t, err)
	assert.Equal(t, "call mom", n.Text)
	assert.False(t, n.AutoThrow)

	p, ok := tb.Pending()
	require.True(t, ok)
	assert.Equal(t, n.ID, p.ID)
	assert.Equal(t, 0, tb.Store().Len(), "pending note must not reach the store")

	// A second submission replaces the pending note.
	n2, err := tb.Compose(ctx, ComposeParams{Text: "call dad"})
	require.NoError(t, err)
	p, _ = tb.Pending()
	assert.Equal(t, n2.ID, p.ID)
}

func TestComposeDictatedGoesStraightToStore(t *testing.T) {
	tb := newTestBoard(t)

	n, err := tb.Compose(context.Background(), ComposeParams{Text: "spoken idea", Dictated: true})
	require.NoError(t, err)
	assert.True(t, n.AutoThrow)

	_, ok := tb.Pending()
	assert.False(t, ok)
	assert.Equal(t, n, tb.note(t, n.ID))
}

func TestThrowPendingCommitsImmediately(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()

	_, err := tb.Compose(ctx, ComposeParams{Text: "throw me"})
	require.NoError(t, err)

	start := tb.PendingStart()
	assert.Equal(t, viewport.Point{X: 545, Y: 480}, start)

	n, err := tb.ThrowPending(ctx, viewport.Point{}, viewport.Point{})
	require.NoError(t, err)
	assert.Equal(t, 545.0, n.X)
	assert.Equal(t, 480.0, n.Y)
	assert.False(t, n.AutoThrow)
	assert.Equal(t, n, tb.note(t, n.ID))

	_, ok := tb.Pending()
	assert.False(t, ok)

	_, err = tb.ThrowPending(ctx, viewport.Point{}, viewport.Point{})
	assert.ErrorIs(t, err, ErrNoPending)
}

func TestThrowPendingUsesPendingFactorAndClamps(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()

	_, err := tb.Compose(ctx, ComposeParams{Text: "up"})
	require.NoError(t, err)
	n, err := tb.ThrowPending(ctx, viewport.Point{X: 10}, viewport.Point{X: 100, Y: -5000})
	require.NoError(t, err)

	assert.InDelta(t, 545+10+100*physics.MaxThrowFactor, n.X, 1e-9)
	assert.Equal(t, 60.0, n.Y, "thrown off the top clamps to the top margin")
}

func TestCancelPendingLeavesStoreUntouched(t *testing.T) {
	tb := newTestBoard(t)

	_, err := tb.Compose(context.Background(), ComposeParams{Text: "never mind"})
	require.NoError(t, err)
	assert.True(t, tb.CancelPending())
	assert.False(t, tb.CancelPending())

	assert.Equal(t, 0, tb.slots.Writes())
	assert.Equal(t, 0, tb.Store().Len())
}

func TestDragAndThrowCommitsOnceAfterSettle(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 100, 200)

	require.NoError(t, tb.DragStart(ctx, "a", viewport.Point{X: 110, Y: 210}))
	assert.Equal(t, 11, tb.note(t, "a").ZIndex, "drag start brings to front")
	assert.True(t, tb.Dragging("a"))

	tb.clock.Advance(16 * time.Millisecond)
	require.True(t, tb.DragMove("a", viewport.Point{X: 130, Y: 210}))
	tb.clock.Advance(16 * time.Millisecond)
	writes := tb.slots.Writes()

	st, err := tb.DragEnd("a", viewport.Point{X: 150, Y: 210})
	require.NoError(t, err)
	assert.False(t, tb.Dragging("a"))
	assert.Equal(t, viewport.Point{X: 140, Y: 200}, st.From)
	assert.InDelta(t, 140+1250*0.18, st.Rest.X, 1e-6)
	assert.InDelta(t, 200, st.Rest.Y, 1e-6)

	// Nothing is written until the settle completes.
	tb.clock.Advance(799 * time.Millisecond)
	assert.Equal(t, 100.0, tb.note(t, "a").X)
	assert.Equal(t, writes, tb.slots.Writes())

	tb.clock.Advance(time.Millisecond)
	got := tb.note(t, "a")
	assert.InDelta(t, st.Rest.X, got.X, 1e-6)
	assert.InDelta(t, st.Rest.Y, got.Y, 1e-6)
	assert.Equal(t, writes+1, tb.slots.Writes())
}

func TestReleaseAfterPauseHasNoVelocity(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 300, 300)

	require.NoError(t, tb.DragStart(ctx, "a", viewport.Point{X: 300, Y: 300}))
	tb.clock.Advance(10 * time.Millisecond)
	tb.DragMove("a", viewport.Point{X: 350, Y: 300})
	tb.clock.Advance(time.Second)

	st, err := tb.DragEnd("a", viewport.Point{X: 350, Y: 300})
	require.NoError(t, err)
	assert.Equal(t, viewport.Point{X: 350, Y: 300}, st.Rest)
}

func TestRedragDiscardsInFlightSettle(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 100, 300)

	first, err := tb.Throw(ctx, "a", viewport.Point{X: 100, Y: 300}, viewport.Point{X: 1000})
	require.NoError(t, err)
	tb.clock.Advance(300 * time.Millisecond)

	mid, ok := tb.Snapshot().Moving["a"]
	require.True(t, ok)
	require.NoError(t, tb.DragStart(ctx, "a", mid))

	tb.clock.Advance(2 * time.Second)
	assert.Equal(t, 100.0, tb.note(t, "a").X, "stale settle must not commit")

	st, err := tb.DragEnd("a", mid)
	require.NoError(t, err)
	assert.InDelta(t, mid.X, st.Rest.X, 1e-9)
	assert.NotEqual(t, first.Rest.X, st.Rest.X)

	tb.clock.Advance(800 * time.Millisecond)
	assert.InDelta(t, mid.X, tb.note(t, "a").X, 1e-9)
}

func TestThrowWhenZoomedOutReachesRevealedCanvas(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 100, 300)

	tb.SetZoom(0.5)
	at := tb.Viewport().CanvasToScreen(viewport.Point{X: 100, Y: 300}, tb.Size())
	st, err := tb.Throw(ctx, "a", at, viewport.Point{X: -100000})
	require.NoError(t, err)

	assert.InDelta(t, -640, st.Rest.X, 1e-6)
	tb.clock.Advance(time.Second)
	assert.InDelta(t, -640, tb.note(t, "a").X, 1e-6)
}

// failingSlots wraps MemorySlots with a switchable write failure.
type failingSlots struct {
	*store.MemorySlots
	fail bool
}

func (f *failingSlots) Set(ctx context.Context, key, value string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemorySlots.Set(ctx, key, value)
}

func TestThrowSurvivesFailedFrontWrite(t *testing.T) {
	ctx := context.Background()
	clock := physics.NewManualClock(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	slots := &failingSlots{MemorySlots: store.NewMemorySlots()}
	b, err := New(store.Open(ctx, slots), DefaultConfig(), WithClock(clock))
	require.NoError(t, err)
	require.NoError(t, b.Store().Add(ctx, model.Note{ID: "a", Text: "a", Color: model.ColorSky, StickerKind: "frog", X: 100, Y: 100, ZIndex: 10}))

	slots.fail = true
	st, err := b.Throw(ctx, "a", viewport.Point{X: 100, Y: 100}, viewport.Point{X: 1000})
	require.NoError(t, err)
	assert.False(t, b.Dragging("a"))

	slots.fail = false
	clock.Advance(time.Second)
	n, ok := b.Store().Get("a")
	require.True(t, ok)
	assert.InDelta(t, st.Rest.X, n.X, 1e-6)
	assert.NotEqual(t, 100.0, n.X)
}

func TestDragUnknownNote(t *testing.T) {
	tb := newTestBoard(t)
	assert.ErrorIs(t, tb.DragStart(context.Background(), "nope", viewport.Point{}), ErrNotFound)
	assert.False(t, tb.DragMove("nope", viewport.Point{}))
	_, err := tb.DragEnd("nope", viewport.Point{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelDragSchedulesNothing(t *testing.T) {
	tb := newTestBoard(t)
	tb.placed(t, "a", 100, 100)
	require.NoError(t, tb.DragStart(context.Background(), "a", viewport.Point{X: 100, Y: 100}))
	assert.True(t, tb.CancelDrag("a"))

	tb.clock.Advance(time.Second)
	assert.Equal(t, 0, tb.clock.Waiting())
	assert.Equal(t, 100.0, tb.note(t, "a").X)
}

func TestDeleteDropsSettle(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 100, 100)

	_, err := tb.Throw(ctx, "a", viewport.Point{X: 100, Y: 100}, viewport.Point{X: 500})
	require.NoError(t, err)
	require.NoError(t, tb.Delete(ctx, "a"))
	assert.Equal(t, 0, tb.clock.Waiting())

	tb.clock.Advance(time.Second)
	assert.Equal(t, 0, tb.Store().Len())
}

func TestClearDropsEverything(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 100, 100)
	tb.placed(t, "b", 200, 200)
	_, err := tb.Throw(ctx, "a", viewport.Point{X: 100, Y: 100}, viewport.Point{X: 500})
	require.NoError(t, err)
	require.NoError(t, tb.DragStart(ctx, "b", viewport.Point{X: 200, Y: 200}))

	require.NoError(t, tb.Clear(ctx))
	assert.Equal(t, 0, tb.Store().Len())
	assert.False(t, tb.Dragging("b"))
	assert.Empty(t, tb.Snapshot().Moving)
}

func TestCloseFlushesSettles(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 100, 300)

	st, err := tb.Throw(ctx, "a", viewport.Point{X: 100, Y: 300}, viewport.Point{X: 500})
	require.NoError(t, err)
	tb.Close()

	assert.InDelta(t, st.Rest.X, tb.note(t, "a").X, 1e-9)
	assert.Equal(t, 0, tb.clock.Waiting())
}

func TestEditAppliesOnlyChanges(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 0, 0)
	writes := tb.slots.Writes()

	same := "note a"
	color := model.ColorSky
	changed, err := tb.Edit(ctx, "a", EditParams{Text: &same, Color: &color})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, writes, tb.slots.Writes())

	blank := "   "
	changed, err = tb.Edit(ctx, "a", EditParams{Text: &blank})
	require.NoError(t, err)
	assert.False(t, changed, "empty edit keeps the old text")

	text := "  renamed  "
	butter := model.ColorButter
	kind := model.StickerKind("whale")
	changed, err = tb.Edit(ctx, "a", EditParams{Text: &text, Color: &butter, StickerKind: &kind})
	require.NoError(t, err)
	assert.True(t, changed)

	got := tb.note(t, "a")
	assert.Equal(t, "renamed", got.Text)
	assert.Equal(t, model.ColorButter, got.Color)
	assert.Equal(t, kind, got.StickerKind)
	assert.Equal(t, writes+1, tb.slots.Writes())

	_, err = tb.Edit(ctx, "zzz", EditParams{Text: &text})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBringToFrontScenario(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "A", 0, 0)
	tb.placed(t, "B", 0, 0)

	require.NoError(t, tb.BringToFront(ctx, "A"))
	a, b := tb.note(t, "A"), tb.note(t, "B")
	assert.Greater(t, a.ZIndex, b.ZIndex)
	assert.Greater(t, a.ZIndex, 10)
}

func TestNavigation(t *testing.T) {
	tb := newTestBoard(t)

	tb.Wheel(viewport.WheelEvent{DeltaY: -50, Modifier: true})
	assert.InDelta(t, 1.5, tb.Viewport().Zoom, 1e-9)

	tb.Wheel(viewport.WheelEvent{DeltaX: 10, DeltaY: 20})
	assert.Equal(t, -10.0, tb.Viewport().PanX)
	assert.Equal(t, -20.0, tb.Viewport().PanY)

	tb.PanStart(viewport.Point{X: 100, Y: 100})
	tb.PanMove(viewport.Point{X: 130, Y: 90})
	tb.PanEnd()
	assert.Equal(t, 20.0, tb.Viewport().PanX)
	assert.Equal(t, -30.0, tb.Viewport().PanY)

	tb.Touch([]viewport.Point{{X: 0, Y: 0}, {X: 100, Y: 0}})
	tb.Touch([]viewport.Point{{X: 0, Y: 0}, {X: 50, Y: 0}})
	assert.InDelta(t, 0.75, tb.Viewport().Zoom, 1e-9)
	tb.TouchEnd(nil)

	assert.InDelta(t, 0.95, tb.ZoomIn(), 1e-9)
	assert.InDelta(t, 0.75, tb.ZoomOut(), 1e-9)
	tb.ResetView()
	assert.Equal(t, *viewport.New(), tb.Viewport())
}

func TestScreenToCanvasScenario(t *testing.T) {
	clock := physics.NewManualClock(time.Now())
	cfg := DefaultConfig()
	cfg.Size = viewport.Size{W: 800, H: 600}
	b, err := New(store.Open(context.Background(), store.NewMemorySlots()), cfg, WithClock(clock))
	require.NoError(t, err)

	b.SetZoom(0.5)
	b.SetPan(100, -50)
	got := b.ScreenToCanvas(viewport.Point{X: 400, Y: 300})
	assert.InDelta(t, 200, got.X, 1e-9)
	assert.InDelta(t, 400, got.Y, 1e-9)
}

func TestSnapshot(t *testing.T) {
	tb := newTestBoard(t)
	ctx := context.Background()
	tb.placed(t, "a", 100, 100)
	_, err := tb.Compose(ctx, ComposeParams{Text: "pending"})
	require.NoError(t, err)
	require.NoError(t, tb.DragStart(ctx, "a", viewport.Point{X: 100, Y: 100}))
	tb.DragMove("a", viewport.Point{X: 150, Y: 120})

	snap := tb.Snapshot()
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, viewport.Point{X: 150, Y: 120}, snap.Moving["a"])
	require.NotNil(t, snap.Pending)
	assert.Equal(t, "pending", snap.Pending.Text)
	assert.Equal(t, voice.Idle, snap.Voice.State)
	assert.False(t, snap.Voice.Supported)
	assert.Equal(t, 1.0, snap.Viewport.Zoom)
}

func TestDictationWithoutRecognizer(t *testing.T) {
	tb := newTestBoard(t)
	assert.Equal(t, voice.Erroring, tb.StartDictation())
	assert.Equal(t, voice.KindUnsupported, tb.Voice().Error().Kind)

	_, err := tb.ComposeFromVoice(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Equal(t, voice.Idle, tb.Voice().State())
}

func TestComposeFromVoice(t *testing.T) {
	rec, err := voice.NewScriptRecognizer(strings.NewReader("water the|plants\n\nand the cat\n"))
	require.NoError(t, err)
	tb := newTestBoard(t, WithVoice(voice.NewSession(rec)))

	assert.Equal(t, voice.Listening, tb.StartDictation())
	require.NoError(t, rec.Play(context.Background()))
	assert.Equal(t, "water the plants and the cat", tb.Voice().Transcript())

	n, err := tb.ComposeFromVoice(context.Background(), model.ColorGrass)
	require.NoError(t, err)
	assert.Equal(t, "water the plants and the cat", n.Text)
	assert.Equal(t, model.ColorGrass, n.Color)
	assert.True(t, n.AutoThrow)
	assert.Equal(t, 1, tb.Store().Len())

	assert.Equal(t, voice.Idle, tb.Voice().State())
	assert.Empty(t, tb.Voice().Transcript())
}
