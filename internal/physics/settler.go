package physics

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rcliao/thought-stick/internal/metrics"
	"github.com/rcliao/thought-stick/internal/viewport"
)

// CommitFunc receives the resting position of a note once its settle completes.
type CommitFunc func(id string, rest viewport.Point)

// SettlerOption configures a Settler.
type SettlerOption func(*Settler)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) SettlerOption {
	return func(s *Settler) { s.log = log }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.BoardMetrics) SettlerOption {
	return func(s *Settler) { s.metrics = m }
}

type scheduled struct {
	seq     uint64
	timer   Timer
	settle  Settle
	started time.Time
}

// Settler holds at most one scheduled commit per note id. Scheduling or
// canceling a note replaces whatever was pending for it, so only the last
// gesture on a note ever reaches the store.
type Settler struct {
	mu      sync.Mutex
	clock   Clock
	commit  CommitFunc
	pending map[string]*scheduled
	seq     uint64
	log     zerolog.Logger
	metrics *metrics.BoardMetrics
}

// NewSettler returns a Settler that calls commit when a settle completes.
func NewSettler(clock Clock, commit CommitFunc, opts ...SettlerOption) *Settler {
	if clock == nil {
		clock = RealClock()
	}
	s := &Settler{
		clock:   clock,
		commit:  commit,
		pending: map[string]*scheduled{},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule arranges for st.Rest to be committed for id after st.Duration,
// superseding any settle already pending for id.
func (s *Settler) Schedule(id string, st Settle) {
	s.mu.Lock()
	s.dropLocked(id, "superseded")
	s.seq++
	seq := s.seq
	p := &scheduled{seq: seq, settle: st, started: s.clock.Now()}
	s.pending[id] = p
	p.timer = s.clock.AfterFunc(st.Duration, func() { s.fire(id, seq) })
	s.mu.Unlock()
}

// Cancel drops the pending settle for id. It reports whether one existed.
func (s *Settler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropLocked(id, "canceled")
}

func (s *Settler) dropLocked(id, reason string) bool {
	p, ok := s.pending[id]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(s.pending, id)
	s.metrics.RecordSettleDiscarded(reason)
	s.log.Debug().Str("id", id).Str("reason", reason).Msg("settle discarded")
	return true
}

func (s *Settler) fire(id string, seq uint64) {
	s.mu.Lock()
	p, ok := s.pending[id]
	if !ok || p.seq != seq {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.mu.Unlock()

	s.metrics.RecordSettleCommit()
	s.commit(id, p.settle.Rest)
}

// Pending reports whether a settle is scheduled for id.
func (s *Settler) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

// Len returns the number of pending settles.
func (s *Settler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Position returns where the settle animation for id currently has the note.
func (s *Settler) Position(id string) (viewport.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok {
		return viewport.Point{}, false
	}
	return p.settle.Trajectory.At(s.clock.Now().Sub(p.started)), true
}

// Positions returns the current animation position of every pending settle.
func (s *Settler) Positions() map[string]viewport.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	out := make(map[string]viewport.Point, len(s.pending))
	for id, p := range s.pending {
		out[id] = p.settle.Trajectory.At(now.Sub(p.started))
	}
	return out
}

// Flush commits every pending settle immediately, in scheduling order.
func (s *Settler) Flush() int {
	s.mu.Lock()
	type item struct {
		id string
		p  *scheduled
	}
	items := make([]item, 0, len(s.pending))
	for id, p := range s.pending {
		p.timer.Stop()
		items = append(items, item{id, p})
	}
	s.pending = map[string]*scheduled{}
	s.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].p.seq < items[j].p.seq })
	for _, it := range items {
		s.metrics.RecordSettleCommit()
		s.commit(it.id, it.p.settle.Rest)
	}
	return len(items)
}

// Stop cancels every pending settle without committing.
func (s *Settler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.pending {
		s.dropLocked(id, "stopped")
	}
}
