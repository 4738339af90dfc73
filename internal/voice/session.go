// Package voice keeps a dictation session listening across the silence
// timeouts of the underlying speech recognizer and classifies its failures.
package voice

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rcliao/thought-stick/internal/metrics"
)

// State is the observable capture state.
type State int

const (
	Idle State = iota
	Listening
	Erroring
)

func (s State) String() string {
	switch s {
	case Listening:
		return "listening"
	case Erroring:
		return "erroring"
	default:
		return "idle"
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is one recognition slot: alternative transcriptions, best first.
type Result []string

// Listener receives recognizer events for a single capture run.
type Listener interface {
	Result(results []Result)
	Error(code string)
	End()
}

// Recognizer is the platform speech capability. A run starts with Start and
// finishes with a single End, whether it stopped on its own or was told to.
// End may arrive before Start returns; the restart it triggers is then run
// by the pending launch once Start returns.
type Recognizer interface {
	Start(l Listener) error
	Stop() error
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.BoardMetrics) Option {
	return func(s *Session) { s.metrics = m }
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	State      State         `json:"state"`
	Supported  bool          `json:"supported"`
	Transcript string        `json:"transcript"`
	Error      *CaptureError `json:"error,omitempty"`
}

// Session is a continuous dictation session. Every recognizer run gets its
// own generation; callbacks from any run but the current one are dropped.
type Session struct {
	mu         sync.Mutex
	rec        Recognizer
	state      State
	intent     bool
	gen        uint64
	base       string // transcript carried over from earlier runs
	transcript string
	err        *CaptureError
	launching  bool
	relaunch   *listener
	log        zerolog.Logger
	metrics    *metrics.BoardMetrics
}

// NewSession wraps rec. A nil rec means the platform has no speech support.
func NewSession(rec Recognizer, opts ...Option) *Session {
	s := &Session{rec: rec, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Supported reports whether a recognizer is available.
func (s *Session) Supported() bool { return s.rec != nil }

// Start begins capture. It only acts from Idle and clears the previous
// transcript and error.
func (s *Session) Start() {
	s.mu.Lock()
	if s.state != Idle {
		s.mu.Unlock()
		return
	}
	s.transcript, s.base, s.err = "", "", nil
	if s.rec == nil {
		s.fail(unsupported())
		s.metrics.RecordVoiceSession("unsupported")
		s.mu.Unlock()
		return
	}
	s.intent = true
	s.state = Listening
	l := s.nextListener()
	s.mu.Unlock()

	s.metrics.RecordVoiceSession("started")
	s.launch(l)
}

// Stop ends capture from Listening or Erroring and clears the intent to keep
// listening. Calling it from Idle does nothing.
func (s *Session) Stop() {
	s.mu.Lock()
	s.intent = false
	if s.state == Idle {
		s.mu.Unlock()
		return
	}
	wasListening := s.state == Listening
	s.state = Idle
	s.gen++
	s.mu.Unlock()

	s.metrics.RecordVoiceSession("stopped")
	if wasListening {
		if err := s.rec.Stop(); err != nil {
			s.log.Debug().Err(err).Msg("recognizer stop")
		}
	}
}

// ClearTranscript empties the transcript without changing state.
func (s *Session) ClearTranscript() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript, s.base = "", ""
}

// ClearError acknowledges the current error. An Erroring session returns to Idle.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	if s.state == Erroring {
		s.state = Idle
	}
}

// State returns the capture state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Transcript returns the current transcript.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcript
}

// Error returns the current capture error, if any.
func (s *Session) Error() *CaptureError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:      s.state,
		Supported:  s.rec != nil,
		Transcript: s.transcript,
		Error:      s.err,
	}
}

func (s *Session) nextListener() *listener {
	s.gen++
	return &listener{s: s, gen: s.gen}
}

// launch starts a recognizer run outside the lock, since recognizers may
// call back synchronously. Restarts requested during Start are queued in
// relaunch and started here in turn.
func (s *Session) launch(l *listener) {
	for l != nil {
		s.mu.Lock()
		s.launching = true
		s.mu.Unlock()

		err := s.rec.Start(l)

		s.mu.Lock()
		s.launching = false
		next := s.relaunch
		s.relaunch = nil
		if next != nil && next.gen != s.gen {
			next = nil
		}
		if err != nil && s.gen == l.gen {
			s.log.Warn().Err(err).Msg("voice capture failed to start")
			s.fail(startFailed(err))
		}
		s.mu.Unlock()
		l = next
	}
}

// fail moves to Erroring. Callers hold the lock.
func (s *Session) fail(ce *CaptureError) {
	s.intent = false
	s.state = Erroring
	s.err = ce
	s.metrics.RecordVoiceError(string(ce.Kind))
}

func (s *Session) current(gen uint64) bool {
	return gen == s.gen && s.state == Listening
}

func (s *Session) onResult(gen uint64, results []Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	var b strings.Builder
	for _, r := range results {
		if len(r) > 0 {
			b.WriteString(r[0])
		}
	}
	run := strings.TrimSpace(b.String())
	switch {
	case s.base == "":
		s.transcript = run
	case run == "":
		s.transcript = s.base
	default:
		s.transcript = s.base + " " + run
	}
}

func (s *Session) onError(gen uint64, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(gen) {
		return
	}
	switch code {
	case CodeNoSpeech:
		return
	case CodeAborted:
		// Aborted without our own stop: the platform gave up, nothing to report.
		s.intent = false
		s.state = Idle
		return
	}
	ce := Classify(code)
	s.log.Warn().Str("code", code).Str("kind", string(ce.Kind)).Msg("voice capture failed")
	s.fail(ce)
}

func (s *Session) onEnd(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	if !s.intent || s.state != Listening {
		if s.state == Listening {
			s.state = Idle
		}
		s.mu.Unlock()
		return
	}
	s.base = s.transcript
	l := s.nextListener()
	deferred := s.launching
	if deferred {
		s.relaunch = l
	}
	s.mu.Unlock()

	s.log.Debug().Uint64("gen", l.gen).Msg("voice capture restarted")
	s.metrics.RecordVoiceRestart()
	if !deferred {
		s.launch(l)
	}
}

type listener struct {
	s   *Session
	gen uint64
}

func (l *listener) Result(results []Result) { l.s.onResult(l.gen, results) }
func (l *listener) Error(code string)       { l.s.onError(l.gen, code) }
func (l *listener) End()                    { l.s.onEnd(l.gen) }
