package voice

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ErrRunning is returned when Start is called while a run is in progress.
var ErrRunning = errors.New("recognizer already running")

// ScriptRecognizer replays a text script as recognizer events. Each line is
// one event:
//
//	text | more       the full result set of the run, one slot per '|'
//	!code             a platform error; any code but no-speech also ends the run
//	(blank)           silence timeout, the run ends on its own
//	# comment         ignored
type ScriptRecognizer struct {
	mu       sync.Mutex
	lines    []string
	pos      int
	listener Listener
	running  bool
	starts   int

	// MaxStarts limits how many runs may be started. Zero means no limit.
	MaxStarts int
}

// NewScriptRecognizer reads the whole script from r.
func NewScriptRecognizer(r io.Reader) (*ScriptRecognizer, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return &ScriptRecognizer{lines: lines}, nil
}

func (r *ScriptRecognizer) Start(l Listener) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrRunning
	}
	if r.MaxStarts > 0 && r.starts >= r.MaxStarts {
		return fmt.Errorf("start limit %d reached", r.MaxStarts)
	}
	r.starts++
	r.listener = l
	r.running = true
	return nil
}

// Stop aborts the current run, reporting aborted followed by the end of the run.
func (r *ScriptRecognizer) Stop() error {
	l := r.finish()
	if l != nil {
		l.Error(CodeAborted)
		l.End()
	}
	return nil
}

// Starts returns how many runs have been started.
func (r *ScriptRecognizer) Starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

// Play delivers the remaining script lines to the active run. It returns when
// the script is exhausted, no run is active, or ctx is done.
func (r *ScriptRecognizer) Play(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.mu.Lock()
		if !r.running || r.pos >= len(r.lines) {
			r.mu.Unlock()
			return nil
		}
		line := strings.TrimSpace(r.lines[r.pos])
		r.pos++
		l := r.listener
		r.mu.Unlock()

		switch {
		case strings.HasPrefix(line, "#"):
		case line == "":
			if l := r.finish(); l != nil {
				l.End()
			}
		case strings.HasPrefix(line, "!"):
			code := strings.TrimPrefix(line, "!")
			l.Error(code)
			if code != CodeNoSpeech {
				if l := r.finish(); l != nil {
					l.End()
				}
			}
		default:
			l.Result(parseResults(line))
		}
	}
}

func (r *ScriptRecognizer) finish() Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running {
		return nil
	}
	l := r.listener
	r.running = false
	r.listener = nil
	return l
}

func parseResults(line string) []Result {
	parts := strings.Split(line, "|")
	out := make([]Result, 0, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i > 0 {
			p = " " + p
		}
		out = append(out, Result{p})
	}
	return out
}
