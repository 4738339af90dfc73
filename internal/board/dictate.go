package board

import (
	"context"

	"github.com/rcliao/thought-stick/internal/model"
	"github.com/rcliao/thought-stick/internal/voice"
)

// Voice returns the dictation session.
func (b *Board) Voice() *voice.Session { return b.voice }

// StartDictation starts listening.
func (b *Board) StartDictation() voice.State {
	b.voice.Start()
	return b.voice.State()
}

// StopDictation stops listening and returns the transcript so far.
func (b *Board) StopDictation() string {
	b.voice.Stop()
	return b.voice.Transcript()
}

// ComposeFromVoice stops dictation and puts the transcript on the board as a
// dictated note. The transcript is cleared once the note is committed.
func (b *Board) ComposeFromVoice(ctx context.Context, color model.Color) (model.Note, error) {
	text := b.StopDictation()
	n, err := b.Compose(ctx, ComposeParams{Text: text, Color: color, Dictated: true})
	if err != nil {
		return n, err
	}
	b.voice.ClearTranscript()
	return n, nil
}
