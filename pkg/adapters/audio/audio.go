// Package audio provides ports.AudioPlayer implementations that do not need
// a sound device: a recorder, a structured-log player and a terminal bell.
package audio

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/ports"
)

// Recorder remembers every pitch it is asked to play.
// Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	played []domain.Pitch
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// PlayPitch appends p.
func (r *Recorder) PlayPitch(p domain.Pitch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, p)
}

// Played returns a copy of the pitches played so far.
func (r *Recorder) Played() []domain.Pitch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Pitch(nil), r.played...)
}

// Reset forgets everything played.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = nil
}

// LogPlayer logs each pitch with its frequency.
type LogPlayer struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewLogPlayer logs at info level.
func NewLogPlayer(logger *slog.Logger) *LogPlayer {
	return &LogPlayer{Logger: logger, Level: slog.LevelInfo}
}

// PlayPitch logs p.
func (l *LogPlayer) PlayPitch(p domain.Pitch) {
	l.Logger.Log(context.Background(), l.Level, "play", "pitch", p.String(), "hz", p.Frequency())
}

// Bell rings the terminal bell on every fire.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell writes BEL characters to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// PlayPitch writes one BEL. Write errors are ignored: audio must not block
// or fail the engine.
func (b *Bell) PlayPitch(domain.Pitch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = b.w.Write([]byte{'\a'})
}

// Multi fans a pitch out to several players in order.
type Multi []ports.AudioPlayer

// PlayPitch calls every player.
func (m Multi) PlayPitch(p domain.Pitch) {
	for _, player := range m {
		player.PlayPitch(p)
	}
}
