package ports

import "github.com/alexdmiller/sonic-circuit/pkg/domain"

// AudioPlayer is called synchronously on every fire and must not block.
type AudioPlayer interface {
	PlayPitch(p domain.Pitch)
}

// AudioFunc adapts a function to AudioPlayer.
type AudioFunc func(p domain.Pitch)

// PlayPitch calls f(p).
func (f AudioFunc) PlayPitch(p domain.Pitch) {
	f(p)
}

// Renderer draws the current state of a circuit.
type Renderer interface {
	Render(frame domain.Frame) error
}
