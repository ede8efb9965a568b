package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// Player implements ports.AudioPlayer by starting an external command per
// note. The note is passed through the environment, never as arguments:
//
//	CIRCUIT_PITCH  scientific pitch name, e.g. "A4"
//	CIRCUIT_HZ     equal-tempered frequency, e.g. "440.00"
//	CIRCUIT_INDEX  position of the pitch in the scale
type Player struct {
	ctx     context.Context
	cfg     Config
	logger  *slog.Logger
	running chan struct{}
	wg      sync.WaitGroup
}

// PlayerOption configures the player.
type PlayerOption func(*Player)

// WithLogger sets the logger used for command failures.
func WithLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) {
		p.logger = logger
	}
}

// NewPlayer validates cfg and returns a player whose commands are killed
// when ctx is done.
func NewPlayer(ctx context.Context, cfg Config, opts ...PlayerOption) (*Player, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Player{
		ctx:     ctx,
		cfg:     cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		running: make(chan struct{}, cfg.MaxRunning),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PlayPitch starts the command in the background and returns immediately.
func (p *Player) PlayPitch(pitch domain.Pitch) {
	if p.ctx.Err() != nil {
		return
	}
	select {
	case p.running <- struct{}{}:
	default:
		p.logger.Warn("audio command dropped, too many running", "pitch", pitch, "max", p.cfg.MaxRunning)
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.running }()
		if err := p.run(pitch); err != nil {
			p.logger.Warn("audio command failed", "pitch", pitch, "error", err)
		}
	}()
}

// Wait blocks until every started command has exited.
func (p *Player) Wait() {
	p.wg.Wait()
}

func (p *Player) run(pitch domain.Pitch) error {
	ctx, cancel := context.WithTimeout(p.ctx, p.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.cfg.Command, p.cfg.Args...)
	cmd.Dir = p.cfg.Dir

	env := []string{
		"CIRCUIT_PITCH=" + pitch.String(),
		fmt.Sprintf("CIRCUIT_HZ=%.2f", pitch.Frequency()),
		fmt.Sprintf("CIRCUIT_INDEX=%d", pitch.Index()),
	}
	for k, v := range p.cfg.Environment {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}
