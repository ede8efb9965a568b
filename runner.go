package circuit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/alexdmiller/sonic-circuit/pkg/ports"
)

// DefaultFPS matches the frame rate of a browser animation loop.
const DefaultFPS = 60

// Runner drives an Engine in real time: one Tick per frame, scheduled fires
// before their tick, and an optional Renderer called after every tick.
type Runner struct {
	Engine *Engine

	// Renderer, if set, receives a frame after every tick.
	Renderer ports.Renderer

	// FPS is the tick rate. Zero means DefaultFPS.
	FPS int

	// MaxTicks stops the loop after that many ticks. Zero runs until ctx is done.
	MaxTicks uint64

	// Fires are applied right before the tick whose number they name.
	Fires []ScheduledFire

	// Reload, if set, delivers tokens that replace the running circuit
	// between ticks. A token that fails to decode is logged and skipped.
	Reload <-chan string

	// Logger is used for lifecycle logging. If nil, a no-op logger is used.
	Logger *slog.Logger
}

// NewRunner creates a Runner for eng at the default frame rate.
func NewRunner(eng *Engine) *Runner {
	return &Runner{
		Engine: eng,
		FPS:    DefaultFPS,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Run ticks until ctx is cancelled or MaxTicks is reached. Cancellation is
// a normal exit and returns nil.
func (r *Runner) Run(ctx context.Context) error {
	if r.Engine == nil {
		return errors.New("runner: engine must be set")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	fps := r.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	schedule := make(map[uint64][]int)
	for _, f := range r.Fires {
		schedule[f.Tick] = append(schedule[f.Tick], f.Node)
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	logger.Info("runner started", "fps", fps, "max_ticks", r.MaxTicks, "nodes", len(r.Engine.Nodes()))
	var done uint64
	// fired is one past the last tick whose schedule was applied.
	var fired uint64
	for {
		if fired == done {
			if err := r.fireScheduled(schedule[done]); err != nil {
				return err
			}
			fired = done + 1
		}
		if r.MaxTicks > 0 && done >= r.MaxTicks {
			logger.Info("runner finished", "ticks", done)
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Info("runner stopped", "ticks", done)
			return nil
		case token, ok := <-r.Reload:
			if !ok {
				r.Reload = nil
				continue
			}
			if err := r.Engine.Load(token); err != nil {
				logger.Warn("reload rejected, keeping current circuit", "error", err)
			} else {
				logger.Info("circuit reloaded", "nodes", len(r.Engine.Nodes()), "edges", len(r.Engine.Edges()))
			}
			continue
		case <-ticker.C:
		}

		r.Engine.Tick()
		done++
		if r.Renderer != nil {
			if err := r.Engine.Render(r.Renderer); err != nil {
				return err
			}
		}
	}
}

func (r *Runner) fireScheduled(ids []int) error {
	for _, id := range ids {
		n, err := r.Engine.Store().Node(id)
		if err != nil {
			return err
		}
		if _, err := r.Engine.Fire(n); err != nil {
			return err
		}
	}
	return nil
}
