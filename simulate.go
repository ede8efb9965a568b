package circuit

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// Default bounds for a single Simulate call.
const (
	DefaultMaxInFlight = 10_000
	DefaultMaxFires    = 250_000
)

// ErrSimulationBudget is returned when a simulation exceeds its signal or
// fire budget, as a circuit with a runaway multicast loop does.
var ErrSimulationBudget = errors.New("simulation budget exceeded")

// ScheduledFire fires node Node right before tick Tick runs.
// Tick 0 fires before the first tick.
type ScheduledFire struct {
	Tick uint64 `json:"tick"`
	Node int    `json:"node"`
}

// Simulation is the outcome of a headless run.
type Simulation struct {
	Ticks    uint64             `json:"ticks"`
	Fires    []domain.FireEvent `json:"fires"`
	Pitches  []domain.Pitch     `json:"pitches"`
	InFlight int                `json:"in_flight"`
	Token    string             `json:"token"`
}

// Simulate runs ticks frames, firing the scheduled nodes along the way, and
// reports every fire in order. Node ids refer to positions in the store.
// The run stops with ErrSimulationBudget once the signals in flight or the
// recorded fires pass the limits set by WithSimulationLimits.
func (e *Engine) Simulate(ctx context.Context, ticks int, fires []ScheduledFire) (*Simulation, error) {
	if ticks < 0 {
		return nil, fmt.Errorf("ticks must not be negative, got %d", ticks)
	}

	schedule := make(map[uint64][]int)
	for _, f := range fires {
		if _, err := e.store.Node(f.Node); err != nil {
			return nil, fmt.Errorf("scheduled fire at tick %d: %w", f.Tick, err)
		}
		schedule[f.Tick] = append(schedule[f.Tick], f.Node)
	}

	e.trace = nil
	e.tracing = true
	defer func() { e.tracing = false }()

	start := e.runtime.Ticks()
	for i := 0; i <= ticks; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, id := range schedule[uint64(i)] {
			n, err := e.store.Node(id)
			if err != nil {
				return nil, err
			}
			if _, err := e.runtime.Fire(n); err != nil {
				return nil, err
			}
		}
		if i < ticks {
			e.runtime.Tick()
		}
		if err := e.checkBudget(uint64(i)); err != nil {
			e.trace = nil
			e.logger.Warn("simulation aborted", "error", err)
			return nil, err
		}
	}

	sim := &Simulation{
		Ticks:    e.runtime.Ticks() - start,
		Fires:    e.trace,
		InFlight: e.store.SignalCount(),
		Token:    e.Encode(),
	}
	sim.Pitches = make([]domain.Pitch, len(sim.Fires))
	for i, f := range sim.Fires {
		sim.Pitches[i] = f.Pitch
	}
	e.trace = nil

	e.logger.Info("simulation finished", "ticks", sim.Ticks, "fires", len(sim.Fires), "in_flight", sim.InFlight)
	return sim, nil
}

func (e *Engine) checkBudget(tick uint64) error {
	if n := e.store.SignalCount(); n > e.maxInFlight {
		return fmt.Errorf("%w: %d signals in flight at tick %d (limit %d)", ErrSimulationBudget, n, tick, e.maxInFlight)
	}
	if n := len(e.trace); n > e.maxFires {
		return fmt.Errorf("%w: %d fires by tick %d (limit %d)", ErrSimulationBudget, n, tick, e.maxFires)
	}
	return nil
}
