package runtime

import (
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/alexdmiller/sonic-circuit/pkg/dispatch"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/graph"
	"github.com/alexdmiller/sonic-circuit/pkg/ports"
)

// Engine advances in-flight signals one tick at a time and fires the nodes
// they reach. It owns all mutable circuit state (signal lists, cursors,
// excitement) and is not safe for concurrent use.
type Engine struct {
	store *graph.Store
	speed float64
	tick  uint64

	audio  ports.AudioPlayer
	rng    dispatch.Rand
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithAudio sets the player called on every fire.
func WithAudio(p ports.AudioPlayer) EngineOption {
	return func(e *Engine) {
		e.audio = p
	}
}

// WithRand sets the random source used by random dispatch.
func WithRand(r dispatch.Rand) EngineOption {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over store. speed is the distance every signal
// travels per tick; it is fixed for the engine's lifetime.
func NewEngine(store *graph.Store, speed float64, opts ...EngineOption) *Engine {
	e := &Engine{
		store:  store,
		speed:  speed,
		audio:  ports.AudioFunc(func(domain.Pitch) {}),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Speed returns the per-tick signal distance.
func (e *Engine) Speed() float64 {
	return e.speed
}

// Ticks returns how many ticks have completed.
func (e *Engine) Ticks() uint64 {
	return e.tick
}

// Store returns the graph the engine runs on.
func (e *Engine) Store() *graph.Store {
	return e.store
}

// Arrival records a signal reaching the end of its edge.
type Arrival struct {
	Edge *domain.Edge
}

// TickReport summarizes one tick.
type TickReport struct {
	Tick     uint64
	Arrivals int
	Emitted  int
	Fired    []int // node ids, in firing order
}

// Tick runs one frame of the simulation:
//
//  1. decay every node's excitement;
//  2. advance every in-flight signal by the engine speed;
//  3. remove the signals whose progress exceeds their edge's current length;
//  4. fire the end node of each removed signal, in collection order.
//
// Signals emitted in step 4 start at progress 0 and are first advanced on the
// next tick, so a fire never feeds back into the tick that caused it.
func (e *Engine) Tick() TickReport {
	e.tick++
	report := TickReport{Tick: e.tick}

	e.store.Reindex()
	e.Decay()

	arrivals := e.collectArrivals()
	report.Arrivals = len(arrivals)

	for _, a := range arrivals {
		e.emitArrive(a.Edge)
		report.Emitted += e.fire(a.Edge.End, false)
		report.Fired = append(report.Fired, a.Edge.End.ID)
	}

	e.emitTick()
	if report.Arrivals > 0 {
		e.logger.Debug("tick", "tick", e.tick, "arrivals", report.Arrivals, "emitted", report.Emitted)
	}
	return report
}

// collectArrivals advances and scans every edge before any node fires.
func (e *Engine) collectArrivals() []Arrival {
	var arrivals []Arrival
	for _, edge := range e.store.Edges() {
		if len(edge.Signals) == 0 {
			continue
		}
		length := edge.Length()
		kept := edge.Signals[:0]
		for _, progress := range edge.Signals {
			progress += e.speed
			if progress > length {
				arrivals = append(arrivals, Arrival{Edge: edge})
				continue
			}
			kept = append(kept, progress)
		}
		edge.Signals = kept
	}
	return arrivals
}

// Fire fires n as if a signal had just reached it: it plays n's pitch,
// dispatches new signals and sets n's excitement to 1. It returns the number
// of signals emitted.
func (e *Engine) Fire(n *domain.Node) (int, error) {
	if !e.store.Contains(n) {
		return 0, domain.ErrNodeNotFound
	}
	e.store.Reindex()
	return e.fire(n, true), nil
}

func (e *Engine) fire(n *domain.Node, manual bool) int {
	e.audio.PlayPitch(n.Pitch)

	emitted := dispatch.Dispatch(n, e.rng)
	for _, edge := range emitted {
		e.emitEmit(edge)
	}
	n.Excite()

	e.emitFire(n, len(emitted), manual)
	return len(emitted)
}

// Preview plays n's pitch without dispatching or exciting it, for feedback
// while the user adjusts the pitch.
func (e *Engine) Preview(n *domain.Node) {
	e.audio.PlayPitch(n.Pitch)
}

// Decay applies one frame of excitement decay to every node.
func (e *Engine) Decay() {
	for _, n := range e.store.Nodes() {
		n.Decay()
	}
}

// Reset drops every in-flight signal and clears excitement.
func (e *Engine) Reset() {
	e.store.ClearAllSignals()
	for _, n := range e.store.Nodes() {
		n.Excitement = 0
	}
	e.logger.Info("circuit reset")
}
