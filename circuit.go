package circuit

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/alexdmiller/sonic-circuit/internal/runtime"
	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/dispatch"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/graph"
	"github.com/alexdmiller/sonic-circuit/pkg/ports"
)

// ErrInvalidGeometry is returned when the cell size or speed is not positive.
var ErrInvalidGeometry = errors.New("cell size and speed must be positive")

// Engine is the high-level entry point for the circuit library.
// It owns a graph store and wires the signal engine, dispatch policy and
// codec together. Cell size and speed are fixed once New returns.
type Engine struct {
	store   *graph.Store
	runtime *runtime.Engine
	codec   *codec.Codec

	cellSize float64
	speed    float64
	audio    ports.AudioPlayer
	rng      dispatch.Rand
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	maxInFlight int
	maxFires    int

	trace []domain.FireEvent
	// tracing is set while Simulate is collecting fire events.
	tracing bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCellSize sets the grid spacing (default 25).
func WithCellSize(size float64) Option {
	return func(e *Engine) {
		e.cellSize = size
	}
}

// WithSpeed sets the distance a signal travels per tick (default 2).
func WithSpeed(speed float64) Option {
	return func(e *Engine) {
		e.speed = speed
	}
}

// WithAudio sets the player called every time a node fires.
func WithAudio(p ports.AudioPlayer) Option {
	return func(e *Engine) {
		e.audio = p
	}
}

// WithSeed makes random dispatch reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithRand sets a custom random source for random dispatch.
func WithRand(r dispatch.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSimulationLimits bounds the signals in flight and the fires recorded
// by Simulate. Non-positive values keep the defaults.
func WithSimulationLimits(maxInFlight, maxFires int) Option {
	return func(e *Engine) {
		if maxInFlight > 0 {
			e.maxInFlight = maxInFlight
		}
		if maxFires > 0 {
			e.maxFires = maxFires
		}
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes an engine with an empty circuit.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		cellSize:    domain.DefaultCellSize,
		speed:       domain.DefaultSpeed,
		maxInFlight: DefaultMaxInFlight,
		maxFires:    DefaultMaxFires,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.cellSize <= 0 || eng.speed <= 0 {
		return nil, fmt.Errorf("%w (cell size %v, speed %v)", ErrInvalidGeometry, eng.cellSize, eng.speed)
	}

	// Without a logger the engine and its runtime log to a discarding JSON handler.
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.store = graph.New()
	eng.codec = codec.New(eng.cellSize)

	hooks := eng.hooks.Merge(domain.LifecycleHooks{OnFire: eng.record})
	runtimeOpts := []runtime.EngineOption{
		runtime.WithLifecycleHooks(hooks),
		runtime.WithLogger(eng.logger),
	}
	if eng.audio != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithAudio(eng.audio))
	}
	if eng.rng != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithRand(eng.rng))
	}
	eng.runtime = runtime.NewEngine(eng.store, eng.speed, runtimeOpts...)

	return eng, nil
}

// Open initializes an engine and loads the circuit encoded in token.
func Open(token string, opts ...Option) (*Engine, error) {
	eng, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := eng.Load(token); err != nil {
		return nil, err
	}
	return eng, nil
}

// CellSize returns the grid spacing.
func (e *Engine) CellSize() float64 { return e.cellSize }

// Speed returns the per-tick signal distance.
func (e *Engine) Speed() float64 { return e.speed }

// Ticks returns how many ticks have run.
func (e *Engine) Ticks() uint64 { return e.runtime.Ticks() }

// Nodes returns the circuit's nodes in order. The slice must not be modified.
func (e *Engine) Nodes() []*domain.Node { return e.store.Nodes() }

// Edges returns the circuit's edges in order. The slice must not be modified.
func (e *Engine) Edges() []*domain.Edge { return e.store.Edges() }

// Store exposes the underlying graph store for read-only inspection.
func (e *Engine) Store() *graph.Store { return e.store }

// AddNode appends a node at position, stored as given.
func (e *Engine) AddNode(position domain.Point, pitch domain.Pitch, mode domain.DispatchMode) *domain.Node {
	return e.store.AddNode(position, pitch, mode)
}

// AddEdge connects start to end.
func (e *Engine) AddEdge(start, end *domain.Node) (*domain.Edge, error) {
	return e.store.AddEdge(start, end)
}

// RemoveNode deletes n and every edge touching it.
func (e *Engine) RemoveNode(n *domain.Node) bool {
	return e.store.RemoveNode(n)
}

// RemoveEdge deletes a single edge.
func (e *Engine) RemoveEdge(edge *domain.Edge) bool {
	return e.store.RemoveEdge(edge)
}

// NodeAt returns the node under p, if any.
func (e *Engine) NodeAt(p domain.Point) (*domain.Node, bool) {
	return e.store.NodeAt(p, domain.HitRadius)
}

// MoveNode moves n to p snapped to the grid. Signals in flight on edges
// touching n keep their progress and see the new length on the next tick.
func (e *Engine) MoveNode(n *domain.Node, p domain.Point) error {
	return e.store.MoveNode(n, p, e.cellSize)
}

// ClearAllSignals drops every in-flight signal.
func (e *Engine) ClearAllSignals() {
	e.runtime.Reset()
}

// Tick advances the simulation by one frame.
func (e *Engine) Tick() runtime.TickReport {
	return e.runtime.Tick()
}

// Fire fires n immediately.
func (e *Engine) Fire(n *domain.Node) (int, error) {
	return e.runtime.Fire(n)
}

// FireAt fires the node under p, if any.
func (e *Engine) FireAt(p domain.Point) (bool, error) {
	n, ok := e.NodeAt(p)
	if !ok {
		return false, nil
	}
	_, err := e.runtime.Fire(n)
	return err == nil, err
}

// Preview plays n's pitch without dispatching.
func (e *Engine) Preview(n *domain.Node) {
	e.runtime.Preview(n)
}

// AdjustPitch moves n's pitch delta steps along the scale and previews it.
func (e *Engine) AdjustPitch(n *domain.Node, delta int) domain.Pitch {
	n.Pitch = n.Pitch.Step(delta)
	e.runtime.Preview(n)
	return n.Pitch
}

// CycleMode switches n to the next dispatch mode.
func (e *Engine) CycleMode(n *domain.Node) domain.DispatchMode {
	n.SetMode(n.Mode().Next())
	return n.Mode()
}

// Frame returns a snapshot for renderers.
func (e *Engine) Frame() domain.Frame {
	return e.runtime.Frame()
}

// Render hands the current frame to r.
func (e *Engine) Render(r ports.Renderer) error {
	return r.Render(e.Frame())
}

// Encode serializes the circuit into a URL-safe token.
func (e *Engine) Encode() string {
	return e.codec.Encode(e.store)
}

// Marshal serializes the circuit into its multi-line text form.
func (e *Engine) Marshal() string {
	return e.codec.Marshal(e.store)
}

// Load replaces the circuit with the one encoded in token. On error the
// current circuit is left untouched.
func (e *Engine) Load(token string) error {
	next, err := e.codec.Decode(token)
	if err != nil {
		return err
	}
	e.store.Replace(next)
	e.logger.Debug("circuit loaded", "nodes", e.store.Len(), "edges", e.store.EdgeCount())
	return nil
}

// Codec returns the codec bound to this engine's cell size.
func (e *Engine) Codec() *codec.Codec {
	return e.codec
}

func (e *Engine) record(ev *domain.FireEvent) {
	if e.tracing {
		e.trace = append(e.trace, *ev)
	}
}
