package dsl

import (
	"errors"
	"fmt"

	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/graph"
)

// Builder manages the circuit construction.
type Builder struct {
	cellSize float64
	order    []string
	nodes    map[string]*NodeBuilder
}

// New creates a new circuit builder on the default grid.
func New() *Builder {
	return &Builder{
		cellSize: domain.DefaultCellSize,
		nodes:    make(map[string]*NodeBuilder),
	}
}

// CellSize changes the grid spacing used to turn cells into positions.
func (b *Builder) CellSize(size float64) *Builder {
	b.cellSize = size
	return b
}

// Add creates a new node in the circuit.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(name string) *NodeBuilder {
	if nb, ok := b.nodes[name]; ok {
		return nb
	}
	nb := &NodeBuilder{
		name:    name,
		pitch:   domain.DefaultPitch,
		mode:    domain.Multicast,
		builder: b,
	}
	b.nodes[name] = nb
	b.order = append(b.order, name)
	return nb
}

// Build compiles the circuit into a graph store. Nodes keep the order in
// which they were added; edges follow each node's Go calls in order.
func (b *Builder) Build() (*graph.Store, error) {
	if b.cellSize <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %v", b.cellSize)
	}

	s := graph.New()
	built := make(map[string]*domain.Node, len(b.order))
	var errs []error
	for _, name := range b.order {
		nb := b.nodes[name]
		pitch, err := domain.ParsePitch(string(nb.pitch))
		if err != nil {
			errs = append(errs, fmt.Errorf("node %q: %w", name, err))
			pitch = domain.DefaultPitch
		}
		pos := domain.Pt(float64(nb.cellX)*b.cellSize, float64(nb.cellY)*b.cellSize)
		built[name] = s.AddNode(pos, pitch, nb.mode)
	}

	for _, name := range b.order {
		for _, target := range b.nodes[name].targets {
			end, ok := built[target]
			if !ok {
				errs = append(errs, fmt.Errorf("node %q: target %q: %w", name, target, domain.ErrNodeNotFound))
				continue
			}
			if _, err := s.AddEdge(built[name], end); err != nil {
				errs = append(errs, fmt.Errorf("node %q: %w", name, err))
			}
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to build circuit: %w", errors.Join(errs...))
	}
	return s, nil
}

// Token builds the circuit and encodes it as a share token.
func (b *Builder) Token() (string, error) {
	s, err := b.Build()
	if err != nil {
		return "", err
	}
	return codec.New(b.cellSize).Encode(s), nil
}
