// Package graph owns the nodes and edges of a circuit and keeps them
// referentially consistent: every edge's endpoints belong to the store.
package graph

import (
	"fmt"
	"slices"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// Store holds a circuit's nodes and edges in insertion order.
// It is not safe for concurrent use; the signal engine owns it.
type Store struct {
	nodes []*domain.Node
	edges []*domain.Edge
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// AddNode appends a node. The position is stored as given; snapping is the
// caller's concern.
func (s *Store) AddNode(position domain.Point, pitch domain.Pitch, mode domain.DispatchMode) *domain.Node {
	n := domain.NewNode(position, pitch, mode)
	n.ID = len(s.nodes)
	s.nodes = append(s.nodes, n)
	return n
}

// AddEdge connects start to end. Self-loops and parallel edges are allowed.
func (s *Store) AddEdge(start, end *domain.Node) (*domain.Edge, error) {
	if !s.Contains(start) {
		return nil, fmt.Errorf("add edge: start: %w", domain.ErrNodeNotFound)
	}
	if !s.Contains(end) {
		return nil, fmt.Errorf("add edge: end: %w", domain.ErrNodeNotFound)
	}
	e := &domain.Edge{Start: start, End: end}
	start.AttachOutgoing(e)
	s.edges = append(s.edges, e)
	return e, nil
}

// RemoveNode deletes n and every edge that starts or ends at it.
// It reports whether n was in the store.
func (s *Store) RemoveNode(n *domain.Node) bool {
	i := slices.Index(s.nodes, n)
	if i < 0 {
		return false
	}
	s.edges = slices.DeleteFunc(s.edges, func(e *domain.Edge) bool {
		return e.Touches(n)
	})
	for _, other := range s.nodes {
		other.DetachOutgoing(func(e *domain.Edge) bool {
			return e.End == n || e.Start == n
		})
	}
	s.nodes = slices.Delete(s.nodes, i, i+1)
	return true
}

// RemoveEdge deletes a single edge. It reports whether e was in the store.
func (s *Store) RemoveEdge(e *domain.Edge) bool {
	i := slices.Index(s.edges, e)
	if i < 0 {
		return false
	}
	s.edges = slices.Delete(s.edges, i, i+1)
	e.Start.DetachOutgoing(func(o *domain.Edge) bool { return o == e })
	return true
}

// ClearAllSignals drops every in-flight signal.
func (s *Store) ClearAllSignals() {
	for _, e := range s.edges {
		e.Signals = e.Signals[:0]
	}
}

// Replace swaps in the contents of other, which must not be used afterwards.
func (s *Store) Replace(other *Store) {
	s.nodes = other.nodes
	s.edges = other.edges
	other.nodes, other.edges = nil, nil
}

// Nodes returns the nodes in insertion order. The slice must not be modified.
func (s *Store) Nodes() []*domain.Node {
	return s.nodes
}

// Edges returns the edges in insertion order. The slice must not be modified.
func (s *Store) Edges() []*domain.Edge {
	return s.edges
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	return len(s.edges)
}

// SignalCount returns the number of signals in flight across all edges.
func (s *Store) SignalCount() int {
	total := 0
	for _, e := range s.edges {
		total += len(e.Signals)
	}
	return total
}

// Contains reports whether n belongs to the store.
func (s *Store) Contains(n *domain.Node) bool {
	return n != nil && slices.Contains(s.nodes, n)
}

// Node returns the node at index id.
func (s *Store) Node(id int) (*domain.Node, error) {
	if id < 0 || id >= len(s.nodes) {
		return nil, fmt.Errorf("node %d: %w", id, domain.ErrNodeNotFound)
	}
	return s.nodes[id], nil
}

// Reindex sets every node's ID to its current position in the store.
func (s *Store) Reindex() {
	for i, n := range s.nodes {
		n.ID = i
	}
}

// NodeAt returns the first node whose centre lies strictly within radius of p.
func (s *Store) NodeAt(p domain.Point, radius float64) (*domain.Node, bool) {
	for _, n := range s.nodes {
		if n.Position.Dist(p) < radius {
			return n, true
		}
	}
	return nil, false
}

// MoveNode places n at p snapped to the grid.
func (s *Store) MoveNode(n *domain.Node, p domain.Point, cellSize float64) error {
	if !s.Contains(n) {
		return fmt.Errorf("move node: %w", domain.ErrNodeNotFound)
	}
	n.Position = p.Snap(cellSize)
	return nil
}
