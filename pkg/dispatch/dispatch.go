// Package dispatch decides which outgoing edges receive a signal when a node fires.
//
// Selection is a pure function of the node's mode, its outgoing edge count, its
// round-robin cursor and at most one random draw. Apply performs the resulting
// side effects.
package dispatch

import "github.com/alexdmiller/sonic-circuit/pkg/domain"

// Rand is the random source used by the Random mode.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Plan is the outcome of a selection.
type Plan struct {
	// Targets are indices into the node's outgoing edges, in dispatch order.
	Targets []int
	// Cursor is the round-robin cursor to store after dispatch.
	Cursor int
}

// Empty reports whether the plan sends no signal.
func (p Plan) Empty() bool {
	return len(p.Targets) == 0
}

// Select computes the plan for n. It does not modify n.
func Select(n *domain.Node, rng Rand) Plan {
	count := len(n.Outgoing())
	switch n.Mode() {
	case domain.RoundRobin:
		return roundRobin(count, n.Cursor())
	case domain.Random:
		return random(count, n.Cursor(), rng)
	default:
		return multicast(count, n.Cursor())
	}
}

func multicast(count, cursor int) Plan {
	targets := make([]int, count)
	for i := range targets {
		targets[i] = i
	}
	return Plan{Targets: targets, Cursor: cursor}
}

func roundRobin(count, cursor int) Plan {
	if count == 0 {
		return Plan{}
	}
	cursor %= count
	return Plan{Targets: []int{cursor}, Cursor: (cursor + 1) % count}
}

func random(count, cursor int, rng Rand) Plan {
	if count == 0 || rng == nil {
		return Plan{Cursor: cursor}
	}
	return Plan{Targets: []int{rng.IntN(count)}, Cursor: cursor}
}

// Apply enqueues a zero-progress signal on every planned edge and stores the
// cursor. It returns the edges that received a signal.
func Apply(n *domain.Node, p Plan) []*domain.Edge {
	out := n.Outgoing()
	emitted := make([]*domain.Edge, 0, len(p.Targets))
	for _, i := range p.Targets {
		if i < 0 || i >= len(out) {
			continue
		}
		out[i].Emit()
		emitted = append(emitted, out[i])
	}
	n.SetCursor(p.Cursor)
	return emitted
}

// Dispatch selects and applies in one step.
func Dispatch(n *domain.Node, rng Rand) []*domain.Edge {
	return Apply(n, Select(n, rng))
}
