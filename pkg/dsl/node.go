package dsl

import "github.com/alexdmiller/sonic-circuit/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	name    string
	cellX   int
	cellY   int
	pitch   domain.Pitch
	mode    domain.DispatchMode
	targets []string
	builder *Builder
}

// At places the node on grid cell (x, y).
func (n *NodeBuilder) At(x, y int) *NodeBuilder {
	n.cellX, n.cellY = x, y
	return n
}

// Pitch sets the note the node plays, e.g. "C4". Unknown names fail at Build.
func (n *NodeBuilder) Pitch(p domain.Pitch) *NodeBuilder {
	n.pitch = p
	return n
}

// Mode sets how the node dispatches signals.
func (n *NodeBuilder) Mode(m domain.DispatchMode) *NodeBuilder {
	n.mode = m
	return n
}

// Multicast is shorthand for Mode(domain.Multicast).
func (n *NodeBuilder) Multicast() *NodeBuilder { return n.Mode(domain.Multicast) }

// RoundRobin is shorthand for Mode(domain.RoundRobin).
func (n *NodeBuilder) RoundRobin() *NodeBuilder { return n.Mode(domain.RoundRobin) }

// Random is shorthand for Mode(domain.Random).
func (n *NodeBuilder) Random() *NodeBuilder { return n.Mode(domain.Random) }

// Go adds edges to the named targets. Targets may be added later.
func (n *NodeBuilder) Go(targets ...string) *NodeBuilder {
	n.targets = append(n.targets, targets...)
	return n
}

// Terminal removes every outgoing edge added so far.
func (n *NodeBuilder) Terminal() *NodeBuilder {
	n.targets = nil
	return n
}

// Add continues the chain with another node.
func (n *NodeBuilder) Add(name string) *NodeBuilder {
	return n.builder.Add(name)
}
