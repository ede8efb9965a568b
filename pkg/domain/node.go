package domain

// ExcitementDecay is the per-frame multiplier applied to a node's excitement.
const ExcitementDecay = 0.9

// Node is a point in the circuit that plays its pitch and dispatches signals
// when fired.
type Node struct {
	// ID is the node's index in the store as of the last re-index.
	// It is only stable within a single encode pass.
	ID       int
	Position Point
	Pitch    Pitch
	// Excitement is a visual intensity in [0,1], set to 1 on fire and decayed every frame.
	Excitement float64

	mode     DispatchMode
	outgoing []*Edge
	// cursor is the next round-robin target; ignored by other modes.
	cursor int
}

// NewNode creates a detached node. Use a graph store to attach it to a circuit.
func NewNode(position Point, pitch Pitch, mode DispatchMode) *Node {
	return &Node{
		Position: position,
		Pitch:    pitch,
		mode:     mode,
	}
}

// Mode returns the node's dispatch mode.
func (n *Node) Mode() DispatchMode {
	return n.mode
}

// SetMode changes the dispatch mode and rewinds the round-robin cursor.
func (n *Node) SetMode(m DispatchMode) {
	n.mode = m
	n.cursor = 0
}

// Outgoing returns the edges starting at n, in insertion order.
// The slice must not be modified.
func (n *Node) Outgoing() []*Edge {
	return n.outgoing
}

// Cursor returns the index of the next round-robin target.
func (n *Node) Cursor() int {
	return n.cursor
}

// SetCursor stores the next round-robin target, wrapped into range.
func (n *Node) SetCursor(c int) {
	if len(n.outgoing) == 0 {
		n.cursor = 0
		return
	}
	n.cursor = c % len(n.outgoing)
	if n.cursor < 0 {
		n.cursor += len(n.outgoing)
	}
}

// Excite marks the node as just fired.
func (n *Node) Excite() {
	n.Excitement = 1
}

// Decay applies one frame of exponential excitement decay.
func (n *Node) Decay() {
	n.Excitement *= ExcitementDecay
}

// AttachOutgoing appends e to the node's outgoing list. The caller keeps the
// global edge collection consistent.
func (n *Node) AttachOutgoing(e *Edge) {
	n.outgoing = append(n.outgoing, e)
}

// DetachOutgoing removes every outgoing edge for which drop returns true,
// keeping the round-robin cursor pointing at the same surviving edge when
// possible.
func (n *Node) DetachOutgoing(drop func(*Edge) bool) int {
	kept := n.outgoing[:0]
	removed := 0
	cursor := n.cursor
	for i, e := range n.outgoing {
		if drop(e) {
			removed++
			if i < n.cursor {
				cursor--
			}
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(n.outgoing); i++ {
		n.outgoing[i] = nil
	}
	n.outgoing = kept
	n.SetCursor(cursor)
	return removed
}

// Edge is a directed connection carrying in-flight signals from Start to End.
type Edge struct {
	Start *Node
	End   *Node
	// Signals holds the distance each in-flight signal has travelled since emission.
	Signals []float64
}

// Length is recomputed from the endpoints' current positions on every call,
// so moving a node changes the travel time of signals already in flight.
func (e *Edge) Length() float64 {
	return e.Start.Position.Dist(e.End.Position)
}

// Emit enqueues a new signal at progress 0.
func (e *Edge) Emit() {
	e.Signals = append(e.Signals, 0)
}

// SignalPosition returns where a signal with the given progress is drawn.
func (e *Edge) SignalPosition(progress float64) Point {
	return e.Start.Position.Lerp(e.End.Position, progress)
}

// Touches reports whether n is either endpoint of e.
func (e *Edge) Touches(n *Node) bool {
	return e.Start == n || e.End == n
}
