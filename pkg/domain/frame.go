package domain

// Frame is a read-only snapshot of the circuit handed to renderers.
type Frame struct {
	Tick  uint64     `json:"tick"`
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// NodeView is the renderable state of a node.
type NodeView struct {
	ID         int          `json:"id"`
	Position   Point        `json:"position"`
	Pitch      Pitch        `json:"pitch"`
	Mode       DispatchMode `json:"mode"`
	Excitement float64      `json:"excitement"`
}

// EdgeView is the renderable state of an edge and its in-flight signals.
type EdgeView struct {
	From     int       `json:"from"`
	To       int       `json:"to"`
	Start    Point     `json:"start"`
	End      Point     `json:"end"`
	Progress []float64 `json:"progress,omitempty"`
	Signals  []Point   `json:"signals,omitempty"`
}
