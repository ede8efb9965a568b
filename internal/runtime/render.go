package runtime

import "github.com/alexdmiller/sonic-circuit/pkg/domain"

// Frame captures the renderable state of the circuit. Node ids are refreshed
// so edge views can reference them.
func (e *Engine) Frame() domain.Frame {
	e.store.Reindex()

	nodes := e.store.Nodes()
	edges := e.store.Edges()
	frame := domain.Frame{
		Tick:  e.tick,
		Nodes: make([]domain.NodeView, len(nodes)),
		Edges: make([]domain.EdgeView, len(edges)),
	}
	for i, n := range nodes {
		frame.Nodes[i] = domain.NodeView{
			ID:         n.ID,
			Position:   n.Position,
			Pitch:      n.Pitch,
			Mode:       n.Mode(),
			Excitement: n.Excitement,
		}
	}
	for i, edge := range edges {
		view := domain.EdgeView{
			From:  edge.Start.ID,
			To:    edge.End.ID,
			Start: edge.Start.Position,
			End:   edge.End.Position,
		}
		if len(edge.Signals) > 0 {
			view.Progress = append([]float64(nil), edge.Signals...)
			view.Signals = make([]domain.Point, len(edge.Signals))
			for j, p := range edge.Signals {
				view.Signals[j] = edge.SignalPosition(p)
			}
		}
		frame.Edges[i] = view
	}
	return frame
}
