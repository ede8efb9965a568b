package runtime

import "github.com/alexdmiller/sonic-circuit/pkg/domain"

func (e *Engine) emitFire(n *domain.Node, emitted int, manual bool) {
	if e.hooks.OnFire == nil {
		return
	}
	e.hooks.OnFire(&domain.FireEvent{
		Tick:    e.tick,
		NodeID:  n.ID,
		Pitch:   n.Pitch,
		Mode:    n.Mode(),
		Emitted: emitted,
		Manual:  manual,
	})
}

func (e *Engine) emitEmit(edge *domain.Edge) {
	if e.hooks.OnEmit == nil {
		return
	}
	e.hooks.OnEmit(signalEvent(e.tick, edge))
}

func (e *Engine) emitArrive(edge *domain.Edge) {
	if e.hooks.OnArrive == nil {
		return
	}
	e.hooks.OnArrive(signalEvent(e.tick, edge))
}

func (e *Engine) emitTick() {
	if e.hooks.OnTick == nil {
		return
	}
	e.hooks.OnTick(e.tick, e.store.SignalCount())
}

func signalEvent(tick uint64, edge *domain.Edge) *domain.SignalEvent {
	return &domain.SignalEvent{
		Tick:   tick,
		FromID: edge.Start.ID,
		ToID:   edge.End.ID,
		Length: edge.Length(),
	}
}
