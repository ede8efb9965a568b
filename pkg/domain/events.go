package domain

// FireEvent is emitted every time a node fires.
type FireEvent struct {
	Tick    uint64       `json:"tick"`
	NodeID  int          `json:"node_id"`
	Pitch   Pitch        `json:"pitch"`
	Mode    DispatchMode `json:"mode"`
	Emitted int          `json:"emitted"`
	// Manual is true when the fire came from the host rather than a signal arrival.
	Manual bool `json:"manual,omitempty"`
}

// SignalEvent describes a signal leaving or reaching a node.
type SignalEvent struct {
	Tick   uint64  `json:"tick"`
	FromID int     `json:"from_id"`
	ToID   int     `json:"to_id"`
	Length float64 `json:"length"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnFire   func(*FireEvent)
	OnEmit   func(*SignalEvent)
	OnArrive func(*SignalEvent)
	OnTick   func(tick uint64, inFlight int)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnFire:   chain(h.OnFire, other.OnFire),
		OnEmit:   chain(h.OnEmit, other.OnEmit),
		OnArrive: chain(h.OnArrive, other.OnArrive),
		OnTick: func(tick uint64, inFlight int) {
			if h.OnTick != nil {
				h.OnTick(tick, inFlight)
			}
			if other.OnTick != nil {
				other.OnTick(tick, inFlight)
			}
		},
	}
}

func chain[T any](a, b func(T)) func(T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(v T) {
		a(v)
		b(v)
	}
}
