package observability

import (
	"log/slog"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// LogHooks logs every fire at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnFire: func(e *domain.FireEvent) {
			logger.Debug("node_fire",
				"tick", e.Tick,
				"node_id", e.NodeID,
				"pitch", e.Pitch,
				"mode", e.Mode.String(),
				"emitted", e.Emitted,
				"manual", e.Manual,
			)
		},
	}
}
