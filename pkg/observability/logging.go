package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/formflow/pkg/domain"
)

// LogHooks returns lifecycle hooks writing every event to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRouteEnter: func(ctx context.Context, e *domain.RouteEvent) {
			logger.InfoContext(ctx, "route_enter",
				"session_id", e.SessionID,
				"route", e.Route.String(),
				"direction", string(e.Direction),
				"depth", e.Depth,
			)
		},
		OnRouteLeave: func(ctx context.Context, e *domain.RouteEvent) {
			logger.DebugContext(ctx, "route_leave", "session_id", e.SessionID, "route", e.Route.String())
		},
		OnValidationStart: func(ctx context.Context, e *domain.ValidationEvent) {
			logger.DebugContext(ctx, "validation_start", "session_id", e.SessionID, "form", e.Form.String())
		},
		OnValidationEnd: func(ctx context.Context, e *domain.ValidationEvent) {
			if e.Err != nil {
				logger.InfoContext(ctx, "validation_aborted",
					"session_id", e.SessionID,
					"form", e.Form.String(),
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "validation_end",
				"session_id", e.SessionID,
				"form", e.Form.String(),
				"outcome", string(e.Outcome),
				"duration", e.Duration,
			)
		},
	}
}
