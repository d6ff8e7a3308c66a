package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/formflow/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	RouteVisits        *prometheus.CounterVec
	ValidationOutcomes *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
	ValidationsRunning prometheus.Gauge
	ActiveSessions     prometheus.Gauge
	DroppedEvents      prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RouteVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formflow_route_visits_total",
				Help: "Total number of route entries",
			},
			[]string{"route", "direction"},
		),
		ValidationOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formflow_validations_total",
				Help: "Total number of finished validations by outcome",
			},
			[]string{"form", "outcome"},
		),
		ValidationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "formflow_validation_duration_seconds",
				Help:    "Duration of form validations",
				Buckets: []float64{.05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"form"},
		),
		ValidationsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "formflow_validations_running",
			Help: "Number of validations currently in flight",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "formflow_active_sessions",
			Help: "Number of live sessions",
		}),
		DroppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "formflow_dropped_events_total",
			Help: "Route events not delivered to a full subscriber",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.RouteVisits, m.ValidationOutcomes, m.ValidationDuration, m.ValidationsRunning, m.ActiveSessions, m.DroppedEvents)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRouteEnter: func(_ context.Context, e *domain.RouteEvent) {
			m.RouteVisits.WithLabelValues(e.Route.String(), string(e.Direction)).Inc()
		},
		OnValidationStart: func(_ context.Context, _ *domain.ValidationEvent) {
			m.ValidationsRunning.Inc()
		},
		OnValidationEnd: func(_ context.Context, e *domain.ValidationEvent) {
			m.ValidationsRunning.Dec()
			outcome := string(e.Outcome)
			if e.Err != nil {
				outcome = "aborted"
			}
			m.ValidationOutcomes.WithLabelValues(e.Form.String(), outcome).Inc()
			m.ValidationDuration.WithLabelValues(e.Form.String()).Observe(e.Duration.Seconds())
		},
		OnEventDropped: func(_ context.Context, _ *domain.RouteEvent) {
			m.DroppedEvents.Inc()
		},
	}
}
