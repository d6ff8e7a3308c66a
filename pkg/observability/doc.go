/*
Package observability provides lifecycle hooks for monitoring the formflow engine.

Metrics records route visits, validation outcomes and validation latency as
Prometheus collectors. LogHooks writes the same events as structured slog
records. Both return domain.LifecycleHooks, so they can be combined with
domain.MergeHooks and passed to formflow.WithLifecycleHooks.
*/
package observability
