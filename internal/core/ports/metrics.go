package ports

import "time"

// Metrics records build counters.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// ActionStarted marks an action as holding a job slot.
	ActionStarted(contextName string)
	// ActionFinished releases the slot and records the outcome.
	ActionFinished(contextName string, elapsed time.Duration, err error)
	// ActionCached records an action skipped by the cache.
	ActionCached(contextName string)
	// WriteSnapshot writes the current values to path.
	WriteSnapshot(path string) error
}
