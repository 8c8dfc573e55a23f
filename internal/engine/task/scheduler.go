package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/semaphore"
)

// Scheduler bounds the number of build actions running at once and records
// the first failure of a run. After a failure it refuses to start new
// actions; actions already running are left to finish.
type Scheduler struct {
	jobs    int
	slots   *semaphore.Weighted
	tracer  ports.Tracer
	metrics ports.Metrics

	mu      sync.Mutex
	first   error
	running int
	peak    int
	started int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithTracer opens a span around every action.
func WithTracer(t ports.Tracer) Option {
	return func(s *Scheduler) { s.tracer = t }
}

// WithMetrics reports action counters.
func WithMetrics(m ports.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// NewScheduler creates a Scheduler allowing jobs concurrent actions.
func NewScheduler(jobs int, opts ...Option) *Scheduler {
	if jobs < 1 {
		jobs = 1
	}
	s := &Scheduler{
		jobs:  jobs,
		slots: semaphore.NewWeighted(int64(jobs)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Jobs returns the action limit.
func (s *Scheduler) Jobs() int {
	return s.jobs
}

// Peak returns the highest number of actions that ran at once.
func (s *Scheduler) Peak() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.peak
}

// Started returns how many actions were admitted.
func (s *Scheduler) Started() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Failure returns the first failure recorded, if any.
func (s *Scheduler) Failure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.first
}

func (s *Scheduler) record(err error) {
	if err == nil || isRefusal(err) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.first == nil {
		s.first = err
	}
}

func (s *Scheduler) settle(err error) error {
	s.record(err)
	if isRefusal(err) {
		if first := s.Failure(); first != nil {
			return first
		}
	}
	return err
}

func isRefusal(err error) bool {
	return errors.Is(err, domain.ErrBuildAborted)
}

// ActionInfo describes an action for tracing and metrics.
type ActionInfo struct {
	Name    string
	Context string
}

// Action runs fn while holding one job slot. It is refused with
// domain.ErrBuildAborted once the scheduler has recorded a failure.
func Action[T any](info ActionInfo, fn func(ctx context.Context) (T, error)) Task[T] {
	return func(ctx context.Context, s *Scheduler) (T, error) {
		var zero T
		if err := s.admit(ctx, info); err != nil {
			return zero, err
		}
		defer s.release()

		var span ports.Span
		if s.tracer != nil {
			ctx, span = s.tracer.Start(ctx, info.Name, ports.WithAttribute("kiln.context", info.Context))
			defer span.End()
		}

		if s.metrics != nil {
			s.metrics.ActionStarted(info.Context)
		}
		start := time.Now()

		v, err := guard(ctx, s, func(ctx context.Context, _ *Scheduler) (T, error) { return fn(ctx) })

		if s.metrics != nil {
			s.metrics.ActionFinished(info.Context, time.Since(start), err)
		}
		if err != nil {
			if span != nil {
				span.RecordError(err)
			}
			s.record(err)
			return zero, err
		}
		return v, nil
	}
}

func (s *Scheduler) admit(ctx context.Context, info ActionInfo) error {
	if err := s.refusal(ctx, info); err != nil {
		return err
	}
	if err := s.slots.Acquire(ctx, 1); err != nil {
		return err
	}
	if err := s.refusal(ctx, info); err != nil {
		s.slots.Release(1)
		return err
	}

	s.mu.Lock()
	s.running++
	s.started++
	if s.running > s.peak {
		s.peak = s.running
	}
	s.mu.Unlock()
	return nil
}

func (s *Scheduler) refusal(ctx context.Context, info ActionInfo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Failure() != nil {
		return zerr.With(zerr.Wrap(domain.ErrBuildAborted, ""), "action", info.Name)
	}
	return nil
}

func (s *Scheduler) release() {
	s.mu.Lock()
	s.running--
	s.mu.Unlock()
	s.slots.Release(1)
}
