// Package task provides composable build computations and the scheduler that
// runs them under a job limit.
package task

import (
	"context"
	"sync"

	"go.trai.ch/zerr"
)

// Task is a deferred computation yielding a T or failing. Tasks only run
// when handed to Run or composed into a task that is.
type Task[T any] func(ctx context.Context, s *Scheduler) (T, error)

// Pair holds the results of Both.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Return yields v.
func Return[T any](v T) Task[T] {
	return func(context.Context, *Scheduler) (T, error) {
		return v, nil
	}
}

// Fail fails with err.
func Fail[T any](err error) Task[T] {
	return func(context.Context, *Scheduler) (T, error) {
		var zero T
		return zero, err
	}
}

// Bind feeds the result of t into f. f is never called when t fails.
func Bind[A, B any](t Task[A], f func(A) Task[B]) Task[B] {
	return func(ctx context.Context, s *Scheduler) (B, error) {
		a, err := t(ctx, s)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a)(ctx, s)
	}
}

// Map transforms the result of t.
func Map[A, B any](t Task[A], f func(A) B) Task[B] {
	return func(ctx context.Context, s *Scheduler) (B, error) {
		a, err := t(ctx, s)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a), nil
	}
}

// Ignore discards the result of t.
func Ignore[T any](t Task[T]) Task[struct{}] {
	return Map(t, func(T) struct{} { return struct{}{} })
}

// All runs every task concurrently and yields their results in request
// order. It returns only once every task has finished. On failure it yields
// the first failure in completion order, preferring real failures over
// refusals caused by them.
func All[T any](tasks []Task[T]) Task[[]T] {
	return func(ctx context.Context, s *Scheduler) ([]T, error) {
		results := make([]T, len(tasks))
		switch len(tasks) {
		case 0:
			return results, nil
		case 1:
			v, err := tasks[0](ctx, s)
			if err != nil {
				s.record(err)
				return nil, err
			}
			results[0] = v
			return results, nil
		}

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			first error
		)
		for i, t := range tasks {
			wg.Go(func() {
				v, err := guard(ctx, s, t)
				if err != nil {
					s.record(err)
					mu.Lock()
					if first == nil || (isRefusal(first) && !isRefusal(err)) {
						first = err
					}
					mu.Unlock()
					return
				}
				results[i] = v
			})
		}
		wg.Wait()

		if first != nil {
			return nil, first
		}
		return results, nil
	}
}

// Both runs a and b concurrently.
func Both[A, B any](a Task[A], b Task[B]) Task[Pair[A, B]] {
	boxed := []Task[any]{
		Map(a, func(v A) any { return v }),
		Map(b, func(v B) any { return v }),
	}
	return Map(All(boxed), func(vs []any) Pair[A, B] {
		first, _ := vs[0].(A)
		second, _ := vs[1].(B)
		return Pair[A, B]{First: first, Second: second}
	})
}

// Run drives root to completion and returns exactly one outcome. When the
// root fails only because work was refused after an earlier failure, that
// earlier failure is returned instead.
func Run[T any](ctx context.Context, s *Scheduler, root Task[T]) (T, error) {
	v, err := guard(ctx, s, root)
	if err != nil {
		var zero T
		return zero, s.settle(err)
	}
	return v, nil
}

// guard runs t, converting a panic into an error carrying its stack.
func guard[T any](ctx context.Context, s *Scheduler, t Task[T]) (v T, err error) {
	defer zerr.Defer(func(perr error) {
		var zero T
		v, err = zero, perr
	})
	return t(ctx, s)
}
