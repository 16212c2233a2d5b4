package queue

import (
	"context"
	"fmt"
)

// Future holds the eventual result of a dispatched job.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Wait blocks until the job completes or ctx is done.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Dispatch submits fn to the pool and returns a Future for its result.
// A panic inside fn is captured as an error; submission failure (stopped pool
// or expired context) completes the future immediately with that error.
func Dispatch[T any](p *Pool, ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	job := func() {
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("job panic: %v", r)
			}
			close(f.done)
		}()
		f.val, f.err = fn(ctx)
	}
	if err := p.Submit(ctx, job); err != nil {
		f.err = err
		close(f.done)
	}
	return f
}
