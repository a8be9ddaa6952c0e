package process

import (
	"context"

	"github.com/lightningnetwork/lnd/fn/v2"

	"github.com/bitfsorg/libgreen-go/bridge"
)

// Future is the handle of a job started with Go. It resolves exactly once.
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	res    fn.Result[T]
}

// Go runs job on its own goroutine under a context derived from ctx and
// returns a handle to its result.
func Go[T any](ctx context.Context, job func(context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}
	go func() {
		defer close(f.done)
		defer cancel()

		v, err := job(ctx)
		if err != nil {
			f.res = fn.Err[T](err)
			return
		}
		f.res = fn.Ok(v)
	}()
	return f
}

// Done is closed once the job has finished.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Cancel asks the job to stop. It does not wait; use Await for that.
func (f *Future[T]) Cancel() { f.cancel() }

// Await blocks until the job finishes or ctx is done. In the latter case the
// job is cancelled and Await still waits for it to return, so no child
// process outlives the call. A job that finished with an error after the
// cancellation reports ctx's error instead: Timeout for a deadline,
// Unexpected for a cancellation.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.res.Unpack()
	case <-ctx.Done():
	}

	f.cancel()
	<-f.done
	v, err := f.res.Unpack()
	if err == nil {
		return v, nil
	}

	var zero T
	return zero, bridge.FromContext("await", ctx.Err())
}

// Result returns the job's result, blocking until it is available.
func (f *Future[T]) Result() fn.Result[T] {
	<-f.done
	return f.res
}
