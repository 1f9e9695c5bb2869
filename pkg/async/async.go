package async

import (
	"context"
	"time"

	"github.com/dmitrymomot/statekit/pkg/dispatch"
	"github.com/dmitrymomot/statekit/pkg/state"
)

// Future represents the eventual result of a deferred transition.
type Future struct {
	result *state.Snapshot
	err    error
	done   chan struct{}
}

// Await blocks until the deferred transition completes and returns the new
// snapshot. The snapshot is fully formed before Await returns, so applying it
// is always a single value replacement, never a partial mutation.
func (f *Future) Await() (*state.Snapshot, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for completion up to the timeout. On timeout the
// transition keeps running; only the wait is abandoned.
func (f *Future) AwaitWithTimeout(timeout time.Duration) (*state.Snapshot, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
}

// IsComplete reports whether the transition has finished, without blocking.
func (f *Future) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Run schedules a deferred transition on its own goroutine and returns a
// Future for its result. The dispatcher hands deferred work back uninvoked;
// Run is the scheduling half the core leaves to the caller.
//
// A pre-canceled context fails fast without invoking the closure. There is no
// cancellation of in-flight work: the closure either completes and yields a
// full snapshot or fails, so no state is ever partially applied.
func Run(ctx context.Context, d dispatch.Deferred) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		select {
		case <-ctx.Done():
			f.err = ctx.Err()
			return
		default:
		}

		f.result, f.err = d.Run(ctx)
	}()

	return f
}

// WaitAll waits for every future and returns the resulting snapshots in
// order. The first error encountered is returned alongside the results
// collected so far.
func WaitAll(futures ...*Future) ([]*state.Snapshot, error) {
	results := make([]*state.Snapshot, len(futures))
	for i, f := range futures {
		result, err := f.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}
	return results, nil
}
