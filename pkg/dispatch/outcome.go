package dispatch

import (
	"context"

	"github.com/dmitrymomot/statekit/pkg/state"
)

// Outcome is the result of a successful dispatch: exactly one of Sync,
// Deferred, or Reply.
type Outcome interface {
	outcome()
}

// Sync means the handler ran to completion and returned a new snapshot.
type Sync struct {
	State *state.Snapshot
}

func (Sync) outcome() {}

// Reply means the handler both updated state and returned an
// application-defined payload.
type Reply struct {
	State   *state.Snapshot
	Payload any
}

func (Reply) outcome() {}

// Deferred is an unexecuted unit of work produced by an async handler. The
// dispatcher captured the state and arguments by value and hands the closure
// back uninvoked: it performs no observable side effect until Run is called,
// and the core never schedules, awaits, or supervises it.
type Deferred struct {
	run func(ctx context.Context) (*state.Snapshot, error)
}

func (Deferred) outcome() {}

// Run executes the deferred transition and yields the new snapshot. Applying
// the result atomically (a single value replacement) is the caller's
// responsibility, as is running after-hooks via NotifyApplied.
func (d Deferred) Run(ctx context.Context) (*state.Snapshot, error) {
	return d.run(ctx)
}
