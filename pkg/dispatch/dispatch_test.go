package dispatch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrymomot/statekit/pkg/dispatch"
	"github.com/dmitrymomot/statekit/pkg/schema"
	"github.com/dmitrymomot/statekit/pkg/state"
)

func counterSchema() *schema.Schema {
	return schema.MustNew("counter",
		schema.Field{Name: "count", Type: schema.Int(), Default: 0},
	)
}

func counterSnap(t *testing.T, count int) *state.Snapshot {
	t.Helper()
	return state.MustNew(context.Background(), counterSchema(), map[string]any{"count": count})
}

func increment(ctx context.Context, s *state.Snapshot, _ []any) (*state.Snapshot, error) {
	return s.With(ctx, "count", s.Value("count").(int)+1)
}

func addN(ctx context.Context, s *state.Snapshot, args []any) (*state.Snapshot, error) {
	return s.With(ctx, "count", s.Value("count").(int)+args[0].(int))
}

func TestDispatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Sync Outcome", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())
		if err := d.Register("increment", 0, increment); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		out, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("increment"))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		sync, ok := out.(dispatch.Sync)
		if !ok {
			t.Fatalf("Expected Sync outcome, got %T", out)
		}
		if got := sync.State.Value("count"); got != 1 {
			t.Fatalf("Expected count=1, got %v", got)
		}
	})

	t.Run("Arity Matching", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())
		if err := d.Register("add", 1, addN); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		out, err := d.Dispatch(ctx, counterSnap(t, 10), dispatch.NewAction("add", 5))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if got := out.(dispatch.Sync).State.Value("count"); got != 15 {
			t.Fatalf("Expected count=15, got %v", got)
		}

		// Same name, wrong arity: no handler matches.
		_, err = d.Dispatch(ctx, counterSnap(t, 10), dispatch.NewAction("add", 1, 2))
		if !dispatch.IsUnknownActionError(err) {
			t.Fatalf("Expected UnknownActionError for arity mismatch, got %v", err)
		}
	})

	t.Run("First Match Wins", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())

		first := func(ctx context.Context, s *state.Snapshot, _ []any) (*state.Snapshot, error) {
			return s.With(ctx, "count", 100)
		}
		second := func(ctx context.Context, s *state.Snapshot, _ []any) (*state.Snapshot, error) {
			return s.With(ctx, "count", 200)
		}
		if err := d.Register("set", 0, first); err != nil {
			t.Fatalf("Failed to register first clause: %v", err)
		}
		if err := d.Register("set", 0, second); err != nil {
			t.Fatalf("Failed to register second clause: %v", err)
		}

		out, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("set"))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if got := out.(dispatch.Sync).State.Value("count"); got != 100 {
			t.Fatalf("Expected first-registered clause to win, got count=%v", got)
		}
	})

	t.Run("Guards", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())

		nonNegative := func(s *state.Snapshot, args []any) bool {
			return args[0].(int) >= 0
		}
		clamp := func(ctx context.Context, s *state.Snapshot, _ []any) (*state.Snapshot, error) {
			return s.With(ctx, "count", 0)
		}
		if err := d.Register("add", 1, addN, dispatch.WithGuard(nonNegative)); err != nil {
			t.Fatalf("Failed to register guarded clause: %v", err)
		}
		if err := d.Register("add", 1, clamp); err != nil {
			t.Fatalf("Failed to register fallback clause: %v", err)
		}

		out, err := d.Dispatch(ctx, counterSnap(t, 1), dispatch.NewAction("add", 5))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if got := out.(dispatch.Sync).State.Value("count"); got != 6 {
			t.Fatalf("Expected guarded clause for non-negative arg, got count=%v", got)
		}

		// Guard fails; the next clause in registration order matches.
		out, err = d.Dispatch(ctx, counterSnap(t, 1), dispatch.NewAction("add", -5))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if got := out.(dispatch.Sync).State.Value("count"); got != 0 {
			t.Fatalf("Expected fallback clause for negative arg, got count=%v", got)
		}
	})

	t.Run("Failed Guard Without Fallback Is Unknown", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())
		never := func(*state.Snapshot, []any) bool { return false }
		if err := d.Register("noop", 0, increment, dispatch.WithGuard(never)); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		_, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("noop"))
		if !dispatch.IsUnknownActionError(err) {
			t.Fatalf("Expected UnknownActionError, got %v", err)
		}
	})

	t.Run("Reply Outcome", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())
		takeAndTell := func(ctx context.Context, s *state.Snapshot, _ []any) (*state.Snapshot, any, error) {
			old := s.Value("count").(int)
			next, err := s.With(ctx, "count", 0)
			return next, old, err
		}
		if err := d.RegisterReply("drain", 0, takeAndTell); err != nil {
			t.Fatalf("Failed to register reply handler: %v", err)
		}

		out, err := d.Dispatch(ctx, counterSnap(t, 42), dispatch.NewAction("drain"))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		reply, ok := out.(dispatch.Reply)
		if !ok {
			t.Fatalf("Expected Reply outcome, got %T", out)
		}
		if reply.Payload != 42 {
			t.Fatalf("Expected payload 42, got %v", reply.Payload)
		}
		if got := reply.State.Value("count"); got != 0 {
			t.Fatalf("Expected drained count=0, got %v", got)
		}
	})

	t.Run("Handler Error Propagates Unchanged", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())
		boom := errors.New("handler exploded")
		if err := d.Register("explode", 0, func(context.Context, *state.Snapshot, []any) (*state.Snapshot, error) {
			return nil, boom
		}); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		_, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("explode"))
		if !errors.Is(err, boom) {
			t.Fatalf("Expected original handler error, got %v", err)
		}
	})

	t.Run("Schema Mismatch", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())
		other := state.MustNew(ctx, schema.MustNew("other", schema.Field{Name: "x", Type: schema.Any()}), nil)

		_, err := d.Dispatch(ctx, other, dispatch.NewAction("increment"))
		if !errors.Is(err, dispatch.ErrSchemaMismatch) {
			t.Fatalf("Expected ErrSchemaMismatch, got %v", err)
		}
	})
}

func TestUnknownAction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := dispatch.MustNew(counterSchema())
	if err := d.Register("increment", 0, increment); err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}
	if err := d.Register("decrement", 0, increment); err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}
	if err := d.Register("add", 1, addN); err != nil {
		t.Fatalf("Failed to register handler: %v", err)
	}

	t.Run("Lists All Declared Actions", func(t *testing.T) {
		t.Parallel()
		_, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("frobnicate"))
		var ua *dispatch.UnknownActionError
		if !errors.As(err, &ua) {
			t.Fatalf("Expected UnknownActionError, got %v", err)
		}
		if ua.Attempted != "frobnicate" {
			t.Fatalf("Expected attempted=frobnicate, got %q", ua.Attempted)
		}
		if ua.Schema != "counter" {
			t.Fatalf("Expected schema=counter, got %q", ua.Schema)
		}
		want := []string{"increment", "decrement", "add"}
		if len(ua.Available) != len(want) {
			t.Fatalf("Expected %d available actions, got %v", len(want), ua.Available)
		}
		for i, name := range want {
			if ua.Available[i] != name {
				t.Fatalf("Expected available[%d]=%q, got %q", i, name, ua.Available[i])
			}
		}
	})

	t.Run("Suggests Nearest Name", func(t *testing.T) {
		t.Parallel()
		_, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("incremnt"))
		var ua *dispatch.UnknownActionError
		if !errors.As(err, &ua) {
			t.Fatalf("Expected UnknownActionError, got %v", err)
		}
		if ua.Suggestion != "increment" {
			t.Fatalf("Expected suggestion=increment, got %q", ua.Suggestion)
		}
		if !strings.Contains(ua.Error(), "did you mean") {
			t.Fatalf("Expected suggestion in message, got %q", ua.Error())
		}
	})

	t.Run("No Suggestion For Distant Names", func(t *testing.T) {
		t.Parallel()
		_, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("zzz"))
		var ua *dispatch.UnknownActionError
		if !errors.As(err, &ua) {
			t.Fatalf("Expected UnknownActionError, got %v", err)
		}
		if ua.Suggestion != "" {
			t.Fatalf("Expected no suggestion, got %q", ua.Suggestion)
		}
	})
}

func TestHooks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Ordering Around Handler", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())

		var order []string
		d.Before(func(context.Context, *state.Snapshot, dispatch.Action) { order = append(order, "h1") })
		d.Before(func(context.Context, *state.Snapshot, dispatch.Action) { order = append(order, "h2") })
		d.After(func(context.Context, *state.Snapshot, *state.Snapshot, dispatch.Action) { order = append(order, "a1") })
		d.After(func(context.Context, *state.Snapshot, *state.Snapshot, dispatch.Action) { order = append(order, "a2") })

		if err := d.Register("increment", 0, func(ctx context.Context, s *state.Snapshot, args []any) (*state.Snapshot, error) {
			order = append(order, "handler")
			return increment(ctx, s, args)
		}); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		if _, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("increment")); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}

		want := []string{"h1", "h2", "handler", "a1", "a2"}
		if len(order) != len(want) {
			t.Fatalf("Expected order %v, got %v", want, order)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("Expected order %v, got %v", want, order)
			}
		}
	})

	t.Run("After Hook Sees Old And New", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())

		var oldCount, newCount any
		d.After(func(_ context.Context, old, new *state.Snapshot, _ dispatch.Action) {
			oldCount = old.Value("count")
			newCount = new.Value("count")
		})
		if err := d.Register("increment", 0, increment); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		if _, err := d.Dispatch(ctx, counterSnap(t, 7), dispatch.NewAction("increment")); err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if oldCount != 7 || newCount != 8 {
			t.Fatalf("Expected after hook to see (7, 8), got (%v, %v)", oldCount, newCount)
		}
	})

	t.Run("Hooks Cannot Alter State", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())

		d.Before(func(ctx context.Context, s *state.Snapshot, _ dispatch.Action) {
			// Hook-produced snapshots are discarded.
			_, _ = s.With(ctx, "count", 999)
		})
		if err := d.Register("increment", 0, increment); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		out, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("increment"))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		if got := out.(dispatch.Sync).State.Value("count"); got != 1 {
			t.Fatalf("Expected count=1 unaffected by hook, got %v", got)
		}
	})
}

func TestDeferred(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("No Side Effect Until Run", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())

		executed := false
		if err := d.Register("increment", 0, func(ctx context.Context, s *state.Snapshot, args []any) (*state.Snapshot, error) {
			executed = true
			return increment(ctx, s, args)
		}, dispatch.AsDeferred()); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		var afterRan bool
		d.After(func(context.Context, *state.Snapshot, *state.Snapshot, dispatch.Action) { afterRan = true })

		out, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.NewAction("increment"))
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		def, ok := out.(dispatch.Deferred)
		if !ok {
			t.Fatalf("Expected Deferred outcome, got %T", out)
		}
		if executed {
			t.Fatal("Handler body must not run at dispatch time")
		}
		if afterRan {
			t.Fatal("After hooks must not run for a deferred outcome at dispatch time")
		}

		next, err := def.Run(ctx)
		if err != nil {
			t.Fatalf("Deferred run failed: %v", err)
		}
		if !executed {
			t.Fatal("Handler body must run when the closure executes")
		}
		if got := next.Value("count"); got != 1 {
			t.Fatalf("Expected count=1, got %v", got)
		}
	})

	t.Run("Captures Arguments By Value", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())
		if err := d.Register("add", 1, addN, dispatch.AsDeferred()); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		args := []any{5}
		out, err := d.Dispatch(ctx, counterSnap(t, 0), dispatch.Action{Name: "add", Args: args})
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}

		// Mutating the caller's slice after dispatch must not leak into
		// the captured invocation.
		args[0] = 1000

		next, err := out.(dispatch.Deferred).Run(ctx)
		if err != nil {
			t.Fatalf("Deferred run failed: %v", err)
		}
		if got := next.Value("count"); got != 5 {
			t.Fatalf("Expected captured arg 5, got count=%v", got)
		}
	})

	t.Run("NotifyApplied Runs After Hooks", func(t *testing.T) {
		t.Parallel()
		d := dispatch.MustNew(counterSchema())
		if err := d.Register("increment", 0, increment, dispatch.AsDeferred()); err != nil {
			t.Fatalf("Failed to register handler: %v", err)
		}

		var oldCount, newCount any
		d.After(func(_ context.Context, old, new *state.Snapshot, _ dispatch.Action) {
			oldCount = old.Value("count")
			newCount = new.Value("count")
		})

		before := counterSnap(t, 3)
		action := dispatch.NewAction("increment")
		out, err := d.Dispatch(ctx, before, action)
		if err != nil {
			t.Fatalf("Dispatch failed: %v", err)
		}
		next, err := out.(dispatch.Deferred).Run(ctx)
		if err != nil {
			t.Fatalf("Deferred run failed: %v", err)
		}

		d.NotifyApplied(ctx, before, next, action)
		if oldCount != 3 || newCount != 4 {
			t.Fatalf("Expected after hook to see (3, 4), got (%v, %v)", oldCount, newCount)
		}
	})
}

func TestRegistrationErrors(t *testing.T) {
	t.Parallel()

	d := dispatch.MustNew(counterSchema())

	if err := d.Register("", 0, increment); !errors.Is(err, dispatch.ErrEmptyActionName) {
		t.Fatalf("Expected ErrEmptyActionName, got %v", err)
	}
	if err := d.Register("x", -1, increment); !errors.Is(err, dispatch.ErrNegativeArity) {
		t.Fatalf("Expected ErrNegativeArity, got %v", err)
	}
	if err := d.Register("x", 0, nil); !errors.Is(err, dispatch.ErrNilHandler) {
		t.Fatalf("Expected ErrNilHandler, got %v", err)
	}
	if err := d.RegisterReply("x", 0, nil); !errors.Is(err, dispatch.ErrNilHandler) {
		t.Fatalf("Expected ErrNilHandler, got %v", err)
	}
	if err := d.RegisterReply("x", 0, func(context.Context, *state.Snapshot, []any) (*state.Snapshot, any, error) {
		return nil, nil, nil
	}, dispatch.AsDeferred()); !errors.Is(err, dispatch.ErrInvalidRegistration) {
		t.Fatalf("Expected ErrInvalidRegistration for deferred reply, got %v", err)
	}

	if _, err := dispatch.New(nil); !errors.Is(err, dispatch.ErrNilSchema) {
		t.Fatalf("Expected ErrNilSchema, got %v", err)
	}
}
