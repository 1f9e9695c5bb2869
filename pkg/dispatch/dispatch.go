package dispatch

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/statekit/pkg/schema"
	"github.com/dmitrymomot/statekit/pkg/state"
	"github.com/dmitrymomot/statekit/pkg/telemetry"
)

// Action is a named, positional-argument message requesting a transition.
type Action struct {
	Name string
	Args []any
}

// NewAction builds an action invocation.
func NewAction(name string, args ...any) Action {
	return Action{Name: name, Args: args}
}

// HandlerFunc is a pure transition body: it receives the current snapshot and
// the bound positional arguments and returns the next snapshot.
type HandlerFunc func(ctx context.Context, s *state.Snapshot, args []any) (*state.Snapshot, error)

// ReplyFunc is a transition body that additionally returns an
// application-defined payload. The dispatcher does not inspect the payload.
type ReplyFunc func(ctx context.Context, s *state.Snapshot, args []any) (*state.Snapshot, any, error)

// Guard decides whether a registered handler matches an invocation. It is
// evaluated against the bound arguments and the current state; a false return
// leaves the handler unmatched for that call.
type Guard func(s *state.Snapshot, args []any) bool

// BeforeHook observes a dispatch before the handler runs.
type BeforeHook func(ctx context.Context, s *state.Snapshot, action Action)

// AfterHook observes a completed transition. Hooks are side-effect-only:
// return values do not exist and hooks cannot alter the propagated state.
type AfterHook func(ctx context.Context, old, new *state.Snapshot, action Action)

type handlerMode int

const (
	modeSync handlerMode = iota
	modeDeferred
	modeReply
)

type handler struct {
	name    string
	arity   int
	guard   Guard
	mode    handlerMode
	fn      HandlerFunc
	replyFn ReplyFunc
}

// Dispatcher routes action invocations for one declared type to registered
// handlers. Handlers form an ordered list scanned in registration order; the
// first one whose name, arity, and guard all match wins. Multiple clauses may
// share a name, differing by arity or guard.
type Dispatcher struct {
	schema   *schema.Schema
	handlers []handler
	before   []BeforeHook
	after    []AfterHook
	recorder *telemetry.Recorder
}

// Option configures a dispatcher.
type Option func(*Dispatcher)

// WithRecorder sets the telemetry recorder wrapping every dispatch.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(d *Dispatcher) { d.recorder = r }
}

// New creates a dispatcher for the given declared type.
func New(sc *schema.Schema, opts ...Option) (*Dispatcher, error) {
	if sc == nil {
		return nil, ErrNilSchema
	}
	d := &Dispatcher{schema: sc}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// MustNew creates a dispatcher and panics on definition errors.
func MustNew(sc *schema.Schema, opts ...Option) *Dispatcher {
	d, err := New(sc, opts...)
	if err != nil {
		panic(fmt.Sprintf("dispatch: %v", err))
	}
	return d
}

// HandlerOption configures a single handler registration.
type HandlerOption func(*handler)

// WithGuard attaches a guard predicate to the handler clause.
func WithGuard(g Guard) HandlerOption {
	return func(h *handler) { h.guard = g }
}

// AsDeferred declares the handler async: dispatch returns an unexecuted
// Deferred closure instead of running the body.
func AsDeferred() HandlerOption {
	return func(h *handler) { h.mode = modeDeferred }
}

// Register appends a handler clause for (name, arity). Clauses are scanned in
// registration order at dispatch time.
func (d *Dispatcher) Register(name string, arity int, fn HandlerFunc, opts ...HandlerOption) error {
	if err := checkRegistration(name, arity); err != nil {
		return err
	}
	if fn == nil {
		return ErrNilHandler
	}

	h := handler{name: name, arity: arity, fn: fn}
	for _, opt := range opts {
		opt(&h)
	}
	if h.mode == modeReply {
		return fmt.Errorf("%w: use RegisterReply for reply handlers", ErrInvalidRegistration)
	}
	d.handlers = append(d.handlers, h)
	return nil
}

// RegisterReply appends a reply handler clause: its body yields both the next
// snapshot and an application payload. Reply handlers cannot be deferred.
func (d *Dispatcher) RegisterReply(name string, arity int, fn ReplyFunc, opts ...HandlerOption) error {
	if err := checkRegistration(name, arity); err != nil {
		return err
	}
	if fn == nil {
		return ErrNilHandler
	}

	h := handler{name: name, arity: arity, mode: modeReply, replyFn: fn}
	for _, opt := range opts {
		opt(&h)
	}
	if h.mode != modeReply {
		return fmt.Errorf("%w: reply handlers cannot be deferred", ErrInvalidRegistration)
	}
	d.handlers = append(d.handlers, h)
	return nil
}

func checkRegistration(name string, arity int) error {
	if name == "" {
		return ErrEmptyActionName
	}
	if arity < 0 {
		return ErrNegativeArity
	}
	return nil
}

// Before registers a before-hook. Hooks run sequentially in registration
// order, all of them before the handler starts.
func (d *Dispatcher) Before(h BeforeHook) {
	if h != nil {
		d.before = append(d.before, h)
	}
}

// After registers an after-hook. Hooks run sequentially in registration
// order, only after the handler returns a non-deferred outcome.
func (d *Dispatcher) After(h AfterHook) {
	if h != nil {
		d.after = append(d.after, h)
	}
}

// Actions returns the declared action names in first-registration order,
// without duplicates.
func (d *Dispatcher) Actions() []string {
	seen := make(map[string]bool, len(d.handlers))
	var out []string
	for _, h := range d.handlers {
		if !seen[h.name] {
			seen[h.name] = true
			out = append(out, h.name)
		}
	}
	return out
}

// Dispatch matches the action against the registered handlers and executes
// the winning clause, wrapped in a telemetry span. It returns one of the
// Outcome variants, or an error.
//
// An unmatched action always fails with *UnknownActionError; there is no
// policy override. Handler errors and panics propagate unchanged; the span
// observes them but never swallows them.
func (d *Dispatcher) Dispatch(ctx context.Context, s *state.Snapshot, action Action) (Outcome, error) {
	if s == nil {
		return nil, ErrNilState
	}

	var out Outcome
	err := d.recorder.Observe(ctx, telemetry.SubjectAction, s.SchemaName(), action.Name, action.Args, func() error {
		var err error
		out, err = d.dispatch(ctx, s, action)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, s *state.Snapshot, action Action) (Outcome, error) {
	if s.SchemaName() != d.schema.Name() {
		return nil, fmt.Errorf("%w: dispatcher handles %q, got %q", ErrSchemaMismatch, d.schema.Name(), s.SchemaName())
	}

	h := d.match(s, action)
	if h == nil {
		return nil, d.unknownAction(action.Name)
	}

	for _, bh := range d.before {
		bh(ctx, s, action)
	}

	switch h.mode {
	case modeDeferred:
		// Capture state and arguments by value now; later mutation at the
		// call site must not affect the closure's eventual execution.
		captured := make([]any, len(action.Args))
		copy(captured, action.Args)
		snap := s
		fn := h.fn
		return Deferred{run: func(ctx context.Context) (*state.Snapshot, error) {
			return fn(ctx, snap, captured)
		}}, nil

	case modeReply:
		next, payload, err := h.replyFn(ctx, s, action.Args)
		if err != nil {
			return nil, err
		}
		d.runAfterHooks(ctx, s, next, action)
		return Reply{State: next, Payload: payload}, nil

	default:
		next, err := h.fn(ctx, s, action.Args)
		if err != nil {
			return nil, err
		}
		d.runAfterHooks(ctx, s, next, action)
		return Sync{State: next}, nil
	}
}

// match scans clauses in registration order; first full match wins. A clause
// whose guard returns false is treated as unmatched for this call.
func (d *Dispatcher) match(s *state.Snapshot, action Action) *handler {
	for i := range d.handlers {
		h := &d.handlers[i]
		if h.name != action.Name || h.arity != len(action.Args) {
			continue
		}
		if h.guard != nil && !h.guard(s, action.Args) {
			continue
		}
		return h
	}
	return nil
}

func (d *Dispatcher) runAfterHooks(ctx context.Context, old, new *state.Snapshot, action Action) {
	for _, ah := range d.after {
		ah(ctx, old, new, action)
	}
}

// NotifyApplied runs the after-hooks for a deferred outcome whose result the
// caller has applied. The core never schedules deferred work, so honoring the
// hook protocol around it is the caller's responsibility; this is the hook
// half of that contract.
func (d *Dispatcher) NotifyApplied(ctx context.Context, old, new *state.Snapshot, action Action) {
	d.runAfterHooks(ctx, old, new, action)
}

func (d *Dispatcher) unknownAction(attempted string) error {
	available := d.Actions()
	return &UnknownActionError{
		Attempted:  attempted,
		Schema:     d.schema.Name(),
		Available:  available,
		Suggestion: nearest(attempted, available),
	}
}
