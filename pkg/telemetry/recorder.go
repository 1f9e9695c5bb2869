package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/statekit/pkg/logger"
)

// Sink receives emitted events. Implementations must be safe for concurrent
// use; the recorder calls them on the emitting goroutine and never retries.
type Sink interface {
	Emit(ctx context.Context, event Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, event Event)

func (f SinkFunc) Emit(ctx context.Context, event Event) { f(ctx, event) }

// NewSlogSink returns a sink that writes events as structured log records.
// A nil logger falls back to the default factory logger.
func NewSlogSink(log *slog.Logger) Sink {
	if log == nil {
		log = logger.New()
	}
	return SinkFunc(func(ctx context.Context, e Event) {
		attrs := []slog.Attr{
			slog.String("span_id", e.SpanID),
			slog.String("schema", e.Schema),
		}
		if e.Action != "" {
			attrs = append(attrs, slog.String("action", e.Action), slog.Any("args", e.Args))
		}
		if e.Phase == PhaseStop || e.Phase == PhaseException {
			attrs = append(attrs, slog.Duration("duration", e.Duration))
		}
		if e.Phase == PhaseException {
			attrs = append(attrs, slog.String("kind", string(e.Kind)), slog.String("reason", e.Reason))
			if e.Trace != "" {
				attrs = append(attrs, slog.String("trace", e.Trace))
			}
		}
		if e.Phase == PhaseFailure {
			attrs = append(attrs, slog.String("field", e.Field), slog.Any("errors", e.Errors))
		}

		level := slog.LevelDebug
		if e.Phase == PhaseException || e.Phase == PhaseFailure {
			level = slog.LevelWarn
		}
		log.LogAttrs(ctx, level, e.Name(), attrs...)
	})
}

// Option configures a recorder.
type Option func(*Recorder)

// WithSink adds a sink. Nil sinks are ignored.
func WithSink(s Sink) Option {
	return func(r *Recorder) {
		if s != nil {
			r.sinks = append(r.sinks, s)
		}
	}
}

// Recorder fans emitted events out to its sinks. A nil *Recorder is valid and
// drops every event, so instrumented code never needs a nil check.
type Recorder struct {
	sinks []Sink
}

// NewRecorder creates a recorder. Without options it logs through
// slog.Default.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.sinks) == 0 {
		r.sinks = append(r.sinks, NewSlogSink(nil))
	}
	return r
}

func (r *Recorder) emit(ctx context.Context, e Event) {
	if r == nil {
		return
	}
	e.Domain = Domain
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	for _, s := range r.sinks {
		s.Emit(ctx, e)
	}
}

// Span instruments one unit of work. Obtain it from StartSpan, which emits the
// start event; finish with End or Fail exactly once.
type Span struct {
	recorder *Recorder
	id       string
	started  time.Time
	subject  string
	schema   string
	action   string
	args     []any
}

// StartSpan emits the start event for a unit of work and returns the span.
func (r *Recorder) StartSpan(ctx context.Context, subject, schemaName, action string, args []any) *Span {
	s := &Span{
		recorder: r,
		id:       uuid.New().String(),
		started:  time.Now(),
		subject:  subject,
		schema:   schemaName,
		action:   action,
		args:     args,
	}
	r.emit(ctx, Event{
		Subject: subject,
		Phase:   PhaseStart,
		SpanID:  s.id,
		Time:    s.started,
		Schema:  schemaName,
		Action:  action,
		Args:    args,
	})
	return s
}

// End emits the stop event for a normally completed unit of work.
func (s *Span) End(ctx context.Context) {
	if s == nil {
		return
	}
	s.recorder.emit(ctx, Event{
		Subject:  s.subject,
		Phase:    PhaseStop,
		SpanID:   s.id,
		Schema:   s.schema,
		Action:   s.action,
		Args:     s.args,
		Duration: time.Since(s.started),
	})
}

// Fail emits the exception event for an abnormally terminated unit of work.
// It only records the failure; re-propagation is the caller's job.
func (s *Span) Fail(ctx context.Context, kind Kind, reason string, trace string) {
	if s == nil {
		return
	}
	s.recorder.emit(ctx, Event{
		Subject:  s.subject,
		Phase:    PhaseException,
		SpanID:   s.id,
		Schema:   s.schema,
		Action:   s.action,
		Args:     s.args,
		Duration: time.Since(s.started),
		Kind:     kind,
		Reason:   reason,
		Trace:    trace,
	})
}

// Observe wraps fn in a span: start before invocation, stop on normal return,
// exception on error return or panic. The original failure always propagates
// unchanged; a panic is re-raised after the exception event is emitted.
func (r *Recorder) Observe(ctx context.Context, subject, schemaName, action string, args []any, fn func() error) error {
	span := r.StartSpan(ctx, subject, schemaName, action, args)

	defer func() {
		if rec := recover(); rec != nil {
			span.Fail(ctx, KindPanic, fmt.Sprint(rec), string(debug.Stack()))
			panic(rec)
		}
	}()

	if err := fn(); err != nil {
		span.Fail(ctx, KindError, err.Error(), "")
		return err
	}

	span.End(ctx)
	return nil
}

// ValidationFailure emits the standalone validation-failure event. It is
// independent of the configured error policy: it fires whether or not the
// failure is surfaced to the caller.
func (r *Recorder) ValidationFailure(ctx context.Context, schemaName, field string, errs []string) {
	r.emit(ctx, Event{
		Subject: SubjectValidation,
		Phase:   PhaseFailure,
		Schema:  schemaName,
		Field:   field,
		Errors:  errs,
	})
}
