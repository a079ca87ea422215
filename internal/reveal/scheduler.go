package reveal

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/livecode/internal/tracing"
)

// Scheduler owns at most one active session. Starting a new session
// cancels the previous one before the new one publishes anything.
type Scheduler struct {
	mu      sync.Mutex
	current *Session
	rand    func() float64
	tracer  trace.Tracer
	notify  func(State)
	newID   func() string
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithRand injects the jitter source. fn must return values in [0,1) and be
// safe for concurrent use.
func WithRand(fn func() float64) Option {
	return func(s *Scheduler) {
		s.rand = fn
	}
}

// WithTracer sets the tracer used for session spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Scheduler) {
		s.tracer = t
	}
}

// WithObserver registers fn to be called synchronously with every state
// published by every session, in order. fn must not block or call back into
// the scheduler.
func WithObserver(fn func(State)) Option {
	return func(s *Scheduler) {
		s.notify = fn
	}
}

// NewScheduler creates a scheduler using math/rand jitter and the global tracer.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		rand:  rand.Float64,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start cancels any active session and begins revealing code at speed.
// Leading newlines are stripped from code first.
func (s *Scheduler) Start(ctx context.Context, code string, speed float64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Cancel()
	}

	tracer := s.tracer
	if tracer == nil {
		tracer = tracing.Tracer()
	}

	sess := newSession(s.newID(), PrepareTarget(code), speed, s.rand, s.notify)
	s.current = sess
	sess.start(ctx, tracer)
	return sess
}

// Current returns the most recently started session, or nil.
func (s *Scheduler) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cancel stops the active session, if any. Used on view teardown.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Cancel()
	}
}
