package reveal

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/livecode/internal/log"
	"github.com/zjrosen/livecode/internal/pubsub"
	"github.com/zjrosen/livecode/internal/tracing"
)

// State is the published progress of one session.
// Prefix is always Target[:offset of Next units].
type State struct {
	Session string
	Prefix  string
	Next    int
	Total   int
	// Delay is the pause computed after the unit that was just revealed.
	// Zero for the reset state.
	Delay time.Duration
}

// Done reports whether every unit has been revealed.
func (s State) Done() bool {
	return s.Next >= s.Total
}

// Session is one run of the scheduler over a single target.
// All state transitions happen under mu, so once Cancel returns no tick can
// publish or mutate anything.
type Session struct {
	id     string
	target string
	ends   []int
	speed  float64
	rand   func() float64
	notify func(State)

	broker *pubsub.Broker[State]
	done   chan struct{}
	stop   context.CancelFunc
	span   trace.Span

	mu        sync.Mutex
	state     State
	finished  bool
	cancelled bool
}

func newSession(id, target string, speed float64, rand func() float64, notify func(State)) *Session {
	ends := unitEnds(target)
	return &Session{
		id:     id,
		target: target,
		ends:   ends,
		speed:  speed,
		rand:   rand,
		notify: notify,
		broker: pubsub.NewLatestBroker[State](),
		done:   make(chan struct{}),
		state:  State{Session: id, Total: len(ends)},
	}
}

// start publishes the reset state and kicks off the tick loop.
func (s *Session) start(ctx context.Context, tracer trace.Tracer) {
	ctx, s.span = tracer.Start(ctx, tracing.SpanPlaybackSession, trace.WithAttributes(
		attribute.String(tracing.AttrSessionID, s.id),
		attribute.Int(tracing.AttrTargetUnits, len(s.ends)),
		attribute.Float64(tracing.AttrSpeed, s.speed),
	))
	ctx, s.stop = context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.publishLocked(pubsub.CreatedEvent)
	if s.state.Done() {
		log.Debug(log.CatReveal, "empty target, session complete", "session", s.id)
		s.finishLocked(tracing.OutcomeCompleted)
		return
	}

	log.Debug(log.CatReveal, "session started", "session", s.id, "units", len(s.ends), "speed", s.speed)
	go s.run(ctx)
}

// run is the tick loop. Each iteration waits for its timer, then reveals
// exactly one unit; the next timer is armed only after that tick completes.
func (s *Session) run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			// Parent context gone: settle Done and subscribers.
			s.Cancel()
			return
		case <-timer.C:
		}

		delay, more := s.tick()
		if !more {
			return
		}
		timer.Reset(delay)
	}
}

func (s *Session) tick() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return 0, false
	}

	next := s.state.Next
	from := 0
	if next > 0 {
		from = s.ends[next-1]
	}
	to := s.ends[next]

	delay := Delay(s.target[from:to], s.speed, s.rand())
	s.state = State{
		Session: s.id,
		Prefix:  s.target[:to],
		Next:    next + 1,
		Total:   s.state.Total,
		Delay:   delay,
	}

	if s.state.Done() {
		s.publishLocked(pubsub.CompletedEvent)
		log.Debug(log.CatReveal, "session complete", "session", s.id, "units", s.state.Total)
		s.finishLocked(tracing.OutcomeCompleted)
		return 0, false
	}

	s.publishLocked(pubsub.UpdatedEvent)
	return delay, true
}

func (s *Session) publishLocked(eventType pubsub.EventType) {
	if s.notify != nil {
		s.notify(s.state)
	}
	s.broker.Publish(eventType, s.state)
}

func (s *Session) finishLocked(outcome string) {
	s.finished = true
	if s.stop != nil {
		s.stop()
	}
	s.broker.Close()
	close(s.done)

	if s.span != nil {
		s.span.SetAttributes(
			attribute.Int(tracing.AttrTicks, s.state.Next),
			attribute.String(tracing.AttrOutcome, outcome),
		)
		s.span.AddEvent(outcome)
		s.span.SetStatus(codes.Ok, "")
		s.span.End()
	}
}

// Cancel stops the session. It is synchronous and idempotent, and a no-op
// once the session has completed.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.finished {
		return
	}
	s.cancelled = true
	log.Debug(log.CatReveal, "session cancelled", "session", s.id, "next", s.state.Next, "total", s.state.Total)
	s.finishLocked(tracing.OutcomeCancelled)
}

// ID returns the session identifier carried on every published State.
func (s *Session) ID() string {
	return s.id
}

// Target returns the text being revealed, after leading newlines were stripped.
func (s *Session) Target() string {
	return s.target
}

// State returns the current progress.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a latest-value channel of states. A new subscriber
// immediately receives the current state. The channel closes when the
// session ends or ctx is cancelled.
func (s *Session) Subscribe(ctx context.Context) <-chan pubsub.Event[State] {
	return s.broker.Subscribe(ctx)
}

// Done is closed once the session completes or is cancelled.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Completed reports whether every unit was revealed.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished && !s.cancelled
}

// Cancelled reports whether the session was stopped before completing.
func (s *Session) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}
