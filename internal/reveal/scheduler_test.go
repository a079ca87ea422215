package reveal

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"pgregory.net/rapid"

	"github.com/zjrosen/livecode/internal/tracing"
)

// recorder collects every published state in order.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder) snapshot() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func (r *recorder) forSession(id string) []State {
	var out []State
	for _, s := range r.snapshot() {
		if s.Session == id {
			out = append(out, s)
		}
	}
	return out
}

func waitDone(t *testing.T, sess *Session) {
	t.Helper()
	select {
	case <-sess.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not finish")
	}
}

func TestScheduler_ScenarioThreeTicks(t *testing.T) {
	rec := &recorder{}
	sched := NewScheduler(WithObserver(rec.observe))

	sess := sched.Start(context.Background(), "ab\n", 1)
	waitDone(t, sess)

	states := rec.forSession(sess.ID())
	require.Len(t, states, 4, "reset state plus three ticks")

	require.Equal(t, State{Session: sess.ID(), Total: 3}, states[0])

	require.Equal(t, "a", states[1].Prefix)
	require.Equal(t, "ab", states[2].Prefix)
	require.Equal(t, "ab\n", states[3].Prefix)

	for _, s := range states[1:3] {
		require.GreaterOrEqual(t, s.Delay, 15*time.Millisecond)
		require.Less(t, s.Delay, 25*time.Millisecond)
	}
	require.Equal(t, 15*time.Millisecond, states[3].Delay)

	require.True(t, sess.Completed())
	require.True(t, sess.State().Done())
}

func TestScheduler_EmptyTargetIsImmediatelyTerminal(t *testing.T) {
	rec := &recorder{}
	sched := NewScheduler(WithObserver(rec.observe))

	sess := sched.Start(context.Background(), "", 1)

	select {
	case <-sess.Done():
	default:
		t.Fatal("empty session should be done when Start returns")
	}
	require.True(t, sess.Completed())
	require.Equal(t, State{Session: sess.ID()}, sess.State())
	require.Len(t, rec.forSession(sess.ID()), 1, "no ticks for an empty target")
}

func TestScheduler_OnlyNewlinesIsEmpty(t *testing.T) {
	sched := NewScheduler()
	sess := sched.Start(context.Background(), "\n\n\n", 1)
	waitDone(t, sess)
	require.Equal(t, "", sess.Target())
	require.Equal(t, 0, sess.State().Total)
}

func TestScheduler_CompletesWithFullTarget(t *testing.T) {
	code := "\n\npackage main\n\nfunc main() {\n\tprintln(\"héllo 👋\")\n}\n"
	rec := &recorder{}
	sched := NewScheduler(WithObserver(rec.observe), WithRand(func() float64 { return 0.5 }))

	sess := sched.Start(context.Background(), code, 1000)
	waitDone(t, sess)

	want := strings.TrimLeft(code, "\n")
	require.Equal(t, want, sess.Target())
	require.Equal(t, want, sess.State().Prefix)

	states := rec.forSession(sess.ID())
	var completed int
	for _, s := range states {
		if s.Done() {
			completed++
		}
	}
	require.Equal(t, 1, completed, "the full target is published exactly once")
}

func TestScheduler_Monotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		code := rapid.StringMatching(`[a-z{}();\n ]{0,40}`).Draw(rt, "code")

		rec := &recorder{}
		sched := NewScheduler(WithObserver(rec.observe))
		sess := sched.Start(context.Background(), code, 1000)

		select {
		case <-sess.Done():
		case <-time.After(5 * time.Second):
			rt.Fatalf("session did not finish")
		}

		target := sess.Target()
		states := rec.forSession(sess.ID())
		for i, s := range states {
			if s.Next != i {
				rt.Fatalf("state %d has Next=%d", i, s.Next)
			}
			if s.Prefix != target[:len(s.Prefix)] {
				rt.Fatalf("prefix %q is not a prefix of %q", s.Prefix, target)
			}
		}
		if last := states[len(states)-1]; last.Prefix != target || !last.Done() {
			rt.Fatalf("final state %+v does not match target %q", last, target)
		}
	})
}

func TestSession_CancelStopsTicks(t *testing.T) {
	rec := &recorder{}
	sched := NewScheduler(WithObserver(rec.observe))

	// Speed 0.1 makes every tick take at least 150ms.
	sess := sched.Start(context.Background(), strings.Repeat("x", 50), 0.1)
	sess.Cancel()

	before := sess.State()
	seen := len(rec.forSession(sess.ID()))

	time.Sleep(400 * time.Millisecond)

	require.Equal(t, before, sess.State(), "no tick may mutate state after Cancel returns")
	require.Len(t, rec.forSession(sess.ID()), seen)
	require.True(t, sess.Cancelled())
	require.False(t, sess.Completed())

	select {
	case <-sess.Done():
	default:
		t.Fatal("Done should be closed after Cancel")
	}
}

func TestSession_CancelIsIdempotent(t *testing.T) {
	sched := NewScheduler()
	sess := sched.Start(context.Background(), "hello", 0.1)

	require.NotPanics(t, func() {
		sess.Cancel()
		sess.Cancel()
		sched.Cancel()
	})
	require.True(t, sess.Cancelled())
}

func TestSession_CancelAfterCompletionIsNoop(t *testing.T) {
	sched := NewScheduler()
	sess := sched.Start(context.Background(), "ok", 1000)
	waitDone(t, sess)

	final := sess.State()
	sess.Cancel()

	require.True(t, sess.Completed())
	require.False(t, sess.Cancelled())
	require.Equal(t, final, sess.State())
}

func TestScheduler_RestartResetsState(t *testing.T) {
	rec := &recorder{}
	sched := NewScheduler(WithObserver(rec.observe))

	first := sched.Start(context.Background(), strings.Repeat("a", 100), 0.5)
	require.Eventually(t, func() bool { return first.State().Next >= 1 }, time.Second, time.Millisecond)

	second := sched.Start(context.Background(), "bc", 1000)
	require.True(t, first.Cancelled(), "restart cancels the previous session")

	firstCount := len(rec.forSession(first.ID()))
	waitDone(t, second)
	time.Sleep(100 * time.Millisecond)

	require.Len(t, rec.forSession(first.ID()), firstCount, "old session published after restart")

	states := rec.forSession(second.ID())
	require.Equal(t, "", states[0].Prefix)
	require.Equal(t, 0, states[0].Next)
	require.Equal(t, "bc", states[len(states)-1].Prefix)
	require.Same(t, second, sched.Current())

	// Everything the old session published precedes the new reset state.
	all := rec.snapshot()
	resetAt := -1
	for i, s := range all {
		if s.Session == second.ID() {
			resetAt = i
			break
		}
	}
	for _, s := range all[resetAt:] {
		require.Equal(t, second.ID(), s.Session)
	}
}

func TestScheduler_ParentContextCancelSettlesSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sched := NewScheduler()
	sess := sched.Start(ctx, "long enough text", 0.1)

	cancel()
	waitDone(t, sess)
	require.True(t, sess.Cancelled())
}

func TestSession_SubscribeSeesLatestAndCloses(t *testing.T) {
	sched := NewScheduler()
	sess := sched.Start(context.Background(), "xyz", 1000)
	waitDone(t, sess)

	ch := sess.Subscribe(context.Background())
	event, ok := <-ch
	require.True(t, ok)
	require.Equal(t, "xyz", event.Payload.Prefix)

	_, ok = <-ch
	require.False(t, ok)
}

func TestSession_SpeedScalesTotalDuration(t *testing.T) {
	code := strings.Repeat("ab", 10)
	fixed := WithRand(func() float64 { return 0 })

	run := func(speed float64) time.Duration {
		sched := NewScheduler(fixed)
		start := time.Now()
		sess := sched.Start(context.Background(), code, speed)
		waitDone(t, sess)
		return time.Since(start)
	}

	slow := run(1)  // 19 pauses of 15ms
	fast := run(10) // 19 pauses of 1.5ms
	require.Less(t, fast, slow)
}

func TestSession_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	sched := NewScheduler(WithTracer(tp.Tracer("test")))
	sess := sched.Start(context.Background(), "hi", 1000)
	waitDone(t, sess)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, tracing.SpanPlaybackSession, spans[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	require.Equal(t, sess.ID(), attrs[tracing.AttrSessionID].AsString())
	require.Equal(t, int64(2), attrs[tracing.AttrTicks].AsInt64())
	require.Equal(t, tracing.OutcomeCompleted, attrs[tracing.AttrOutcome].AsString())
}
