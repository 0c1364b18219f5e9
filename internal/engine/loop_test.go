package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/astrocore-app/astrocore/internal/notify"
)

// stubSource emits a fixed batch of events on every tick.
type stubSource struct {
	events []FireEvent
	err    error
	ticks  atomic.Int64
}

func (s *stubSource) Evaluate(ctx context.Context, now time.Time) ([]FireEvent, error) {
	s.ticks.Add(1)
	return s.events, s.err
}

func waitEvent(t *testing.T, ch <-chan FireEvent, timeout time.Duration) FireEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for event")
		return FireEvent{}
	}
}

func TestLoopDeliversSourceEvents(t *testing.T) {
	src := &stubSource{events: []FireEvent{{Payload: notify.Payload{Tag: "m1"}}}}
	loop := NewLoop(src, 20*time.Millisecond, 8, nil)
	loop.Start()
	defer loop.Stop()

	ev := waitEvent(t, loop.C(), time.Second)
	if ev.Payload.Tag != "m1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestLoopNonBlockingDropsWhenConsumerIsSlow(t *testing.T) {
	events := make([]FireEvent, 10)
	src := &stubSource{events: events}
	loop := NewLoop(src, 10*time.Millisecond, 1, nil)
	loop.Start()
	defer loop.Stop()

	time.Sleep(120 * time.Millisecond)
	if loop.Dropped() == 0 {
		t.Fatalf("expected dropped events > 0, got %d", loop.Dropped())
	}
}

func TestLoopSurvivesSourceErrors(t *testing.T) {
	src := &stubSource{err: errors.New("load failed")}
	loop := NewLoop(src, 10*time.Millisecond, 1, nil)
	loop.Start()

	time.Sleep(60 * time.Millisecond)
	loop.Stop()

	if src.ticks.Load() < 2 {
		t.Fatalf("expected the loop to keep ticking through errors, got %d ticks", src.ticks.Load())
	}
}

func TestLoopStopClosesEventChannel(t *testing.T) {
	src := &stubSource{}
	loop := NewLoop(src, 10*time.Millisecond, 1, nil)
	loop.Start()
	loop.Stop()

	if _, ok := <-loop.C(); ok {
		t.Fatal("expected closed channel after Stop")
	}

	// Stop is idempotent.
	loop.Stop()
}
