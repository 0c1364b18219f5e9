package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Source produces the fire events for one tick. Implementations load the
// current task collection, evaluate it, persist transitions and dispatch
// notifications; the loop only drives the cadence and fans events out to
// interested consumers.
type Source interface {
	Evaluate(ctx context.Context, now time.Time) ([]FireEvent, error)
}

// Loop drives a Source on a fixed interval from a single goroutine, so ticks
// never overlap. Events are emitted on a buffered channel without blocking: a
// slow consumer loses events (counted in Dropped) but never stalls
// evaluation, which is safe because evaluation is idempotent under the
// evaluator's guard.
type Loop struct {
	src      Source
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	out     chan FireEvent
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewLoop(src Source, interval time.Duration, bufferSize int, logger *slog.Logger) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		src:      src,
		interval: interval,
		logger:   logger,
		out:      make(chan FireEvent, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (l *Loop) C() <-chan FireEvent {
	return l.out
}

func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return
	}
	l.started = true
	go l.run()
}

func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	close(l.stopCh)
	l.mu.Unlock()
	<-l.doneCh
}

func (l *Loop) Dropped() uint64 {
	return atomic.LoadUint64(&l.dropped)
}

func (l *Loop) run() {
	defer close(l.doneCh)
	defer close(l.out)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			l.tick(now)
		case <-l.stopCh:
			return
		}
	}
}

func (l *Loop) tick(now time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), l.interval)
	defer cancel()

	events, err := l.src.Evaluate(ctx, now)
	if err != nil {
		l.logger.Warn("tick evaluation failed", "err", err)
		return
	}
	for _, ev := range events {
		select {
		case l.out <- ev:
		default:
			atomic.AddUint64(&l.dropped, 1)
		}
	}
}
