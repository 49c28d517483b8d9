package task

import (
	"context"
	"sync"
	"sync/atomic"
)

// Loop is an unbounded queue of callbacks drained by a single owner
// goroutine. Dispatch never blocks the caller.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	notify  chan struct{}
	running atomic.Bool
}

// NewLoop returns an empty Loop.
func NewLoop() *Loop {
	return &Loop{notify: make(chan struct{}, 1)}
}

func (l *Loop) Dispatch(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
}

// InLoop reports whether a dispatched callback is currently executing.
func (l *Loop) InLoop() bool { return l.running.Load() }

// Next waits for at least one callback and runs everything queued.
// It returns false if ctx ends first.
func (l *Loop) Next(ctx context.Context) bool {
	for {
		if l.drain() > 0 {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-l.notify:
		}
	}
}

// Run drains callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for l.Next(ctx) {
	}
	return ctx.Err()
}

func (l *Loop) drain() int {
	l.mu.Lock()
	batch := l.queue
	l.queue = nil
	l.mu.Unlock()
	for _, fn := range batch {
		l.running.Store(true)
		fn()
		l.running.Store(false)
	}
	return len(batch)
}
