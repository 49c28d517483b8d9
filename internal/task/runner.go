package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a submitted task.
type State int32

const (
	Idle State = iota
	Running
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

var (
	// ErrBusy is returned by Submit when the slot already has a running task.
	ErrBusy = errors.New("task already running")
	// ErrCancelled is the error carried by a Cancelled outcome.
	ErrCancelled = errors.New("task cancelled")
)

// Dispatcher schedules fn to run on the interactive goroutine.
// Implementations must be safe for use from any goroutine.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Outcome is delivered exactly once to the completion handler of a task.
type Outcome[T any] struct {
	Value    T
	Err      error
	State    State
	Duration time.Duration
}

// OK reports whether the task completed successfully.
func (o Outcome[T]) OK() bool { return o.State == Completed }

// Work is the blocking unit executed off the interactive goroutine.
type Work[T any] func(ctx context.Context, p *Progress) (T, error)

// Runner executes work on worker goroutines and hands outcomes back through
// its Dispatcher. At most one task runs per slot.
type Runner struct {
	dispatch Dispatcher

	mu     sync.Mutex
	active map[string]*Handle
}

// NewRunner returns a Runner that delivers completions through d.
func NewRunner(d Dispatcher) *Runner {
	return &Runner{
		dispatch: d,
		active:   make(map[string]*Handle),
	}
}

// Busy reports whether slot has a task that has not delivered its outcome yet.
func (r *Runner) Busy(slot string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[slot]
	return ok
}

// Active returns the running handle for slot, or nil.
func (r *Runner) Active(slot string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[slot]
}

// CancelAll requests cancellation of every running task.
func (r *Runner) CancelAll() {
	r.mu.Lock()
	handles := make([]*Handle, 0, len(r.active))
	for _, h := range r.active {
		handles = append(handles, h)
	}
	r.mu.Unlock()
	for _, h := range handles {
		h.Cancel()
	}
}

func (r *Runner) acquire(slot string, h *Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, busy := r.active[slot]; busy {
		return ErrBusy
	}
	r.active[slot] = h
	return nil
}

func (r *Runner) release(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[h.slot] == h {
		delete(r.active, h.slot)
	}
}

// Option configures a single submission.
type Option func(*submitOptions)

type submitOptions struct {
	onProgress func(pct float64)
}

// WithProgress registers a handler for Progress.Report calls. The handler
// runs on the interactive goroutine and never after the task is stopped.
func WithProgress(fn func(pct float64)) Option {
	return func(o *submitOptions) { o.onProgress = fn }
}

// Submit starts work on its own goroutine and returns immediately with a
// Running handle. onDone is invoked exactly once through the runner's
// Dispatcher after work returns, fails, panics or is cancelled.
func Submit[T any](r *Runner, slot string, work Work[T], onDone func(Outcome[T]), opts ...Option) (*Handle, error) {
	var so submitOptions
	for _, opt := range opts {
		opt(&so)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{
		id:      uuid.NewString(),
		slot:    slot,
		started: time.Now(),
		cancel:  cancel,
	}
	h.state.Store(int32(Running))
	if err := r.acquire(slot, h); err != nil {
		cancel()
		return nil, err
	}

	p := &Progress{handle: h, dispatch: r.dispatch, fn: so.onProgress}
	slog.Debug("task submitted", "slot", slot, "task", h.id)

	go func() {
		value, err := runWork(ctx, work, p)
		cancel()
		r.dispatch.Dispatch(func() {
			r.release(h)
			out := Outcome[T]{Value: value, Err: err, Duration: time.Since(h.started)}
			switch {
			case h.Stopped():
				out.State = Cancelled
				out.Err = ErrCancelled
			case err != nil:
				out.State = Failed
			default:
				out.State = Completed
			}
			h.state.Store(int32(out.State))
			slog.Debug("task finished", "slot", slot, "task", h.id, "state", out.State.String(), "elapsed", out.Duration.String())
			if onDone != nil {
				onDone(out)
			}
		})
	}()
	return h, nil
}

func runWork[T any](ctx context.Context, work Work[T], p *Progress) (value T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panicked: %v", rec)
		}
	}()
	return work(ctx, p)
}

// Handle identifies one submitted task.
type Handle struct {
	id      string
	slot    string
	started time.Time
	state   atomic.Int32
	stop    atomic.Bool
	cancel  context.CancelFunc
}

func (h *Handle) ID() string   { return h.id }
func (h *Handle) Slot() string { return h.slot }

// State returns the current state; safe from any goroutine.
func (h *Handle) State() State { return State(h.state.Load()) }

// Cancel sets the stop flag and cancels the work context. Blocking calls
// already in progress are not interrupted.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.stop.Store(true)
	h.cancel()
}

// Stopped reports whether Cancel has been called.
func (h *Handle) Stopped() bool { return h.stop.Load() }

// Progress is handed to work for cooperative stop checks and progress reports.
type Progress struct {
	handle   *Handle
	dispatch Dispatcher
	fn       func(float64)
}

// Stopped reports whether the task was asked to stop.
func (p *Progress) Stopped() bool {
	return p != nil && p.handle.Stopped()
}

// Report posts pct to the progress handler unless the task was stopped.
func (p *Progress) Report(pct float64) {
	if p == nil || p.fn == nil || p.handle.Stopped() {
		return
	}
	p.dispatch.Dispatch(func() {
		if !p.handle.Stopped() {
			p.fn(pct)
		}
	})
}
