package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// dispatchMsg carries a task callback into the Update loop.
type dispatchMsg struct{ fn func() }

// Dispatcher implements task.Dispatcher by sending callbacks to a
// running program. Callbacks dispatched before Attach are held until
// a program is attached.
type Dispatcher struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	pending []func()
}

func NewDispatcher() *Dispatcher { return &Dispatcher{} }

// Attach starts delivering callbacks to p.
func (d *Dispatcher) Attach(p *tea.Program) {
	d.attach(p.Send)
}

func (d *Dispatcher) attach(send func(tea.Msg)) {
	d.mu.Lock()
	d.send = send
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()
	if len(pending) == 0 {
		return
	}
	// Send blocks until the program is running.
	go func() {
		for _, fn := range pending {
			send(dispatchMsg{fn: fn})
		}
	}()
}

func (d *Dispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	send := d.send
	if send == nil {
		d.pending = append(d.pending, fn)
	}
	d.mu.Unlock()
	if send != nil {
		send(dispatchMsg{fn: fn})
	}
}
