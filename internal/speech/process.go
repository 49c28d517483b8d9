package speech

import (
	"errors"
	"os"
	"os/exec"
	"sync"
)

// tracked runs one external process at a time and lets another goroutine
// kill it. A halt also cancels a process that has not started yet.
type tracked struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	halted bool
}

// reset clears a previous halt; call it when a new utterance begins.
func (t *tracked) reset() {
	t.mu.Lock()
	t.halted = false
	t.mu.Unlock()
}

// run starts cmd and waits for it. halted reports whether kill was
// called, in which case a non-zero exit is expected.
func (t *tracked) run(cmd *exec.Cmd) (halted bool, err error) {
	t.mu.Lock()
	if t.halted {
		t.mu.Unlock()
		return true, nil
	}
	if err := cmd.Start(); err != nil {
		t.mu.Unlock()
		return false, err
	}
	t.cmd = cmd
	t.mu.Unlock()

	err = cmd.Wait()

	t.mu.Lock()
	halted = t.halted
	t.cmd = nil
	t.mu.Unlock()
	return halted, err
}

func (t *tracked) isHalted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.halted
}

// kill halts the running process, if any.
func (t *tracked) kill() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.halted = true
	if t.cmd == nil || t.cmd.Process == nil {
		return nil
	}
	if err := t.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
