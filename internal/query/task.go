package query

import (
	"context"
	"sync"
	"time"
)

// Task is the cancellable handle for one query cycle: the debounce timer
// while Pending, the request context while InFlight.
type Task struct {
	seq uint64

	mu     sync.Mutex
	timer  *time.Timer
	cancel context.CancelFunc
	done   bool
}

func newTask(seq uint64) *Task {
	return &Task{seq: seq}
}

// Seq is the sequence number the task was created for.
func (t *Task) Seq() uint64 {
	return t.seq
}

// Cancel stops the timer and aborts the request. Safe to call repeatedly.
func (t *Task) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}
	t.done = true
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.cancel != nil {
		t.cancel()
	}
}

// Cancelled reports whether Cancel has been called.
func (t *Task) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *Task) arm(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.timer = time.AfterFunc(d, fn)
}

// bind derives the request context. It returns false if the task was
// cancelled before the request could start.
func (t *Task) bind(parent context.Context) (context.Context, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil, false
	}
	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	return ctx, true
}

// release frees the request context once the fetch has returned.
func (t *Task) release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		t.cancel()
	}
	t.done = true
}
