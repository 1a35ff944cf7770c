// Package query coordinates user-driven asynchronous fetches: at most one
// pending debounce timer, at most one request whose result can be committed,
// and a loading/data/error state that a renderer can subscribe to.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rotaplan/internal/common/logger"
)

type Status int

const (
	Idle Status = iota
	Pending
	InFlight
	Succeeded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is what a renderer sees. Data and Err are never both set.
type State[Q, R any] struct {
	Status  Status
	Loading bool
	Data    R
	Err     error
	Query   Q
	// Seq identifies the trigger that produced this state.
	Seq uint64
}

type FetchFunc[Q, R any] func(ctx context.Context, q Q) (R, error)

type Config[Q any] struct {
	Name string
	// Debounce delays the fetch until input has been stable this long.
	// Zero fetches immediately.
	Debounce time.Duration
	// Gate rejects inputs that must never reach the network. A rejected
	// input clears the current data and error.
	Gate func(Q) bool
	// ClearOnStart drops the previous data when a fetch starts.
	ClearOnStart bool
	Logger       logger.Logger
}

type listener[Q, R any] struct {
	id int
	fn func(State[Q, R])
}

// Controller runs one query at a time. Every Trigger bumps a sequence
// number; a response only commits if its sequence is still the latest.
type Controller[Q, R any] struct {
	fetch  FetchFunc[Q, R]
	cfg    Config[Q]
	logger logger.Logger

	ctx  context.Context
	stop context.CancelFunc

	mu        sync.Mutex
	state     State[Q, R]
	seq       uint64
	task      *Task
	lastQuery Q
	hasLast   bool
	closed    bool

	listeners []listener[Q, R]
	nextID    int
	queue     []State[Q, R]
	kick      chan struct{}
}

// New creates a controller bound to ctx. Cancelling ctx has the same effect
// as Close.
func New[Q, R any](ctx context.Context, fetch FetchFunc[Q, R], cfg Config[Q]) *Controller[Q, R] {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Name != "" {
		log = log.With("controller", cfg.Name)
	}

	ctx, stop := context.WithCancel(ctx)
	c := &Controller[Q, R]{
		fetch:  fetch,
		cfg:    cfg,
		logger: log,
		ctx:    ctx,
		stop:   stop,
		kick:   make(chan struct{}, 1),
	}
	go c.dispatch()
	go func() {
		<-ctx.Done()
		c.Close()
	}()
	return c
}

// Trigger feeds a new input. Any pending timer or in-flight request from an
// earlier input is cancelled.
func (c *Controller[Q, R]) Trigger(q Q) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.seq++
	seq := c.seq
	c.cancelTaskLocked()

	if c.cfg.Gate != nil && !c.cfg.Gate(q) {
		var zero R
		var none Q
		// the rejected input replaces the last one, so Retry has nothing to re-run
		c.lastQuery, c.hasLast = none, false
		c.state = State[Q, R]{Status: Idle, Data: zero, Query: q, Seq: seq}
		c.publishLocked()
		c.mu.Unlock()
		c.logger.Debug("Input rejected by gate", "seq", seq)
		return
	}

	c.lastQuery, c.hasLast = q, true
	task := newTask(seq)
	c.task = task

	if c.cfg.Debounce > 0 {
		c.state.Status = Pending
		c.state.Loading = false
		c.state.Query = q
		c.state.Seq = seq
		c.publishLocked()
		task.arm(c.cfg.Debounce, func() { c.start(task, q) })
		c.mu.Unlock()
		c.logger.Debug("Debounce armed", "seq", seq, "delay", c.cfg.Debounce)
		return
	}

	c.mu.Unlock()
	c.start(task, q)
}

// Retry re-runs the last accepted input immediately. No-op if there is none.
func (c *Controller[Q, R]) Retry() {
	c.mu.Lock()
	if c.closed || !c.hasLast {
		c.mu.Unlock()
		return
	}

	c.seq++
	c.cancelTaskLocked()
	task := newTask(c.seq)
	c.task = task
	q := c.lastQuery
	c.mu.Unlock()

	c.logger.Debug("Retrying last query", "seq", task.Seq())
	c.start(task, q)
}

// Reset clears data and error. Loading is left as it is.
func (c *Controller[Q, R]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	var zero R
	c.state.Data = zero
	c.state.Err = nil
	if !c.state.Loading && c.state.Status != Pending {
		c.state.Status = Idle
	}
	c.publishLocked()
}

// Cancel abandons the pending timer or in-flight request, keeping the
// current data.
func (c *Controller[Q, R]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.seq++
	c.cancelTaskLocked()
	if c.state.Status == Pending || c.state.Status == InFlight {
		c.state.Status = Idle
	}
	c.state.Loading = false
	c.state.Seq = c.seq
	c.publishLocked()
}

// Close tears the controller down. Pending work is cancelled and no state
// change is published afterwards. Safe to call more than once.
func (c *Controller[Q, R]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.closed = true
	c.cancelTaskLocked()
	c.queue = nil
	c.stop()
	c.logger.Debug("Controller closed", "seq", c.seq)
}

// Snapshot returns the current state.
func (c *Controller[Q, R]) Snapshot() State[Q, R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn for every state change, delivered in commit order
// from a single goroutine. fn may call back into the controller.
func (c *Controller[Q, R]) Subscribe(fn func(State[Q, R])) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.listeners = append(c.listeners, listener[Q, R]{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, l := range c.listeners {
			if l.id == id {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

func (c *Controller[Q, R]) start(task *Task, q Q) {
	c.mu.Lock()
	if c.closed || task.Seq() != c.seq {
		c.mu.Unlock()
		return
	}
	ctx, ok := task.bind(c.ctx)
	if !ok {
		c.mu.Unlock()
		return
	}

	c.state.Status = InFlight
	c.state.Loading = true
	c.state.Err = nil
	c.state.Query = q
	c.state.Seq = task.Seq()
	if c.cfg.ClearOnStart {
		var zero R
		c.state.Data = zero
	}
	c.publishLocked()
	c.mu.Unlock()

	c.logger.Debug("Fetch started", "seq", task.Seq())
	go c.run(ctx, task, q)
}

func (c *Controller[Q, R]) run(ctx context.Context, task *Task, q Q) {
	data, err := c.fetch(ctx, q)
	task.release()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || task.Seq() != c.seq {
		c.logger.Debug("Discarding stale response", "seq", task.Seq(), "current_seq", c.seq)
		return
	}

	c.state.Loading = false
	if err != nil {
		var zero R
		c.state.Data = zero
		c.state.Err = err
		c.state.Status = Failed
		c.logger.Warn("Fetch failed", "seq", task.Seq(), "error", err)
	} else {
		c.state.Data = data
		c.state.Err = nil
		c.state.Status = Succeeded
		c.logger.Debug("Fetch succeeded", "seq", task.Seq())
	}
	c.publishLocked()
}

func (c *Controller[Q, R]) cancelTaskLocked() {
	if c.task != nil {
		c.task.Cancel()
		c.task = nil
	}
}

func (c *Controller[Q, R]) publishLocked() {
	if len(c.listeners) == 0 {
		return
	}
	c.queue = append(c.queue, c.state)
	select {
	case c.kick <- struct{}{}:
	default:
	}
}

func (c *Controller[Q, R]) dispatch() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-c.kick:
		}

		for {
			c.mu.Lock()
			if c.closed || len(c.queue) == 0 {
				c.mu.Unlock()
				break
			}
			batch := c.queue
			c.queue = nil
			ls := append([]listener[Q, R](nil), c.listeners...)
			c.mu.Unlock()

			for _, st := range batch {
				for _, l := range ls {
					l.fn(st)
				}
			}
		}
	}
}
