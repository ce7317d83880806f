// Package eventloop provides the single-threaded loops the notification
// manager mutates its state on.
package eventloop

import (
	"context"
	"sync"
)

// Inline runs work synchronously on the caller's goroutine and applies its
// effect immediately. It suits tests and one-shot commands where nothing
// else touches the manager concurrently.
type Inline struct {
	Ctx context.Context
}

func (l Inline) Go(work func(ctx context.Context) func()) {
	ctx := l.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if apply := work(ctx); apply != nil {
		apply()
	}
}

func (l Inline) Post(fn func()) { fn() }

// Queue is a FIFO of effects with a coalesced wake-up signal. Producers on
// any goroutine call Post or Go; a single consumer drains the queue either via
// Run or by waiting on Signal and calling Drain.
type Queue struct {
	ctx    context.Context
	wg     sync.WaitGroup
	mu     sync.Mutex
	fns    []func()
	signal chan struct{}
}

// NewQueue constructs a queue. ctx is handed to work started with Go.
func NewQueue(ctx context.Context) *Queue {
	return &Queue{
		ctx:    ctx,
		fns:    make([]func(), 0),
		signal: make(chan struct{}, 1),
	}
}

// Post appends fn and emits a non-blocking wake-up signal.
func (q *Queue) Post(fn func()) {
	if fn == nil {
		return
	}

	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Go runs work on a new goroutine and posts its effect when it completes.
func (q *Queue) Go(work func(ctx context.Context) func()) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.Post(work(q.ctx))
	}()
}

// Drain returns all queued effects in order and clears the queue.
func (q *Queue) Drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.fns) == 0 {
		return nil
	}

	out := make([]func(), len(q.fns))
	copy(out, q.fns)
	q.fns = q.fns[:0]
	return out
}

// Signal fires at least once after any Post. Multiple posts may coalesce
// into one signal.
func (q *Queue) Signal() <-chan struct{} {
	return q.signal
}

// RunPending applies every queued effect and reports how many ran.
func (q *Queue) RunPending() int {
	fns := q.Drain()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Run applies effects on the calling goroutine until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.signal:
			q.RunPending()
		}
	}
}

// Wait blocks until all work started with Go has produced its effect. The
// effects themselves may still be queued.
func (q *Queue) Wait() {
	q.wg.Wait()
}
