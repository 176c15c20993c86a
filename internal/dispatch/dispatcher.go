package dispatch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// HandlerFunc executes one task. Errors are logged by the worker and
// never reach the code that enqueued the task.
type HandlerFunc func(ctx context.Context, payload interface{}) error

type task struct {
	name    string
	payload interface{}
}

// Dispatcher is a small in-process task queue: tasks are enqueued by
// name and executed by worker goroutines independently of the
// request/response cycle. Enqueue never blocks the caller; a failed
// handler is retried once before the task is dropped, so execution is
// at-least-once on a best-effort queue.
type Dispatcher struct {
	log      *zap.Logger
	workers  int
	queue    chan task
	handlers map[string]HandlerFunc
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

func New(log *zap.Logger, queueSize, workers int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	if workers <= 0 {
		workers = 2
	}
	return &Dispatcher{
		log:      log,
		workers:  workers,
		queue:    make(chan task, queueSize),
		handlers: make(map[string]HandlerFunc),
	}
}

// Register binds a handler to a task name. Tasks enqueued under an
// unregistered name are dropped with a log entry.
func (d *Dispatcher) Register(name string, h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// Enqueue hands a task to the workers without blocking. When the queue
// is full the task is dropped and logged; delivery is best effort.
func (d *Dispatcher) Enqueue(name string, payload interface{}) {
	select {
	case d.queue <- task{name: name, payload: payload}:
	default:
		d.log.Warn("task queue full, dropping task", zap.String("task", name))
	}
}

func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Stop closes the queue and waits for the workers to drain it, bounded
// by the context deadline.
func (d *Dispatcher) Stop(ctx context.Context) error {
	close(d.queue)

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for t := range d.queue {
		d.run(t)
	}
}

func (d *Dispatcher) run(t task) {
	d.mu.RLock()
	h, ok := d.handlers[t.name]
	d.mu.RUnlock()

	if !ok {
		d.log.Error("no handler registered for task", zap.String("task", t.name))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("task panicked", zap.String("task", t.name), zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h(ctx, t.payload); err != nil {
		d.log.Warn("task failed, retrying once", zap.String("task", t.name), zap.Error(err))
		if err := h(ctx, t.payload); err != nil {
			d.log.Error("task failed after retry", zap.String("task", t.name), zap.Error(err))
		}
	}
}
