package pipeline

import "context"

// Dispatcher runs functions on the goroutine that owns the UI.
type Dispatcher interface {
	Do(f func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(f func())

// Do calls d(f).
func (d DispatcherFunc) Do(f func()) { d(f) }

// Loop is a single-goroutine event loop. Functions passed to Do run one at a
// time, in submission order, on the goroutine that called Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop whose queue holds up to buffer pending functions.
func NewLoop(buffer int) *Loop {
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Do queues f. It blocks while the queue is full and drops f once Run has
// returned.
func (l *Loop) Do(f func()) {
	select {
	case l.tasks <- f:
	case <-l.done:
	}
}

// Run executes queued functions until ctx is done. It must be called at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case f := <-l.tasks:
			f()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Flush blocks until every function queued before the call has run, or the
// loop has stopped.
func (l *Loop) Flush() {
	flushed := make(chan struct{})
	l.Do(func() { close(flushed) })
	select {
	case <-flushed:
	case <-l.done:
	}
}
