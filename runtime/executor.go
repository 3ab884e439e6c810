package runtime

import "sync"

// Executor runs the synchronous segments of gateway handlers one at a time.
// A segment is the code between two directory store calls: it may read and
// mutate the live indices and emit events, but must never block on I/O nor
// call Run again.
type Executor struct {
	mu sync.Mutex
}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Run(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}
