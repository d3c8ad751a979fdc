package controller

import (
	"context"
	"sync"
)

// State is a step of the request lifecycle.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// TransitionFunc observes state changes. It runs synchronously on the
// goroutine that performs the transition.
type TransitionFunc func(from, to State)

// Task is one submitted evaluation attempt.
type Task struct {
	id     string
	done   chan struct{}
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func newTask(id string, cancel context.CancelFunc) *Task {
	return &Task{id: id, done: make(chan struct{}), cancel: cancel}
}

// ID is the attempt ID sent to the backend as X-Request-ID.
func (t *Task) ID() string { return t.id }

// Done is closed once the attempt has returned to Idle.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel aborts the network call. The attempt ends in the Error state.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the attempt finishes and returns its error.
func (t *Task) Wait() error {
	<-t.done
	return t.Err()
}

// Err returns the attempt error, or nil while the attempt is running.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Task) finish(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
	t.cancel()
	close(t.done)
}
