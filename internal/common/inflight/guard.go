// internal/common/inflight/guard.go
package inflight

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrBusy is returned by Acquire while another attempt holds the slot.
var ErrBusy = errors.New("REQUEST_IN_FLIGHT")

// ReleaseFunc gives the slot back. It is safe to call more than once.
type ReleaseFunc func(ctx context.Context) error

// Guard admits at most one attempt at a time.
type Guard interface {
	Acquire(ctx context.Context, attemptID string) (ReleaseFunc, error)
}

// LocalGuard is an in-process single slot.
type LocalGuard struct {
	mu     sync.Mutex
	holder string
	held   bool
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{}
}

func (g *LocalGuard) Acquire(_ context.Context, attemptID string) (ReleaseFunc, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held {
		return nil, fmt.Errorf("%w: held by %s", ErrBusy, g.holder)
	}
	g.held = true
	g.holder = attemptID

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if g.holder == attemptID {
				g.held = false
				g.holder = ""
			}
		})
		return nil
	}, nil
}

// Holder returns the attempt currently holding the slot.
func (g *LocalGuard) Holder() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.holder, g.held
}
