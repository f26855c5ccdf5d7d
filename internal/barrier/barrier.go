// Package barrier implements a reusable rendezvous barrier for a fixed set of
// participants. It is the synchronization point between walk rounds: all
// workers and the coordinator block until every participant has arrived, then
// the barrier resets for the next cycle.
package barrier

import (
	"context"
	"sync"
)

// Barrier is a cyclic barrier for n participants. The zero value is not
// usable; construct with New.
type Barrier struct {
	mu      sync.Mutex
	n       int
	arrived int
	release chan struct{}
}

// New creates a barrier for n participants. n must be > 0.
func New(n int) *Barrier {
	if n <= 0 {
		panic("barrier: participant count must be positive")
	}
	return &Barrier{n: n, release: make(chan struct{})}
}

// Wait blocks until all n participants have called Wait for the current
// cycle, or until ctx is done. The last arrival releases the others and the
// barrier resets. After a context error the barrier is no longer coherent for
// the remaining participants; callers are expected to shut down.
func (b *Barrier) Wait(ctx context.Context) error {
	b.mu.Lock()
	release := b.release
	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		b.release = make(chan struct{})
		close(release)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
