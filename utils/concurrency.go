package utils

import (
	"context"
	"sync/atomic"
)

// Gate caps the number of imports running at the same time. Each import
// runs its own pipeline; the gate only bounds how many do so concurrently.
type Gate struct {
	semaphore chan struct{}
	active    atomic.Int64
}

// NewGate creates a Gate admitting at most max holders. max < 1 is treated as 1.
func NewGate(max int) *Gate {
	if max < 1 {
		max = 1
	}
	return &Gate{semaphore: make(chan struct{}, max)}
}

// Acquire blocks until a slot is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.semaphore <- struct{}{}:
		g.active.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire takes a slot only if one is free right now.
func (g *Gate) TryAcquire() bool {
	select {
	case g.semaphore <- struct{}{}:
		g.active.Add(1)
		return true
	default:
		return false
	}
}

// Release frees a slot taken by Acquire or TryAcquire.
func (g *Gate) Release() {
	g.active.Add(-1)
	<-g.semaphore
}

// Active returns the number of slots currently held.
func (g *Gate) Active() int {
	return int(g.active.Load())
}

// Capacity returns the maximum number of concurrent holders.
func (g *Gate) Capacity() int {
	return cap(g.semaphore)
}
