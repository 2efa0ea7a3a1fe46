package monitor

import "sync"

// Channel is a bounded queue with a single receiver and any number of
// concurrent senders. Sends never wait: they succeed, or report the queue
// as full or closed.
type Channel[T any] struct {
	mu     sync.RWMutex
	ch     chan T
	closed bool
}

// NewChannel creates a channel holding at most capacity items. A capacity
// below one is raised to one.
func NewChannel[T any](capacity int) *Channel[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Channel[T]{ch: make(chan T, capacity)}
}

// TrySend enqueues v without blocking. It returns ErrChannelFull or
// ErrChannelClosed when v was not enqueued.
func (c *Channel[T]) TrySend(v T) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrChannelClosed
	}
	select {
	case c.ch <- v:
		return nil
	default:
		return ErrChannelFull
	}
}

// C is the receiving side. It is closed by Close after which buffered items
// can still be drained.
func (c *Channel[T]) C() <-chan T {
	return c.ch
}

// Close shuts the receiving side down. Subsequent sends fail with
// ErrChannelClosed. Close is idempotent.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.ch)
}

func (c *Channel[T]) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Channel[T]) Len() int {
	return len(c.ch)
}

func (c *Channel[T]) Cap() int {
	return cap(c.ch)
}
