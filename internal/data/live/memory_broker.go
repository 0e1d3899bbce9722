package live

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryBroker delivers notifications inside one process.
type MemoryBroker struct {
	mu     sync.Mutex
	ch     chan uuid.UUID
	done   chan struct{}
	closed bool
}

func NewMemoryBroker(buffer int) *MemoryBroker {
	if buffer <= 0 {
		buffer = 64
	}
	return &MemoryBroker{
		ch:   make(chan uuid.UUID, buffer),
		done: make(chan struct{}),
	}
}

func (b *MemoryBroker) Publish(ctx context.Context, movieID uuid.UUID) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrBrokerClosed
	}

	select {
	case b.ch <- movieID:
		return nil
	case <-b.done:
		return ErrBrokerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryBroker) Listen(ctx context.Context, handle func(movieID uuid.UUID)) error {
	for {
		select {
		case id := <-b.ch:
			handle(id)
		case <-b.done:
			return ErrBrokerClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.done)
	}
	return nil
}
