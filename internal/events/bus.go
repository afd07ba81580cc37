// Package events carries identity-provider events to in-process
// consumers. Delivery is synchronous: Publish invokes every subscribed
// handler before returning, so the webhook endpoint can withhold its
// acknowledgment until all consumers have done their work and the
// provider redelivers on failure.
package events

import (
	"context"
	"sync"

	"stash/internal/domain/models"
)

// Handler consumes one UserCreatedEvent. Upstream delivery is
// at-least-once, so handlers must be duplicate-safe.
type Handler func(ctx context.Context, evt models.UserCreatedEvent) error

// Bus fans UserCreatedEvents out to all subscribed handlers.
type Bus struct {
	mu   sync.RWMutex
	subs []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for every subsequent Publish.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = append(b.subs, h)
}

// Publish delivers the event to every handler in subscription order and
// stops at the first failure. A returned error means the event was not
// fully processed and the caller must not acknowledge it upstream.
func (b *Bus) Publish(ctx context.Context, evt models.UserCreatedEvent) error {
	b.mu.RLock()
	subs := make([]Handler, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, h := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h(ctx, evt); err != nil {
			return err
		}
	}
	return nil
}
