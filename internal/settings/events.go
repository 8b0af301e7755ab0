package settings

import (
	"context"
	"sync"
)

// changeBroadcaster fans change events out to subscribers. Slow subscribers
// miss events rather than block writers.
type changeBroadcaster struct {
	mu       sync.Mutex
	watchers map[uint64]chan ChangeEvent
	nextID   uint64
}

func newChangeBroadcaster() *changeBroadcaster {
	return &changeBroadcaster{
		watchers: make(map[uint64]chan ChangeEvent),
	}
}

func (b *changeBroadcaster) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ch := make(chan ChangeEvent, 4)
	if ctx.Err() != nil {
		close(ch)
		return ch, nil
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.watchers[id] = ch
	b.mu.Unlock()

	context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if watcher, ok := b.watchers[id]; ok {
			delete(b.watchers, id)
			close(watcher)
		}
	})

	return ch, nil
}

func (b *changeBroadcaster) Broadcast(evt ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.watchers {
		select {
		case ch <- evt:
		default:
		}
	}
}
