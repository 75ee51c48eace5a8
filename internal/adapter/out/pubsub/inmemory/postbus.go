package inmemory

import (
	"context"
	"sync"

	"geonotes/internal/model"
	"geonotes/internal/service"
)

const DefaultBuffer = 64

var _ service.PostBus = (*PostBus)(nil)

// PostBus fans new posts out to every live subscriber.
type PostBus struct {
	mu   sync.RWMutex
	subs map[chan model.Post]struct{}
	buf  int
}

func New(buf int) *PostBus {
	if buf <= 0 {
		buf = DefaultBuffer
	}
	return &PostBus{
		subs: make(map[chan model.Post]struct{}),
		buf:  buf,
	}
}

// Subscribe returns a channel that is closed once ctx is done.
func (b *PostBus) Subscribe(ctx context.Context) (<-chan model.Post, error) {
	ch := make(chan model.Post, b.buf)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}

// Publish never blocks; a subscriber with a full buffer misses the post.
func (b *PostBus) Publish(_ context.Context, p model.Post) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- p:
		default:
		}
	}
	return nil
}

func (b *PostBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
