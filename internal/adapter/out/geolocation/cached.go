package geolocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"geonotes/pkg/coords"
)

const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaximumAge = time.Minute
)

// Cached bounds every lookup by a timeout and reuses a fix younger than
// maximumAge. Failed lookups are not remembered.
type Cached struct {
	next       Locator
	timeout    time.Duration
	maximumAge time.Duration
	now        func() time.Time

	mu    sync.Mutex
	last  coords.Coordinate
	fixAt time.Time
}

func NewCached(next Locator, timeout, maximumAge time.Duration) *Cached {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Cached{
		next:       next,
		timeout:    timeout,
		maximumAge: maximumAge,
		now:        time.Now,
	}
}

func (c *Cached) Locate(ctx context.Context) (coords.Coordinate, error) {
	if pos, ok := c.fresh(); ok {
		return pos, nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	type result struct {
		pos coords.Coordinate
		err error
	}
	done := make(chan result, 1)
	go func() {
		pos, err := c.next.Locate(lookupCtx)
		done <- result{pos: pos, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if lookupCtx.Err() != nil && ctx.Err() == nil {
				return coords.Coordinate{}, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
			}
			return coords.Coordinate{}, r.err
		}
		c.remember(r.pos)
		return r.pos, nil

	case <-lookupCtx.Done():
		if ctx.Err() != nil {
			return coords.Coordinate{}, ctx.Err()
		}
		return coords.Coordinate{}, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
	}
}

func (c *Cached) fresh() (coords.Coordinate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fixAt.IsZero() || c.maximumAge <= 0 {
		return coords.Coordinate{}, false
	}
	if c.now().Sub(c.fixAt) > c.maximumAge {
		return coords.Coordinate{}, false
	}
	return c.last, true
}

func (c *Cached) remember(pos coords.Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.last = pos
	c.fixAt = c.now()
}
