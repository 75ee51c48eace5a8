// Package geolocation obtains the device position for new posts.
package geolocation

import (
	"context"
	"errors"

	"geonotes/pkg/coords"
)

var (
	ErrUnsupported = errors.New("geolocation is not supported")
	ErrTimeout     = errors.New("geolocation timed out")
	ErrNoFix       = errors.New("no position fix")
)

type Locator interface {
	Locate(ctx context.Context) (coords.Coordinate, error)
}

// Static always reports the same position.
type Static struct {
	Position coords.Coordinate
}

func (s Static) Locate(ctx context.Context) (coords.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return coords.Coordinate{}, err
	}
	return s.Position, nil
}

// Unavailable is used when the device has no position source, so every post
// falls back to manual coordinates.
type Unavailable struct{}

func (Unavailable) Locate(context.Context) (coords.Coordinate, error) {
	return coords.Coordinate{}, ErrUnsupported
}
