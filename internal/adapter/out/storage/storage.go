package storage

import (
	"errors"

	"geonotes/pkg/pagination"
)

type Direction int

const (
	DirectionUnspecified Direction = iota
	// DirectionAfter walks towards older posts.
	DirectionAfter
	// DirectionBefore walks towards newer posts.
	DirectionBefore
)

var (
	ErrDirectionUnset = errors.New("direction must be set")
)

type GetPostsParams struct {
	Cursor    pagination.Cursor
	Direction Direction
	Limit     int
}
