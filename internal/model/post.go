package model

import (
	"time"

	"geonotes/pkg/coords"
)

// Kind tags a post variant. New kinds are plain values of this type.
type Kind string

const KindText Kind = "text"

type Post struct {
	ID          int64
	Content     string
	Coordinates coords.Coordinate
	Kind        Kind
	CreatedAt   time.Time
}
