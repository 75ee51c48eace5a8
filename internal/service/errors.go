package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrInternalError  = errors.New("internal error")
	ErrEmptyContent   = errors.New("post content must not be empty")
)

// ContentError lists every text rule a post body failed.
type ContentError struct {
	Problems []string
}

func (e *ContentError) Error() string {
	return "invalid content: " + strings.Join(e.Problems, "; ")
}

func (e *ContentError) Unwrap() error { return ErrInvalidRequest }
