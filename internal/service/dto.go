package service

import (
	"fmt"

	"geonotes/internal/adapter/out/storage"
	"geonotes/internal/model"
	"geonotes/pkg/coords"
	"geonotes/pkg/pagination"
)

type CreatePostRequest struct {
	Content     string            `validate:"required"`
	Coordinates coords.Coordinate `validate:"-"`
	Kind        model.Kind        `validate:"omitempty,lowercase,alpha"`
}

func validatePagination(in pagination.PageRequest) error {
	beforeCursorProvided := in.BeforeCursor != nil && *in.BeforeCursor != ""
	afterCursorProvided := in.AfterCursor != nil && *in.AfterCursor != ""

	if beforeCursorProvided && afterCursorProvided {
		return fmt.Errorf("both cursors provided: %w", ErrInvalidRequest)
	}
	return nil
}

func toGetPostsParams(in pagination.PageRequest) (storage.GetPostsParams, error) {
	if err := validatePagination(in); err != nil {
		return storage.GetPostsParams{}, err
	}

	if in.Limit <= 0 {
		in.Limit = DefaultPostsLimit
	}
	in.Limit = min(in.Limit, MaxPostsLimit)

	before, err := pagination.Decode(in.BeforeCursor)
	if err != nil {
		return storage.GetPostsParams{}, fmt.Errorf("error decoding before-cursor: %w: %w", ErrInvalidRequest, err)
	}

	after, err := pagination.Decode(in.AfterCursor)
	if err != nil {
		return storage.GetPostsParams{}, fmt.Errorf("error decoding after-cursor: %w: %w", ErrInvalidRequest, err)
	}

	if before == nil && after == nil {
		return storage.GetPostsParams{}, fmt.Errorf("cursor is required: %w", ErrInvalidRequest)
	}

	var params storage.GetPostsParams
	params.Limit = in.Limit

	if before != nil {
		params.Cursor = *before
		params.Direction = storage.DirectionBefore
	} else {
		params.Cursor = *after
		params.Direction = storage.DirectionAfter
	}
	return params, nil
}
