package service

import (
	"context"
	"fmt"

	"geonotes/internal/adapter/out/storage"
	"geonotes/internal/model"
	"geonotes/pkg/logger"
	"geonotes/pkg/pagination"
)

const (
	DefaultPostsLimit = 50
	MaxPostsLimit     = 250
)

//go:generate mockgen -source=posts.go -destination=./post_storage_mock.go -package=service
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPosts(ctx context.Context, limit int) ([]model.Post, error)
	GetPostsWithCursor(ctx context.Context, params storage.GetPostsParams) ([]model.Post, error)
	Clear(ctx context.Context) error
}

type PostBus interface {
	Subscribe(ctx context.Context) (<-chan model.Post, error)
	Publish(ctx context.Context, p model.Post) error
}

type PostService struct {
	postStorage PostStorage
	bus         PostBus
}

func NewPostService(postStorage PostStorage, bus PostBus) *PostService {
	return &PostService{
		postStorage: postStorage,
		bus:         bus,
	}
}

func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	content, err := ValidateContent(req.Content)
	if err != nil {
		return model.Post{}, err
	}
	req.Content = content
	if err := validate.Struct(req); err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	kind := req.Kind
	if kind == "" {
		kind = model.KindText
	}

	p, err := s.postStorage.CreatePost(ctx, model.Post{
		Content:     req.Content,
		Coordinates: req.Coordinates,
		Kind:        kind,
	})
	if err != nil {
		return model.Post{}, err
	}

	if err := s.bus.Publish(ctx, p); err != nil {
		logger.FromContext(ctx).Warn("publish post", "post_id", p.ID, "error", err)
	}
	return p, nil
}

func (s *PostService) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	p, err := s.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	return p, nil
}

// ListPosts returns every post, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	return s.postStorage.ListPosts(ctx)
}

func (s *PostService) GetPosts(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Post], error) {
	var (
		posts []model.Post
		err   error
		page  pagination.Page[model.Post]
	)

	if err := validatePagination(in); err != nil {
		return page, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultPostsLimit
	}
	if limit > MaxPostsLimit {
		limit = MaxPostsLimit
	}
	peek := limit + 1

	afterProvided := in.AfterCursor != nil && *in.AfterCursor != ""
	beforeProvided := in.BeforeCursor != nil && *in.BeforeCursor != ""

	switch {
	case !afterProvided && !beforeProvided:
		posts, err = s.postStorage.GetPosts(ctx, peek)
		if err != nil {
			return page, err
		}

	default:
		params, err := toGetPostsParams(in)
		if err != nil {
			return page, err
		}
		params.Limit = peek
		posts, err = s.postStorage.GetPostsWithCursor(ctx, params)
		if err != nil {
			return page, err
		}
	}

	if len(posts) == 0 {
		page.HasPreviousPage = afterProvided
		page.HasNextPage = beforeProvided
		return page, nil
	}

	// the peek item sits on the side we walk towards
	if beforeProvided {
		page.HasNextPage = true
		if len(posts) > limit {
			page.HasPreviousPage = true
			posts = posts[len(posts)-limit:]
		}
	} else {
		page.HasPreviousPage = afterProvided
		if len(posts) > limit {
			page.HasNextPage = true
			posts = posts[:limit]
		}
	}

	page.Items = posts
	page.Count = len(posts)

	startCursor := pagination.Cursor{
		CreatedAt: posts[0].CreatedAt,
		ID:        posts[0].ID,
	}
	endCursor := pagination.Cursor{
		CreatedAt: posts[len(posts)-1].CreatedAt,
		ID:        posts[len(posts)-1].ID,
	}

	page.StartCursor, page.EndCursor = startCursor.Encode(), endCursor.Encode()
	return page, nil
}

func (s *PostService) ClearPosts(ctx context.Context) error {
	return s.postStorage.Clear(ctx)
}

// Listen streams posts created after the call until ctx is done.
func (s *PostService) Listen(ctx context.Context) (<-chan model.Post, error) {
	return s.bus.Subscribe(ctx)
}
