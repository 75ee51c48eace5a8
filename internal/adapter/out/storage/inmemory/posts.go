package inmemory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"geonotes/internal/adapter/out/storage"
	"geonotes/internal/model"
	"geonotes/internal/service"
)

// PostStorage keeps posts newest-first. Ids come from a counter that is never
// reset, so a larger id always means a later post.
type PostStorage struct {
	mu     sync.RWMutex
	posts  []model.Post
	lastID int64
	now    func() time.Time
}

func NewPostStorage() *PostStorage {
	return &PostStorage{now: time.Now}
}

func (s *PostStorage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return model.Post{}, service.ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++
	p := model.Post{
		ID:          s.lastID,
		Content:     content,
		Coordinates: in.Coordinates,
		Kind:        in.Kind,
		CreatedAt:   s.now(),
	}
	if p.Kind == "" {
		p.Kind = model.KindText
	}
	s.posts = slices.Insert(s.posts, 0, p)
	return p, nil
}

func (s *PostStorage) ListPosts(_ context.Context) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.posts), nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.indexOf(postID); ok {
		return s.posts[i], nil
	}
	return model.Post{}, service.ErrNotFound
}

func (s *PostStorage) GetPosts(_ context.Context, limit int) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.posts) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = service.DefaultPostsLimit
	}
	return slices.Clone(s.posts[:min(limit, len(s.posts))]), nil
}

func (s *PostStorage) GetPostsWithCursor(_ context.Context, params storage.GetPostsParams) ([]model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = service.DefaultPostsLimit
	}

	// first index whose post is not newer than the cursor
	older, _ := slices.BinarySearchFunc(s.posts, params.Cursor.ID, byIDDesc)

	switch params.Direction {
	case storage.DirectionAfter:
		if older < len(s.posts) && s.posts[older].ID == params.Cursor.ID {
			older++
		}
		end := min(older+limit, len(s.posts))
		return slices.Clone(s.posts[older:end]), nil

	case storage.DirectionBefore:
		start := max(older-limit, 0)
		return slices.Clone(s.posts[start:older]), nil

	default:
		return nil, storage.ErrDirectionUnset
	}
}

func (s *PostStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = nil
	return nil
}

// indexOf relies on posts being sorted by descending id.
func (s *PostStorage) indexOf(postID int64) (int, bool) {
	return slices.BinarySearchFunc(s.posts, postID, byIDDesc)
}

func byIDDesc(p model.Post, id int64) int { return cmp.Compare(id, p.ID) }
