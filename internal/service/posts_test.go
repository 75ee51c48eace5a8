package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"geonotes/internal/adapter/out/storage"
	"geonotes/internal/model"
	"geonotes/pkg/coords"
	"geonotes/pkg/pagination"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	now := time.Now()
	london, err := coords.New(51.50851, -0.12572)
	require.NoError(t, err)

	stored := model.Post{ID: 10, Content: "hello world", Coordinates: london, Kind: model.KindText, CreatedAt: now}

	tests := []struct {
		name    string
		req     CreatePostRequest
		setup   func(m *MockPostStorage, b *MockPostBus)
		wantErr error
	}{
		{
			name:    "empty content",
			req:     CreatePostRequest{Content: "   "},
			setup:   func(_ *MockPostStorage, _ *MockPostBus) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "content without letters",
			req:     CreatePostRequest{Content: "?!", Coordinates: london},
			setup:   func(_ *MockPostStorage, _ *MockPostBus) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "malformed kind",
			req:     CreatePostRequest{Content: "hello world", Coordinates: london, Kind: "Text!"},
			setup:   func(_ *MockPostStorage, _ *MockPostBus) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "storage error",
			req:  CreatePostRequest{Content: "hello world", Coordinates: london},
			setup: func(m *MockPostStorage, _ *MockPostBus) {
				m.EXPECT().
					CreatePost(gomock.Any(), model.Post{Content: "hello world", Coordinates: london, Kind: model.KindText}).
					Return(model.Post{}, errors.New("store fail"))
			},
			wantErr: errors.New("store fail"),
		},
		{
			name: "success sanitizes and publishes",
			req:  CreatePostRequest{Content: "  hello \n\n world  ", Coordinates: london},
			setup: func(m *MockPostStorage, b *MockPostBus) {
				m.EXPECT().
					CreatePost(gomock.Any(), model.Post{Content: "hello world", Coordinates: london, Kind: model.KindText}).
					Return(stored, nil)
				b.EXPECT().Publish(gomock.Any(), stored).Return(nil)
			},
		},
		{
			name: "publish error is not fatal",
			req:  CreatePostRequest{Content: "hello world", Coordinates: london, Kind: model.KindText},
			setup: func(m *MockPostStorage, b *MockPostBus) {
				m.EXPECT().
					CreatePost(gomock.Any(), model.Post{Content: "hello world", Coordinates: london, Kind: model.KindText}).
					Return(stored, nil)
				b.EXPECT().Publish(gomock.Any(), stored).Return(errors.New("bus closed"))
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockPostStorage(ctrl)
			b := NewMockPostBus(ctrl)
			tt.setup(m, b)

			svc := NewPostService(m, b)
			got, err := svc.CreatePost(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidRequest) {
					require.ErrorIs(t, err, ErrInvalidRequest)
				} else {
					require.EqualError(t, err, tt.wantErr.Error())
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, stored, got)
			require.WithinDuration(t, now, got.CreatedAt, time.Second)
		})
	}
}

func TestPostService_CreatePost_ContentProblems(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	svc := NewPostService(NewMockPostStorage(ctrl), NewMockPostBus(ctrl))

	_, err := svc.CreatePost(context.Background(), CreatePostRequest{Content: "!"})

	var ce *ContentError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, []string{
		"text must contain at least 2 characters",
		"text must contain letters or digits",
	}, ce.Problems)
}

func TestPostService_GetPostByID(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		postID  int64
		setup   func(m *MockPostStorage)
		wantErr error
	}{
		{
			name:    "invalid id",
			postID:  0,
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:   "not found",
			postID: 123,
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					GetPostByID(gomock.Any(), int64(123)).
					Return(model.Post{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "success",
			postID: 5,
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					GetPostByID(gomock.Any(), int64(5)).
					Return(model.Post{ID: 5, Content: "a", Kind: model.KindText, CreatedAt: now}, nil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockPostStorage(ctrl)
			tt.setup(m)

			svc := NewPostService(m, NewMockPostBus(ctrl))
			got, err := svc.GetPostByID(context.Background(), tt.postID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.postID, got.ID)
			require.WithinDuration(t, now, got.CreatedAt, time.Second)
		})
	}
}

func TestPostService_GetPosts_NoCursors(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name          string
		req           pagination.PageRequest
		mockPosts     []model.Post
		expectHasNext bool
		expectCount   int
	}{
		{
			name: "has next page (peek item present)",
			req:  pagination.PageRequest{Limit: 2},
			mockPosts: []model.Post{
				{ID: 30, CreatedAt: now},
				{ID: 20, CreatedAt: now.Add(-time.Minute)},
				{ID: 10, CreatedAt: now.Add(-2 * time.Minute)},
			},
			expectHasNext: true,
			expectCount:   2,
		},
		{
			name: "no next page (exact <= limit)",
			req:  pagination.PageRequest{Limit: 3},
			mockPosts: []model.Post{
				{ID: 3, CreatedAt: now},
				{ID: 2, CreatedAt: now.Add(-time.Minute)},
			},
			expectHasNext: false,
			expectCount:   2,
		},
		{
			name:          "default limit",
			req:           pagination.PageRequest{},
			mockPosts:     []model.Post{{ID: 1, CreatedAt: now}},
			expectHasNext: false,
			expectCount:   1,
		},
		{
			name:          "limit is capped",
			req:           pagination.PageRequest{Limit: 10_000},
			mockPosts:     nil,
			expectHasNext: false,
			expectCount:   0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockPostStorage(ctrl)

			peek := tt.req.Limit + 1
			if tt.req.Limit <= 0 {
				peek = DefaultPostsLimit + 1
			}
			if tt.req.Limit > MaxPostsLimit {
				peek = MaxPostsLimit + 1
			}

			m.EXPECT().
				GetPosts(gomock.Any(), peek).
				Return(tt.mockPosts, nil)

			svc := NewPostService(m, NewMockPostBus(ctrl))
			page, err := svc.GetPosts(context.Background(), tt.req)
			require.NoError(t, err)
			require.Equal(t, tt.expectHasNext, page.HasNextPage)
			require.False(t, page.HasPreviousPage)
			require.Equal(t, tt.expectCount, page.Count)

			if page.Count > 0 {
				start := pagination.Cursor{CreatedAt: tt.mockPosts[0].CreatedAt, ID: tt.mockPosts[0].ID}
				end := pagination.Cursor{CreatedAt: tt.mockPosts[tt.expectCount-1].CreatedAt, ID: tt.mockPosts[tt.expectCount-1].ID}
				require.Equal(t, start.Encode(), page.StartCursor)
				require.Equal(t, end.Encode(), page.EndCursor)
			} else {
				require.Nil(t, page.StartCursor)
				require.Nil(t, page.EndCursor)
			}
		})
	}
}

func TestPostService_GetPosts_WithCursor(t *testing.T) {
	t.Parallel()

	now := time.Now()

	type capParams struct {
		got storage.GetPostsParams
	}

	tests := []struct {
		name        string
		req         pagination.PageRequest
		expectDir   storage.Direction
		expectCount int
		expectFirst int64
		expectPrev  bool
	}{
		{
			name: "after cursor",
			req: func() pagination.PageRequest {
				cur := pagination.Cursor{ID: 100, CreatedAt: now}
				return pagination.PageRequest{Limit: 2, AfterCursor: cur.Encode()}
			}(),
			expectDir:   storage.DirectionAfter,
			expectCount: 2,
			expectFirst: 1000,
			expectPrev:  true,
		},
		{
			name: "before cursor drops the newest peek item",
			req: func() pagination.PageRequest {
				cur := pagination.Cursor{ID: 50, CreatedAt: now.Add(-time.Hour)}
				return pagination.PageRequest{Limit: 3, BeforeCursor: cur.Encode()}
			}(),
			expectDir:   storage.DirectionBefore,
			expectCount: 3,
			expectFirst: 999,
			expectPrev:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			m := NewMockPostStorage(ctrl)
			cap := &capParams{}

			peek := tt.req.Limit + 1
			ret := make([]model.Post, 0, peek)
			for i := 0; i < peek; i++ {
				ret = append(ret, model.Post{
					ID:        int64(1000 - i),
					CreatedAt: now.Add(-time.Duration(i) * time.Minute),
					Content:   "x",
					Kind:      model.KindText,
				})
			}
			m.EXPECT().GetPostsWithCursor(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, p storage.GetPostsParams) ([]model.Post, error) {
					cap.got = p
					return ret, nil
				})

			svc := NewPostService(m, NewMockPostBus(ctrl))
			page, err := svc.GetPosts(context.Background(), tt.req)
			require.NoError(t, err)

			require.Equal(t, peek, cap.got.Limit)
			require.Equal(t, tt.expectDir, cap.got.Direction)

			require.True(t, page.HasNextPage)
			require.Equal(t, tt.expectPrev, page.HasPreviousPage)
			require.Equal(t, tt.expectCount, page.Count)
			require.Equal(t, tt.expectFirst, page.Items[0].ID)

			start := pagination.Cursor{CreatedAt: page.Items[0].CreatedAt, ID: page.Items[0].ID}
			end := pagination.Cursor{CreatedAt: page.Items[len(page.Items)-1].CreatedAt, ID: page.Items[len(page.Items)-1].ID}
			require.Equal(t, start.Encode(), page.StartCursor)
			require.Equal(t, end.Encode(), page.EndCursor)
		})
	}
}

func TestPostService_GetPosts_InvalidCursors(t *testing.T) {
	t.Parallel()

	cur := pagination.Cursor{ID: 3}
	garbage := "not a cursor"

	tests := []struct {
		name string
		req  pagination.PageRequest
	}{
		{name: "both cursors", req: pagination.PageRequest{AfterCursor: cur.Encode(), BeforeCursor: cur.Encode()}},
		{name: "undecodable after", req: pagination.PageRequest{AfterCursor: &garbage}},
		{name: "undecodable before", req: pagination.PageRequest{BeforeCursor: &garbage}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewPostService(NewMockPostStorage(ctrl), NewMockPostBus(ctrl))

			_, err := svc.GetPosts(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestPostService_ListClearListen(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m := NewMockPostStorage(ctrl)
	b := NewMockPostBus(ctrl)
	svc := NewPostService(m, b)

	posts := []model.Post{{ID: 2, Content: "b"}, {ID: 1, Content: "a"}}
	m.EXPECT().ListPosts(gomock.Any()).Return(posts, nil)
	m.EXPECT().Clear(gomock.Any()).Return(nil)

	ch := make(chan model.Post)
	b.EXPECT().Subscribe(gomock.Any()).Return((<-chan model.Post)(ch), nil)

	got, err := svc.ListPosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, posts, got)

	require.NoError(t, svc.ClearPosts(context.Background()))

	feed, err := svc.Listen(context.Background())
	require.NoError(t, err)
	require.NotNil(t, feed)
}
