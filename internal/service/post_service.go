package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"socialhub/internal/auth"
	apperrors "socialhub/internal/errors"
	"socialhub/internal/model"
	"socialhub/internal/repository"
	"socialhub/internal/storage"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

// NormalizePage replaces out-of-range paging values with the defaults.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit
}

// PostPage is one page of the feed.
type PostPage struct {
	Items      []model.Post
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// CreatePostInput describes a new post. Image is optional.
type CreatePostInput struct {
	Content string
	Image   *storage.Image
}

// PostService handles post operations.
type PostService interface {
	ListPosts(ctx context.Context, page, limit int) (*PostPage, error)
	GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error)
	CreatePost(ctx context.Context, principal auth.Principal, in CreatePostInput) (*model.Post, error)
	DeletePost(ctx context.Context, principal auth.Principal, id uuid.UUID) (*model.Post, error)
}

type postService struct {
	postRepo   repository.PostRepository
	imageStore storage.ImageStore
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, imageStore storage.ImageStore) PostService {
	return &postService{
		postRepo:   postRepo,
		imageStore: imageStore,
	}
}

// ListPosts returns a page of posts, newest first.
func (s *postService) ListPosts(ctx context.Context, page, limit int) (*PostPage, error) {
	page, limit = NormalizePage(page, limit)

	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	posts, err := s.postRepo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if posts == nil {
		posts = []model.Post{}
	}

	return &PostPage{
		Items:      posts,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// GetPost returns a post with author, comments and likes.
func (s *postService) GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	post, err := s.postRepo.FindDetail(ctx, id)
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrPostNotFound, "find post")
	}
	return post, nil
}

// CreatePost uploads the optional image first so a failed upload never
// leaves a row behind.
func (s *postService) CreatePost(ctx context.Context, principal auth.Principal, in CreatePostInput) (*model.Post, error) {
	identity, err := requireIdentity(principal)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Content:  in.Content,
		AuthorID: identity.ID,
	}

	if in.Image != nil {
		if s.imageStore == nil {
			return nil, apperrors.ErrUploadFailed
		}
		url, err := s.imageStore.Upload(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = lo.ToPtr(url)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	created, err := s.postRepo.FindDetail(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	return created, nil
}

// DeletePost removes a post owned by the caller.
func (s *postService) DeletePost(ctx context.Context, principal auth.Principal, id uuid.UUID) (*model.Post, error) {
	identity, err := requireIdentity(principal)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrPostNotFound, "find post")
	}
	if !post.IsOwnedBy(identity.ID) {
		return nil, apperrors.ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return nil, lookupErr(err, apperrors.ErrPostNotFound, "delete post")
	}
	return post, nil
}
