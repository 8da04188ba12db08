package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"socialhub/internal/model"
)

const postCountColumns = `posts.*,
	(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count,
	(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS like_count`

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Post, error)
	List(ctx context.Context, offset, limit int) ([]model.Post, error)
	Count(ctx context.Context) (int64, error)
	AddLike(ctx context.Context, like *model.Like) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create creates a new post.
func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// Delete permanently removes a post. Comments and likes go with it through
// the foreign key cascade.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a post by ID without relations.
func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindDetail loads a post with its author, comments (newest first) and likes.
func (r *postRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.Author").
		Preload("Likes.User").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	post.CommentCount = int64(len(post.Comments))
	post.LikeCount = int64(len(post.Likes))
	return &post, nil
}

// List returns one page of posts, newest first, with author and counts.
func (r *postRepository) List(ctx context.Context, offset, limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Select(postCountColumns).
		Preload("Author").
		Order("posts.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Count returns the total number of posts.
func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Post{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddLike records a like on a post.
func (r *postRepository) AddLike(ctx context.Context, like *model.Like) error {
	return r.db.WithContext(ctx).Create(like).Error
}
