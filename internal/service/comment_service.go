package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"socialhub/internal/auth"
	apperrors "socialhub/internal/errors"
	"socialhub/internal/model"
	"socialhub/internal/repository"
)

// CreateCommentInput describes a comment, or a reply when ParentID is set.
type CreateCommentInput struct {
	PostID   uuid.UUID
	Content  string
	ParentID *uuid.UUID
}

// CommentDeletion is the result of removing a comment. Replies are not
// removed with their parent; OrphanedReplies counts them.
type CommentDeletion struct {
	Comment         *model.Comment `json:"comment"`
	OrphanedReplies int64          `json:"orphanedReplies"`
}

// CommentService handles comments and threaded replies.
type CommentService interface {
	ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error)
	ListReplies(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error)
	Create(ctx context.Context, principal auth.Principal, in CreateCommentInput) (*model.Comment, error)
	Delete(ctx context.Context, principal auth.Principal, id uuid.UUID) (*CommentDeletion, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// ListByPost returns all comments of a post, replies included, newest first.
func (s *commentService) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}

// ListReplies returns the direct replies to a comment, oldest first.
func (s *commentService) ListReplies(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error) {
	replies, err := s.commentRepo.ListReplies(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	if replies == nil {
		replies = []model.Comment{}
	}
	return replies, nil
}

// Create adds a comment to a post, or a reply when a parent is given.
func (s *commentService) Create(ctx context.Context, principal auth.Principal, in CreateCommentInput) (*model.Comment, error) {
	identity, err := requireIdentity(principal)
	if err != nil {
		return nil, err
	}

	if _, err := s.postRepo.FindByID(ctx, in.PostID); err != nil {
		return nil, lookupErr(err, apperrors.ErrPostNotFound, "find post")
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, lookupErr(err, apperrors.ErrParentCommentNotFound, "find parent comment")
		}
		if parent.PostID != in.PostID {
			return nil, apperrors.ErrParentPostMismatch
		}
	}

	comment := &model.Comment{
		Content:  in.Content,
		AuthorID: identity.ID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	return created, nil
}

// Delete removes a comment owned by the caller and reports how many direct
// replies were left pointing at it.
func (s *commentService) Delete(ctx context.Context, principal auth.Principal, id uuid.UUID) (*CommentDeletion, error) {
	identity, err := requireIdentity(principal)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, apperrors.ErrCommentNotFound, "find comment")
	}
	if !comment.IsOwnedBy(identity.ID) {
		return nil, apperrors.ErrNotCommentOwner
	}

	orphaned, err := s.commentRepo.CountReplies(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count replies: %w", err)
	}

	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return nil, lookupErr(err, apperrors.ErrCommentNotFound, "delete comment")
	}

	return &CommentDeletion{Comment: comment, OrphanedReplies: orphaned}, nil
}
