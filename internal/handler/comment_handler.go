package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"socialhub/internal/auth"
	"socialhub/internal/response"
	"socialhub/internal/service"
)

// CommentHandler handles comment and reply endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CreateCommentRequest is a comment, or a reply when parentId is set.
type CreateCommentRequest struct {
	PostID   string  `json:"postId" validate:"required"`
	Content  string  `json:"content" validate:"required"`
	ParentID *string `json:"parentId"`
}

// ListByPost godoc
// @Summary List all comments of a post, replies included
// @Tags comments
// @Produce json
// @Param postId path string true "Post ID"
// @Success 200 {object} response.Envelope{data=[]model.Comment}
// @Failure 400 {object} response.Envelope
// @Router /comment/post/{postId} [get]
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, err := pathID(c, "postId")
	if err != nil {
		return err
	}

	comments, err := h.commentService.ListByPost(c.Request().Context(), postID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Comments fetched successfully", comments)
}

// ListReplies godoc
// @Summary List replies to a comment, oldest first
// @Tags comments
// @Produce json
// @Param commentId path string true "Comment ID"
// @Success 200 {object} response.Envelope{data=[]model.Comment}
// @Failure 400 {object} response.Envelope
// @Router /comment/{commentId}/replies [get]
func (h *CommentHandler) ListReplies(c echo.Context) error {
	commentID, err := pathID(c, "commentId")
	if err != nil {
		return err
	}

	replies, err := h.commentService.ListReplies(c.Request().Context(), commentID)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Replies fetched successfully", replies)
}

// CreateComment godoc
// @Summary Comment on a post or reply to a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCommentRequest true "Comment"
// @Success 201 {object} response.Envelope{data=model.Comment}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /comment [post]
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	postID, err := parseID(req.PostID)
	if err != nil {
		return err
	}
	input := service.CreateCommentInput{PostID: postID, Content: req.Content}

	if req.ParentID != nil && *req.ParentID != "" {
		var parentID uuid.UUID
		if parentID, err = parseID(*req.ParentID); err != nil {
			return err
		}
		input.ParentID = &parentID
	}

	comment, err := h.commentService.Create(c.Request().Context(), auth.PrincipalFrom(c), input)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, "Comment created successfully", comment)
}

// DeleteComment godoc
// @Summary Delete own comment; replies are left in place
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Comment ID"
// @Success 200 {object} response.Envelope{data=service.CommentDeletion}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /comment/{id} [delete]
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	result, err := h.commentService.Delete(c.Request().Context(), auth.PrincipalFrom(c), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Comment deleted successfully", result)
}
