package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"socialhub/internal/auth"
	apperrors "socialhub/internal/errors"
	"socialhub/internal/response"
	"socialhub/internal/service"
	"socialhub/internal/storage"
)

// PostHandler handles post endpoints.
type PostHandler struct {
	postService service.PostService
}

// NewPostHandler creates a new post handler.
func NewPostHandler(postService service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// CreatePostRequest represents a new post. Sent as JSON, or as a multipart
// form when an image is attached under the "image" field.
type CreatePostRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

// ListPosts godoc
// @Summary List posts, newest first
// @Tags posts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(5)
// @Success 200 {object} response.Envelope{data=[]model.Post}
// @Failure 500 {object} response.Envelope
// @Router /post [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, err := h.postService.ListPosts(c.Request().Context(), queryInt(c, "page"), queryInt(c, "limit"))
	if err != nil {
		return err
	}

	return response.Paginated(c, "Posts fetched successfully", page.Items, response.Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	})
}

// GetPost godoc
// @Summary Get a post with comments and likes
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope{data=model.Post}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /post/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postService.GetPost(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Post fetched successfully", post)
}

// CreatePost godoc
// @Summary Create a post
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param content formData string true "Post content"
// @Param image formData file false "Optional image (JPEG, PNG, GIF, WebP; max 5 MiB)"
// @Success 201 {object} response.Envelope{data=model.Post}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /post [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	input := service.CreatePostInput{Content: req.Content}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fileHeader, err := c.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return apperrors.Invalid("invalid image upload").Wrap(err)
		default:
			file, err := fileHeader.Open()
			if err != nil {
				return apperrors.Invalid("invalid image upload").Wrap(err)
			}
			defer file.Close()

			input.Image = &storage.Image{
				Filename:    fileHeader.Filename,
				ContentType: fileHeader.Header.Get(echo.HeaderContentType),
				Size:        fileHeader.Size,
				Data:        file,
			}
		}
	}

	post, err := h.postService.CreatePost(c.Request().Context(), auth.PrincipalFrom(c), input)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusCreated, "Post created successfully", post)
}

// DeletePost godoc
// @Summary Delete own post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope{data=model.Post}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /post/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postService.DeletePost(c.Request().Context(), auth.PrincipalFrom(c), id)
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, "Post deleted successfully", post)
}
