package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"socialhub/internal/auth"
	apperrors "socialhub/internal/errors"
	"socialhub/internal/model"
	"socialhub/internal/response"
	"socialhub/internal/service"
)

type testValidator struct{}

func (testValidator) Validate(i interface{}) error {
	switch req := i.(type) {
	case *RegisterRequest:
		if req.Email == "" || req.Username == "" || req.Password == "" {
			return apperrors.Invalid("missing fields")
		}
	case *CreatePostRequest:
		if req.Content == "" {
			return apperrors.Invalid("content is required")
		}
	}
	return nil
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = testValidator{}
	e.HTTPErrorHandler = response.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// withIdentity stands in for the guard.
func withIdentity(id uuid.UUID) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(auth.ContextKey, &auth.Claims{UserID: id, Username: "ana"})
			return next(c)
		}
	}
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, principal auth.Principal) (*model.UserProfile, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

type MockPostService struct{ mock.Mock }

func (m *MockPostService) ListPosts(ctx context.Context, page, limit int) (*service.PostPage, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PostPage), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) CreatePost(ctx context.Context, principal auth.Principal, in service.CreatePostInput) (*model.Post, error) {
	args := m.Called(ctx, principal, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, principal auth.Principal, id uuid.UUID) (*model.Post, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

type MockCommentService struct{ mock.Mock }

func (m *MockCommentService) ListByPost(ctx context.Context, postID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentService) ListReplies(ctx context.Context, commentID uuid.UUID) ([]model.Comment, error) {
	args := m.Called(ctx, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, principal auth.Principal, in service.CreateCommentInput) (*model.Comment, error) {
	args := m.Called(ctx, principal, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, principal auth.Principal, id uuid.UUID) (*service.CommentDeletion, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CommentDeletion), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserProfile), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserProfile), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, principal auth.Principal, id uuid.UUID, patch service.UserPatch) (*model.User, error) {
	args := m.Called(ctx, principal, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, principal auth.Principal, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, principal, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestAuthHandler_Register(t *testing.T) {
	svc := new(MockAuthService)
	user := &model.User{ID: uuid.New(), Email: "ana@example.com", Username: "ana", Password: "secret-hash", Name: "Ana"}
	svc.On("Register", mock.Anything, service.RegisterInput{
		Email: "ana@example.com", Username: "ana", Password: "password123", Name: "Ana",
	}).Return(&service.AuthResult{User: user, Token: "tok"}, nil)

	e := newEcho()
	e.POST("/api/auth/register", NewAuthHandler(svc).Register)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"ana@example.com","username":"ana","password":"password123","name":"Ana"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret-hash")

	body := decode(t, rec)
	assert.Equal(t, "Success", body["status"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["token"])
	svc.AssertExpectations(t)
}

func TestAuthHandler_RegisterConflict(t *testing.T) {
	svc := new(MockAuthService)
	svc.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrUserAlreadyExists)

	e := newEcho()
	e.POST("/api/auth/register", NewAuthHandler(svc).Register)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"ana@example.com","username":"ana","password":"password123","name":"Ana"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Failed", body["status"])
	assert.Equal(t, "USER_ALREADY_EXISTS", body["error"])
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	svc := new(MockAuthService)
	e := newEcho()
	e.POST("/api/auth/register", NewAuthHandler(svc).Register)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(`{"email":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestPostHandler_ListPosts(t *testing.T) {
	svc := new(MockPostService)
	svc.On("ListPosts", mock.Anything, 2, 5).Return(&service.PostPage{
		Items: make([]model.Post, 5), Page: 2, Limit: 5, Total: 12, TotalPages: 3,
	}, nil)

	e := newEcho()
	e.GET("/api/post", NewPostHandler(svc).ListPosts)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/post?page=2&limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	meta := body["meta"].(map[string]interface{})
	assert.Equal(t, float64(3), meta["totalPages"])
	assert.Equal(t, float64(2), meta["page"])
	assert.Len(t, body["data"], 5)
}

func TestPostHandler_ListPostsBadQueryFallsBack(t *testing.T) {
	svc := new(MockPostService)
	svc.On("ListPosts", mock.Anything, 0, 0).Return(&service.PostPage{Items: []model.Post{}, Page: 1, Limit: 5}, nil)

	e := newEcho()
	e.GET("/api/post", NewPostHandler(svc).ListPosts)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/post?page=abc&limit=-2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestPostHandler_GetPostInvalidID(t *testing.T) {
	svc := new(MockPostService)
	e := newEcho()
	e.GET("/api/post/:id", NewPostHandler(svc).GetPost)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/post/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ID", decode(t, rec)["error"])
	svc.AssertNotCalled(t, "GetPost", mock.Anything, mock.Anything)
}

func TestPostHandler_CreatePostMultipart(t *testing.T) {
	userID := uuid.New()
	svc := new(MockPostService)
	svc.On("CreatePost", mock.Anything, mock.Anything, mock.MatchedBy(func(in service.CreatePostInput) bool {
		return in.Content == "with picture" && in.Image != nil &&
			in.Image.Filename == "cat.png" && in.Image.ContentType == "image/png" && in.Image.Size == 3
	})).Return(&model.Post{ID: uuid.New(), Content: "with picture", AuthorID: userID}, nil)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("content", "with picture"))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="cat.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := newEcho()
	e.POST("/api/post", NewPostHandler(svc).CreatePost, withIdentity(userID))

	req := httptest.NewRequest(http.MethodPost, "/api/post", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestPostHandler_DeleteForbidden(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()
	svc := new(MockPostService)
	svc.On("DeletePost", mock.Anything, auth.Identified(auth.Identity{ID: userID, Username: "ana"}), postID).
		Return(nil, apperrors.ErrNotPostOwner)

	e := newEcho()
	e.DELETE("/api/post/:id", NewPostHandler(svc).DeletePost, withIdentity(userID))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/post/"+postID.String(), nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_POST_OWNER", decode(t, rec)["error"])
}

func TestCommentHandler_CreateReply(t *testing.T) {
	userID := uuid.New()
	postID := uuid.New()
	parentID := uuid.New()
	svc := new(MockCommentService)
	svc.On("Create", mock.Anything, mock.Anything, service.CreateCommentInput{
		PostID: postID, Content: "agreed", ParentID: &parentID,
	}).Return(&model.Comment{ID: uuid.New(), PostID: postID, ParentID: &parentID, AuthorID: userID}, nil)

	e := newEcho()
	e.POST("/api/comment", NewCommentHandler(svc).CreateComment, withIdentity(userID))

	req := httptest.NewRequest(http.MethodPost, "/api/comment", strings.NewReader(
		`{"postId":"`+postID.String()+`","content":"agreed","parentId":"`+parentID.String()+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestCommentHandler_UnknownParent(t *testing.T) {
	svc := new(MockCommentService)
	svc.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrParentCommentNotFound)

	e := newEcho()
	e.POST("/api/comment", NewCommentHandler(svc).CreateComment, withIdentity(uuid.New()))

	req := httptest.NewRequest(http.MethodPost, "/api/comment", strings.NewReader(
		`{"postId":"`+uuid.NewString()+`","content":"x","parentId":"`+uuid.NewString()+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PARENT_COMMENT_NOT_FOUND", decode(t, rec)["error"])
}

func TestCommentHandler_DeleteReportsOrphans(t *testing.T) {
	commentID := uuid.New()
	svc := new(MockCommentService)
	svc.On("Delete", mock.Anything, mock.Anything, commentID).
		Return(&service.CommentDeletion{Comment: &model.Comment{ID: commentID}, OrphanedReplies: 2}, nil)

	e := newEcho()
	e.DELETE("/api/comment/:id", NewCommentHandler(svc).DeleteComment, withIdentity(uuid.New()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/comment/"+commentID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["orphanedReplies"])
}

func TestUserHandler_UpdateUserPatch(t *testing.T) {
	userID := uuid.New()
	svc := new(MockUserService)
	svc.On("UpdateUser", mock.Anything, mock.Anything, userID, mock.MatchedBy(func(p service.UserPatch) bool {
		return p.Bio != nil && *p.Bio == "hi" && p.Name == nil && p.Username == nil && p.Password == nil
	})).Return(&model.User{ID: userID, Username: "ana", Password: "hash"}, nil)

	e := newEcho()
	e.PUT("/api/user/:id", NewUserHandler(svc).UpdateUser, withIdentity(userID))

	req := httptest.NewRequest(http.MethodPut, "/api/user/"+userID.String(), strings.NewReader(`{"bio":"hi"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	svc.AssertExpectations(t)
}

func TestUserHandler_GetUserNotFound(t *testing.T) {
	id := uuid.New()
	svc := new(MockUserService)
	svc.On("GetUser", mock.Anything, id).Return(nil, apperrors.ErrUserNotFound)

	e := newEcho()
	e.GET("/api/user/:id", NewUserHandler(svc).GetUser)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/"+id.String(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "USER_NOT_FOUND", decode(t, rec)["error"])
}
