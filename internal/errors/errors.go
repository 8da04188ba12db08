package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a failure independently of the transport.
type Kind string

const (
	KindInvalidInput       Kind = "InvalidInput"
	KindUnauthenticated    Kind = "Unauthenticated"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindForbidden          Kind = "Forbidden"
	KindNotFound           Kind = "NotFound"
	KindConflict           Kind = "Conflict"
	KindUploadFailed       Kind = "UploadFailed"
	KindInternal           Kind = "Internal"
)

// Error is a classified domain error. Code is the stable machine-readable
// identifier sent to clients; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

// New creates a classified error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors carrying the same code, so a wrapped copy of a sentinel
// still satisfies errors.Is against the sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e with cause attached.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

var (
	// ErrUnauthenticated is returned when an operation needs an identity and none is attached.
	ErrUnauthenticated = New(KindUnauthenticated, "UNAUTHENTICATED", "not authenticated")
	// ErrMissingToken is returned when the Authorization header is absent or malformed.
	ErrMissingToken = New(KindUnauthenticated, "MISSING_TOKEN", "access denied, no token provided")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = New(KindUnauthenticated, "INVALID_TOKEN", "invalid or expired token")
	// ErrInvalidCredentials is returned for any login mismatch.
	ErrInvalidCredentials = New(KindInvalidCredentials, "INVALID_CREDENTIALS", "invalid email or password")

	// ErrUserAlreadyExists is returned when email or username is already registered.
	ErrUserAlreadyExists = New(KindConflict, "USER_ALREADY_EXISTS", "email or username already exists")
	// ErrUsernameTaken is returned when a profile update picks a username in use.
	ErrUsernameTaken = New(KindConflict, "USERNAME_TAKEN", "username already taken")

	ErrUserNotFound          = New(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrPostNotFound          = New(KindNotFound, "POST_NOT_FOUND", "post not found")
	ErrCommentNotFound       = New(KindNotFound, "COMMENT_NOT_FOUND", "comment not found")
	ErrParentCommentNotFound = New(KindNotFound, "PARENT_COMMENT_NOT_FOUND", "parent comment not found")

	ErrNotPostOwner    = New(KindForbidden, "NOT_POST_OWNER", "not allowed to delete this post")
	ErrNotCommentOwner = New(KindForbidden, "NOT_COMMENT_OWNER", "not allowed to delete this comment")
	ErrNotProfileOwner = New(KindForbidden, "NOT_PROFILE_OWNER", "not allowed to modify this user")

	// ErrParentPostMismatch is returned when a reply targets a parent on another post.
	ErrParentPostMismatch = New(KindInvalidInput, "PARENT_POST_MISMATCH", "parent comment belongs to a different post")
	// ErrInvalidID is returned when a path or body identifier is not a UUID.
	ErrInvalidID = New(KindInvalidInput, "INVALID_ID", "invalid id")
	// ErrUnsupportedImage is returned for attachments outside the allowed types.
	ErrUnsupportedImage = New(KindInvalidInput, "UNSUPPORTED_IMAGE", "image must be JPEG, PNG, GIF or WebP")
	ErrImageTooLarge    = New(KindInvalidInput, "IMAGE_TOO_LARGE", "image must not exceed 5 MiB")

	// ErrUploadFailed is returned when the external image store rejects or fails an upload.
	ErrUploadFailed = New(KindUploadFailed, "UPLOAD_FAILED", "failed to upload image")
)

// Invalid builds an InvalidInput error for request validation failures.
func Invalid(message string) *Error {
	return New(KindInvalidInput, "VALIDATION_ERROR", message)
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// StatusCode returns the HTTP status for a kind.
func StatusCode(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidCredentials:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unclassified errors and
// Internal ones collapse to a generic 500 without exposing the cause.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Kind != KindInternal {
		return NewHTTPError(StatusCode(domainErr.Kind), domainErr.Message, domainErr.Code)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
