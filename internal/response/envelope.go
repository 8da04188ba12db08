package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "socialhub/internal/errors"
)

const (
	StatusSuccess = "Success"
	StatusFailed  = "Failed"
)

// Meta is attached to every envelope.
type Meta struct {
	TimeStamp  string `json:"timeStamp"`
	Page       int    `json:"page,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Total      int64  `json:"total,omitempty"`
	TotalPages *int   `json:"totalPages,omitempty"`
}

// Envelope is the uniform JSON wrapper used for every response.
type Envelope struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
	Data    interface{} `json:"data,omitempty"`
}

// Pagination describes a paged result for the envelope meta.
type Pagination struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

var now = time.Now

func newMeta() Meta {
	return Meta{TimeStamp: now().UTC().Format(http.TimeFormat)}
}

// Success writes a success envelope.
func Success(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Envelope{
		Status:  StatusSuccess,
		Code:    code,
		Message: message,
		Meta:    newMeta(),
		Data:    data,
	})
}

// Paginated writes a success envelope carrying page information in meta.
func Paginated(c echo.Context, message string, data interface{}, p Pagination) error {
	meta := newMeta()
	meta.Page = p.Page
	meta.Limit = p.Limit
	meta.Total = p.Total
	totalPages := p.TotalPages
	meta.TotalPages = &totalPages

	return c.JSON(http.StatusOK, Envelope{
		Status:  StatusSuccess,
		Code:    http.StatusOK,
		Message: message,
		Meta:    meta,
		Data:    data,
	})
}

// Failure writes a failure envelope.
func Failure(c echo.Context, code int, errCode, message string) error {
	return c.JSON(code, Envelope{
		Status:  StatusFailed,
		Code:    code,
		Message: message,
		Error:   errCode,
		Meta:    newMeta(),
	})
}

// ErrorHandler returns an echo.HTTPErrorHandler that renders every failure as
// an envelope. Domain errors keep their status; echo errors (routing, binding,
// body limit) keep theirs; anything else is logged and reported as Internal.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status  int
			code    string
			message string
		)

		var domainErr *apperrors.Error
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &domainErr) && domainErr.Kind != apperrors.KindInternal:
			httpErr := apperrors.MapErrorToHTTP(domainErr)
			status, code, message = httpErr.StatusCode, httpErr.Code, httpErr.Message
		case errors.As(err, &echoErr):
			status = echoErr.Code
			code = httpStatusCode(status)
			message = fmt.Sprint(echoErr.Message)
			if status >= http.StatusInternalServerError {
				logger.ErrorContext(c.Request().Context(), "request failed", "error", err, "path", c.Path())
				message = "internal server error"
			}
		default:
			logger.ErrorContext(c.Request().Context(), "unexpected error", "error", err, "path", c.Path())
			httpErr := apperrors.MapErrorToHTTP(err)
			status, code, message = httpErr.StatusCode, httpErr.Code, httpErr.Message
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = Failure(c, status, code, message)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", err)
		}
	}
}

func httpStatusCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	default:
		return "INTERNAL_ERROR"
	}
}
