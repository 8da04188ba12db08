package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"

	apperrors "socialhub/internal/errors"
)

// MaxImageSize is the largest accepted attachment.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "socialhub_image_uploads_total",
	Help: "Image uploads to the object store by outcome",
}, []string{"outcome"})

// Image is an attachment received from a client.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// Validate checks type and size before anything is sent upstream.
func (img Image) Validate() error {
	contentType := strings.ToLower(strings.TrimSpace(strings.Split(img.ContentType, ";")[0]))
	if !allowedImageTypes[contentType] {
		return apperrors.ErrUnsupportedImage
	}
	if img.Size > MaxImageSize {
		return apperrors.ErrImageTooLarge
	}
	return nil
}

// ImageStore persists images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// Config points the store at an object-storage upload endpoint.
type Config struct {
	URL     string
	Token   string
	Folder  string
	Timeout time.Duration
}

// HTTPImageStore uploads images as multipart forms with resty.
type HTTPImageStore struct {
	client *resty.Client
	cfg    Config
}

var _ ImageStore = (*HTTPImageStore)(nil)

// NewHTTPImageStore creates a store for the configured endpoint.
func NewHTTPImageStore(cfg Config) *HTTPImageStore {
	client := resty.New()
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return &HTTPImageStore{client: client, cfg: cfg}
}

// Close releases idle connections.
func (s *HTTPImageStore) Close() error {
	return s.client.Close()
}

type uploadResult struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
}

// Upload sends the image and returns the URL reported by the store.
func (s *HTTPImageStore) Upload(ctx context.Context, img Image) (string, error) {
	if err := img.Validate(); err != nil {
		uploadsTotal.WithLabelValues("rejected").Inc()
		return "", err
	}

	req := s.client.R().
		WithContext(ctx).
		SetMultipartField("file", img.Filename, img.ContentType, img.Data).
		SetResult(&uploadResult{})
	if s.cfg.Folder != "" {
		req.SetMultipartFormData(map[string]string{"folder": s.cfg.Folder})
	}
	if s.cfg.Token != "" {
		req.SetAuthToken(s.cfg.Token)
	}

	res, err := req.Post(s.cfg.URL)
	if err != nil {
		uploadsTotal.WithLabelValues("error").Inc()
		return "", apperrors.ErrUploadFailed.Wrap(err)
	}
	if res.IsError() {
		uploadsTotal.WithLabelValues("error").Inc()
		return "", apperrors.ErrUploadFailed.Wrap(fmt.Errorf("object store responded %d", res.StatusCode()))
	}

	result, ok := res.Result().(*uploadResult)
	if !ok || result == nil {
		uploadsTotal.WithLabelValues("error").Inc()
		return "", apperrors.ErrUploadFailed.Wrap(errors.New("unexpected response body"))
	}
	url := result.SecureURL
	if url == "" {
		url = result.URL
	}
	if url == "" {
		uploadsTotal.WithLabelValues("error").Inc()
		return "", apperrors.ErrUploadFailed.Wrap(errors.New("response carries no url"))
	}

	uploadsTotal.WithLabelValues("ok").Inc()
	return url, nil
}
