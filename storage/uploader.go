package storage

import (
	"context"
	"io"
)

// FileUploader abstracts object storage for uploaded assets such as
// tournament and team logos.
type FileUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
