package storage

import (
	"context"
	"io"
)

// FileUploader stores and serves binary blobs (avatars, tournament logos).
type FileUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
