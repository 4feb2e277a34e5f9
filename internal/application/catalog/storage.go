package catalog

import (
	"context"
	"io"
)

// ObjectStorage stores product and category images. Implementations
// return a publicly reachable URL for uploaded objects.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error)
	Move(ctx context.Context, oldKey, newKey string) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}
