package policies

import (
	"context"
	"io"
)

// ImageStore persists listing photos in object storage and returns a public
// URL for each upload.
type ImageStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
}
