package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Store persists uploaded files and returns their public URL.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

// ErrUnsupportedType is returned for uploads that are not images.
var ErrUnsupportedType = errors.New("storage: unsupported file type")

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
}

// NewKey builds a collision-free object key under dir. Only image extensions
// are accepted; the returned content type follows the extension, not the client.
func NewKey(dir, filename string) (key, contentType string, err error) {
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedType, filename)
	}
	return path.Join(dir, uuid.NewString()+ext), contentType, nil
}

type Config struct {
	Driver    string
	UploadDir string
	UploadURL string

	S3Bucket   string
	S3Region   string
	S3Key      string
	S3Secret   string
	S3Endpoint string
	S3URL      string
}

func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.UploadDir, cfg.UploadURL)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
