// Package imagestore persists uploaded school images and returns a reference
// that the listing page can render: a bare filename for local disk or a URL
// for the hosted service.
package imagestore

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/school-directory/internal/config"
)

// ImageStore persists image bytes and returns a retrievable reference
type ImageStore interface {
	Store(ctx context.Context, data []byte, originalFilename string) (string, error)
}

// Remover is implemented by stores that can delete a stored image
type Remover interface {
	Remove(ctx context.Context, reference string) error
}

// New builds the store selected by cfg.Backend
func New(cfg config.ImageStoreConfig) (ImageStore, error) {
	switch cfg.Backend {
	case config.ImageStoreLocal, "":
		return NewLocalStore(cfg.UploadDir), nil
	case config.ImageStoreCloudinary:
		return NewCloudinaryStore(cfg.CloudinaryURL, cfg.UploadPreset, cfg.CloudinaryFolder)
	default:
		return nil, fmt.Errorf("unsupported image store %q", cfg.Backend)
	}
}
