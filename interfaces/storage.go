package interfaces

import "context"

type StorageService interface {
	// Upload refuses to overwrite: an existing key yields errors.ErrObjectExists.
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context) ([]string, error)
	GetPublicURL(key string) string
}
