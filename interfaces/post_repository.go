package interfaces

import (
	"context"

	"github.com/snapstack/snapstack/internal/models"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	// ListByCollection returns the posts linked to a collection, newest first.
	ListByCollection(ctx context.Context, collectionID uint) ([]*models.Post, error)
	// UpdateField updates a single column. Zero rows affected is not an error.
	UpdateField(ctx context.Context, id uint, field, value string) error
	Delete(ctx context.Context, id uint) error
}
