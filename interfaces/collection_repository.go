package interfaces

import (
	"context"

	"github.com/snapstack/snapstack/internal/models"
)

type CollectionRepository interface {
	Create(ctx context.Context, collection *models.Collection) error
	GetByID(ctx context.Context, id uint) (*models.Collection, error)
	List(ctx context.Context) ([]*models.Collection, error)
	UpdateField(ctx context.Context, id uint, field, value string) error
	// DeleteWithLinks removes the collection's association rows and the
	// collection itself in one transaction.
	DeleteWithLinks(ctx context.Context, id uint) error
}
