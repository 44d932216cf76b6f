package interfaces

import (
	"context"

	"github.com/snapstack/snapstack/internal/models"
)

type PostCollectionRepository interface {
	Exists(ctx context.Context, postID, collectionID uint) (bool, error)
	Create(ctx context.Context, link *models.PostCollection) error
	Delete(ctx context.Context, postID, collectionID uint) error
	ListByCollection(ctx context.Context, collectionID uint) ([]*models.PostCollection, error)
	CountByCollection(ctx context.Context, collectionID uint) (int64, error)
}
