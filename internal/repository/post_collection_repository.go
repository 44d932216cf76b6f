package repository

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/tracing"
)

type postCollectionRepository struct {
	db *gorm.DB
}

func NewPostCollectionRepository(db *gorm.DB) interfaces.PostCollectionRepository {
	return &postCollectionRepository{
		db: db,
	}
}

func (r *postCollectionRepository) Exists(ctx context.Context, postID, collectionID uint) (bool, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postCollectionRepository.Exists")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostCollection{}).
		Where("post_id = ? AND collection_id = ?", postID, collectionID).
		Count(&count).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return false, err
	}
	return count > 0, nil
}

func (r *postCollectionRepository) Create(ctx context.Context, link *models.PostCollection) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postCollectionRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).Create(link)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	return nil
}

// Delete removes the association. Absence of the pair deletes zero rows and
// is not an error.
func (r *postCollectionRepository) Delete(ctx context.Context, postID, collectionID uint) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postCollectionRepository.Delete")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).
		Where("post_id = ? AND collection_id = ?", postID, collectionID).
		Delete(&models.PostCollection{})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	span.SetTag("rows.affected", result.RowsAffected)

	return nil
}

func (r *postCollectionRepository) ListByCollection(ctx context.Context, collectionID uint) ([]*models.PostCollection, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postCollectionRepository.ListByCollection")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var links []*models.PostCollection
	if err := r.db.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Find(&links).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return links, nil
}

func (r *postCollectionRepository) CountByCollection(ctx context.Context, collectionID uint) (int64, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postCollectionRepository.CountByCollection")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostCollection{}).
		Where("collection_id = ?", collectionID).
		Count(&count).Error
	if err != nil {
		tracing.TraceErr(span, err)
		return 0, err
	}
	return count, nil
}
