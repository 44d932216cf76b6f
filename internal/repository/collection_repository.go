package repository

import (
	"context"
	"errors"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/tracing"
)

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) interfaces.CollectionRepository {
	return &collectionRepository{
		db: db,
	}
}

func (r *collectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "collectionRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).Create(collection)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	return nil
}

func (r *collectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "collectionRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var collection models.Collection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &collection, nil
}

func (r *collectionRepository) List(ctx context.Context) ([]*models.Collection, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "collectionRepository.List")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var collections []*models.Collection
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&collections).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return collections, nil
}

func (r *collectionRepository) UpdateField(ctx context.Context, id uint, field, value string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "collectionRepository.UpdateField")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).
		Model(&models.Collection{}).
		Where("id = ?", id).
		Update(field, value)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	span.SetTag("rows.affected", result.RowsAffected)

	return nil
}

// DeleteWithLinks removes the collection's association rows first, then the
// collection itself. Both deletes run in one transaction so a failure cannot
// leave dangling links behind.
func (r *collectionRepository) DeleteWithLinks(ctx context.Context, id uint) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "collectionRepository.DeleteWithLinks")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&models.PostCollection{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Collection{}).Error
	})
	if err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	return nil
}
