package repository

import (
	"errors"

	"context"

	"github.com/opentracing/opentracing-go"
	"gorm.io/gorm"

	"github.com/snapstack/snapstack/interfaces"
	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/tracing"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) interfaces.PostRepository {
	return &postRepository{
		db: db,
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postRepository.Create")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).Create(post)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	return nil
}

// GetByID retrieves a post by its ID. Returns nil without error when the
// post does not exist.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postRepository.GetByID")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, err)
		return nil, err
	}
	return &post, nil
}

// List retrieves all posts, newest first.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postRepository.List")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return posts, nil
}

// ListByCollection retrieves the posts linked to a collection, newest first.
func (r *postRepository) ListByCollection(ctx context.Context, collectionID uint) ([]*models.Post, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postRepository.ListByCollection")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	span.SetTag("collection.id", collectionID)

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Joins("JOIN post_collections ON post_collections.post_id = posts.id").
		Where("post_collections.collection_id = ?", collectionID).
		Order("posts.created_at DESC").
		Find(&posts).Error; err != nil {
		tracing.TraceErr(span, err)
		return nil, err
	}
	return posts, nil
}

// UpdateField updates a single column by id. An unknown id updates zero rows
// and is not reported as an error.
func (r *postRepository) UpdateField(ctx context.Context, id uint, field, value string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postRepository.UpdateField")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update(field, value)
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}
	span.SetTag("rows.affected", result.RowsAffected)

	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "postRepository.Delete")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if result.Error != nil {
		tracing.TraceErr(span, result.Error)
		return result.Error
	}

	return nil
}
