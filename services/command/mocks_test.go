package command

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/snapstack/snapstack/internal/models"
)

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *mockPostRepository) ListByCollection(ctx context.Context, collectionID uint) ([]*models.Post, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *mockPostRepository) UpdateField(ctx context.Context, id uint, field, value string) error {
	args := m.Called(ctx, id, field, value)
	return args.Error(0)
}

func (m *mockPostRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCollectionRepository struct {
	mock.Mock
}

func (m *mockCollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *mockCollectionRepository) GetByID(ctx context.Context, id uint) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *mockCollectionRepository) List(ctx context.Context) ([]*models.Collection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Collection), args.Error(1)
}

func (m *mockCollectionRepository) UpdateField(ctx context.Context, id uint, field, value string) error {
	args := m.Called(ctx, id, field, value)
	return args.Error(0)
}

func (m *mockCollectionRepository) DeleteWithLinks(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockPostCollectionRepository struct {
	mock.Mock
}

func (m *mockPostCollectionRepository) Exists(ctx context.Context, postID, collectionID uint) (bool, error) {
	args := m.Called(ctx, postID, collectionID)
	return args.Bool(0), args.Error(1)
}

func (m *mockPostCollectionRepository) Create(ctx context.Context, link *models.PostCollection) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockPostCollectionRepository) Delete(ctx context.Context, postID, collectionID uint) error {
	args := m.Called(ctx, postID, collectionID)
	return args.Error(0)
}

func (m *mockPostCollectionRepository) ListByCollection(ctx context.Context, collectionID uint) ([]*models.PostCollection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PostCollection), args.Error(1)
}

func (m *mockPostCollectionRepository) CountByCollection(ctx context.Context, collectionID uint) (int64, error) {
	args := m.Called(ctx, collectionID)
	return args.Get(0).(int64), args.Error(1)
}

type mockStorageService struct {
	mock.Mock
}

func (m *mockStorageService) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *mockStorageService) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStorageService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockStorageService) ListKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockStorageService) GetPublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	args := m.Called(ctx, routingKey, payload)
	return args.Error(0)
}

func (m *mockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type mockMailerService struct {
	mock.Mock
}

func (m *mockMailerService) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockMailerService) Send(ctx context.Context, to, subject, textBody string) error {
	args := m.Called(ctx, to, subject, textBody)
	return args.Error(0)
}
