package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/repository"
)

type collectionsFixture struct {
	router *gin.Engine
	colls  *mockCollectionRepository
	posts  *mockPostRepository
	links  *mockPostCollectionRepository
}

func newCollectionsFixture() *collectionsFixture {
	gin.SetMode(gin.TestMode)

	f := &collectionsFixture{
		colls: new(mockCollectionRepository),
		posts: new(mockPostRepository),
		links: new(mockPostCollectionRepository),
	}

	repos := &repository.Repositories{
		PostRepository:           f.posts,
		CollectionRepository:     f.colls,
		PostCollectionRepository: f.links,
	}
	handler := NewCollectionsHandler(repos)

	router := gin.New()
	router.GET("/api/collections", handler.List())
	router.GET("/api/collections/:id", handler.Get())
	f.router = router
	return f
}

func TestCollections_GetNotFound(t *testing.T) {
	f := newCollectionsFixture()
	f.colls.On("GetByID", mock.Anything, uint(5)).Return(nil, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/collections/5", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCollections_GetNonNumericID(t *testing.T) {
	f := newCollectionsFixture()

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/collections/abc", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	f.colls.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCollections_GetReturnsPosts(t *testing.T) {
	// Arrange
	f := newCollectionsFixture()
	coll := &models.Collection{ID: 3, Name: "Trips"}
	f.colls.On("GetByID", mock.Anything, uint(3)).Return(coll, nil)
	f.posts.On("ListByCollection", mock.Anything, uint(3)).Return([]*models.Post{
		{ID: 1, ImageURL: "https://cdn.example.com/a.jpg"},
		{ID: 2, ImageURL: "https://cdn.example.com/b.jpg"},
	}, nil)

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/collections/3", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Trips", resp["collection"].(map[string]interface{})["name"])
	assert.Len(t, resp["posts"], 2)
}

func TestCollections_ListWithPreviews(t *testing.T) {
	// Arrange
	f := newCollectionsFixture()
	f.colls.On("List", mock.Anything).Return([]*models.Collection{{ID: 3, Name: "Trips"}}, nil)
	f.links.On("CountByCollection", mock.Anything, uint(3)).Return(int64(6), nil)
	f.posts.On("ListByCollection", mock.Anything, uint(3)).Return([]*models.Post{
		{ID: 1, ImageURL: "https://cdn.example.com/a.jpg"},
		{ID: 2, ImageURL: "https://cdn.example.com/b.jpg"},
		{ID: 3, ImageURL: "https://cdn.example.com/c.jpg"},
		{ID: 4, ImageURL: "https://cdn.example.com/d.jpg"},
		{ID: 5, ImageURL: "https://cdn.example.com/e.jpg"},
		{ID: 6, ImageURL: "https://cdn.example.com/f.jpg"},
	}, nil)

	// Act
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/collections", nil))

	// Assert
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	collections := resp["collections"].([]interface{})
	require.Len(t, collections, 1)
	summary := collections[0].(map[string]interface{})
	assert.Equal(t, float64(6), summary["postCount"])
	// Previews are capped at four images
	assert.Len(t, summary["previewImages"], 4)
}
