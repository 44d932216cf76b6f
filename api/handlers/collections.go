package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/snapstack/snapstack/internal/models"
	"github.com/snapstack/snapstack/internal/repository"
	"github.com/snapstack/snapstack/internal/tracing"
)

const collectionPreviewSize = 4

type CollectionsHandler struct {
	repos *repository.Repositories
}

func NewCollectionsHandler(repos *repository.Repositories) *CollectionsHandler {
	return &CollectionsHandler{repos: repos}
}

type collectionSummary struct {
	*models.Collection
	PostCount     int64    `json:"postCount"`
	PreviewImages []string `json:"previewImages"`
}

// List returns all collections with post counts and up to four preview
// images each.
func (h *CollectionsHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "CollectionsHandler.List")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		collections, err := h.repos.CollectionRepository.List(ctx)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load collections"})
			return
		}

		summaries := make([]collectionSummary, 0, len(collections))
		for _, collection := range collections {
			count, err := h.repos.PostCollectionRepository.CountByCollection(ctx, collection.ID)
			if err != nil {
				tracing.TraceErr(span, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load collections"})
				return
			}

			posts, err := h.repos.PostRepository.ListByCollection(ctx, collection.ID)
			if err != nil {
				tracing.TraceErr(span, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load collections"})
				return
			}

			previews := make([]string, 0, collectionPreviewSize)
			for _, post := range posts {
				if len(previews) == collectionPreviewSize {
					break
				}
				previews = append(previews, post.ImageURL)
			}

			summaries = append(summaries, collectionSummary{
				Collection:    collection,
				PostCount:     count,
				PreviewImages: previews,
			})
		}

		c.JSON(http.StatusOK, gin.H{"collections": summaries})
	}
}

// Get returns a single collection and its posts.
func (h *CollectionsHandler) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "CollectionsHandler.Get")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		tracing.TagEntity(span, c.Param("id"))

		collection, err := h.repos.CollectionRepository.GetByID(ctx, uint(id))
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load collection"})
			return
		}
		if collection == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}

		posts, err := h.repos.PostRepository.ListByCollection(ctx, collection.ID)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load collection"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"collection": collection,
			"posts":      posts,
		})
	}
}
