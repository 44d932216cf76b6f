package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/snapstack/snapstack/internal/repository"
	"github.com/snapstack/snapstack/internal/tracing"
)

type PostsHandler struct {
	repos *repository.Repositories
}

func NewPostsHandler(repos *repository.Repositories) *PostsHandler {
	return &PostsHandler{repos: repos}
}

// List returns the photo feed, newest first.
func (h *PostsHandler) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "PostsHandler.List")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		posts, err := h.repos.PostRepository.List(ctx)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"posts": posts})
	}
}
