package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/snapstack/snapstack/internal/tracing"
	"github.com/snapstack/snapstack/services/auth"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Session returns the current session, or null when signed out.
func (h *AuthHandler) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := h.authService.CurrentSession(c.Request.Context(), c.Request)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

func (h *AuthHandler) SignUp() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "AuthHandler.SignUp")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := h.authService.SignUp(ctx, c.Writer, c.Request, req.Email, req.Password)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"session": session})
	}
}

func (h *AuthHandler) SignIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "AuthHandler.SignIn")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := h.authService.SignIn(ctx, c.Writer, c.Request, req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}

func (h *AuthHandler) SignOut() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.authService.SignOut(c.Writer, c.Request); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// OAuthBegin redirects the browser to the provider consent screen. The
// provider name comes from the URL so goth can pick it up.
func (h *AuthHandler) OAuthBegin() gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Request.URL.Query()
		q.Set("provider", c.Param("provider"))
		c.Request.URL.RawQuery = q.Encode()
		h.authService.BeginOAuth(c.Writer, c.Request)
	}
}

func (h *AuthHandler) OAuthCallback() gin.HandlerFunc {
	return func(c *gin.Context) {
		span, ctx := opentracing.StartSpanFromContext(c.Request.Context(), "AuthHandler.OAuthCallback")
		defer span.Finish()
		tracing.SetDefaultRestSpanTags(ctx, span)

		q := c.Request.URL.Query()
		q.Set("provider", c.Param("provider"))
		c.Request.URL.RawQuery = q.Encode()

		session, err := h.authService.CompleteOAuth(ctx, c.Writer, c.Request)
		if err != nil {
			tracing.TraceErr(span, err)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": session})
	}
}
