package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"

	"github.com/snapstack/snapstack/api/handlers"
	"github.com/snapstack/snapstack/api/middleware"
	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/internal/repository"
	"github.com/snapstack/snapstack/internal/tracing"
	"github.com/snapstack/snapstack/services"
)

// RegisterRoutes sets up all API endpoints
func RegisterRoutes(ctx context.Context, r *gin.Engine, cfg *config.Config, s *services.Services, repos *repository.Repositories) {
	if s == nil {
		panic("Services cannot be nil")
	}
	if repos == nil {
		panic("Repositories cannot be nil")
	}

	// Add recovery middlewares
	r.Use(gin.Recovery())                                         // Gin's built-in recovery
	r.Use(tracing.RecoveryWithJaeger(opentracing.GlobalTracer())) // Our custom Jaeger recovery
	r.Use(middleware.RequestIDMiddleware())

	// setup handlers
	apiHandlers := handlers.InitHandlers(repos, s, cfg)

	// Health check endpoint (no middleware needed)
	r.GET("/health", handlers.HealthCheck(repos))

	// The email provider posts here; it authenticates with a payload
	// signature rather than an API key.
	webhook := r.Group("/api/email-webhook")
	webhook.Use(middleware.TracingMiddleware())
	{
		webhook.GET("", apiHandlers.Inbound.Probe())
		webhook.OPTIONS("", apiHandlers.Inbound.Preflight())
		webhook.POST("", apiHandlers.Inbound.Receive())
	}

	// Browser-facing API, session-authenticated.
	api := r.Group("/api")
	api.Use(middleware.TracingMiddleware())
	{
		api.GET("/posts", apiHandlers.Posts.List())
		api.GET("/collections", apiHandlers.Collections.List())
		api.GET("/collections/:id", apiHandlers.Collections.Get())

		auth := api.Group("/auth")
		{
			auth.GET("/session", apiHandlers.Auth.Session())
			auth.POST("/signup", apiHandlers.Auth.SignUp())
			auth.POST("/signin", apiHandlers.Auth.SignIn())
			auth.POST("/signout", apiHandlers.Auth.SignOut())
			auth.GET("/oauth/:provider", apiHandlers.Auth.OAuthBegin())
			auth.GET("/oauth/:provider/callback", apiHandlers.Auth.OAuthCallback())
		}
	}

	// Operational endpoints guarded by the service API key.
	apiKeyMiddleware := middleware.APIKeyMiddleware(middleware.APIKeyConfig{
		HeaderName:  "X-SNAPSTACK-API-KEY",
		ValidAPIKey: cfg.AppConfig.APIKey,
	})

	admin := r.Group("/admin")
	admin.Use(apiKeyMiddleware)
	admin.Use(middleware.TracingMiddleware())
	{
		admin.GET("/inbound-emails", func(c *gin.Context) {
			emails, err := repos.InboundEmailRepository.List(c.Request.Context())
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to load inbound emails"})
				return
			}
			c.JSON(200, gin.H{"emails": emails})
		})
	}
}
