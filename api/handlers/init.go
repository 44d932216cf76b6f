package handlers

import (
	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/internal/repository"
	"github.com/snapstack/snapstack/services"
)

type APIHandlers struct {
	Inbound     *InboundHandler
	Posts       *PostsHandler
	Collections *CollectionsHandler
	Auth        *AuthHandler
}

func InitHandlers(r *repository.Repositories, svc *services.Services, cfg *config.Config) *APIHandlers {
	return &APIHandlers{
		Inbound:     NewInboundHandler(r, svc, cfg.MailgunConfig),
		Posts:       NewPostsHandler(r),
		Collections: NewCollectionsHandler(r),
		Auth:        NewAuthHandler(svc.AuthService),
	}
}
