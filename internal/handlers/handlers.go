package handlers

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lireddit/internal/config"
	"lireddit/internal/database"
	"lireddit/internal/mailer"
	"lireddit/internal/service"
)

// Handler combines all handler types
type Handler struct {
	Auth *AuthHandler
	Post *PostHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db database.Service, rdb *redis.Client, m mailer.Mailer, cfg config.Config, log *zap.SugaredLogger) *Handler {
	gormDB := db.GetDB()

	return &Handler{
		Auth: NewAuthHandler(service.NewAuthService(gormDB, rdb, m, cfg, log)),
		Post: NewPostHandler(
			service.NewPostService(gormDB, log),
			service.NewVoteService(gormDB, log),
		),
	}
}
