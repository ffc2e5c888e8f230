package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lireddit/internal/config"
	"lireddit/internal/database"
	"lireddit/internal/handlers"
	"lireddit/internal/mailer"
	"lireddit/internal/middleware"
)

type Server struct {
	cfg     config.Config
	db      database.Service
	handler *handlers.Handler
	log     *zap.SugaredLogger
}

// NewServer creates and configures a new server
func NewServer(cfg config.Config, log *zap.SugaredLogger) (*http.Server, error) {
	db, err := database.New(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	var m mailer.Mailer
	if cfg.Mail.SendgridAPIKey != "" {
		m = mailer.NewSendgrid(cfg.Mail.SendgridAPIKey, cfg.Mail.From)
	} else {
		m = mailer.NewLog(log)
	}

	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handlers.NewHandler(db, rdb, m, cfg, log),
		log:     log,
	}

	router := newServer.RegisterRoutes()

	log.Infow("server starting", "port", cfg.Port)

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}, nil
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	if !s.cfg.IsDevEnvironment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// API routes
	api := r.Group("/api")
	// batch loaders are rebuilt for every request
	api.Use(middleware.Loaders(s.db.GetDB()))
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)
		api.POST("/forgot-password", s.handler.Auth.ForgotPassword)
		api.POST("/change-password", s.handler.Auth.ChangePassword)

		// Post routes (public reads, identity attached when present so the
		// feed can carry the viewer's vote status)
		reads := api.Group("")
		reads.Use(middleware.OptionalAuth(s.cfg.JWTSecret))
		{
			reads.GET("/posts", s.handler.Post.GetPosts)
			reads.GET("/posts/:id", s.handler.Post.GetPost)
		}

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.Auth(s.cfg.JWTSecret))
		{
			protected.GET("/me", s.handler.Auth.GetMe)

			protected.POST("/posts", s.handler.Post.CreatePost)
			protected.PUT("/posts/:id", s.handler.Post.UpdatePost)
			protected.DELETE("/posts/:id", s.handler.Post.DeletePost)
			protected.POST("/posts/:id/vote", s.handler.Post.VotePost)
		}
	}

	return r
}
