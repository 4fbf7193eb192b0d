package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/onropepro/onrope-backend/internal/handlers"
	"github.com/onropepro/onrope-backend/internal/middleware"
)

type RouterConfig struct {
	AssistantHandler    *handlers.AssistantHandler
	ArticleHandler      *handlers.ArticleHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	AllowOrigins        []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthz", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// Assistant
		api.POST("/assistant/query", cfg.RateLimitMiddleware.Limit(), cfg.AssistantHandler.Query)
		api.POST("/assistant/reindex", cfg.AuthMiddleware.RequireRole("admin"), cfg.AssistantHandler.Reindex)
		// Articles
		api.GET("/articles", cfg.ArticleHandler.List)
		api.GET("/articles/search", cfg.ArticleHandler.Search)
		api.GET("/articles/:slug", cfg.ArticleHandler.GetBySlug)
	}

	return router
}
