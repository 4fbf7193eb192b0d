package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/onropepro/onrope-backend/internal/db"
	"github.com/onropepro/onrope-backend/internal/handlers"
	"github.com/onropepro/onrope-backend/internal/middleware"
	"github.com/onropepro/onrope-backend/internal/platform/logger"
	"github.com/onropepro/onrope-backend/internal/repos"
	"github.com/onropepro/onrope-backend/internal/server"
	"github.com/onropepro/onrope-backend/internal/services"
	"github.com/onropepro/onrope-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	allowOrigins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",")
	redisAddr := utils.GetEnv("REDIS_ADDR", "", log)
	redisPassword := utils.GetEnv("REDIS_PASSWORD", "", log)
	cacheTTL := utils.GetEnvAsInt("ANSWER_CACHE_TTL_SECONDS", 900, log)

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	articleRepo := repos.NewArticleRepo(theDB, log)
	employeeRepo := repos.NewEmployeeRepo(theDB, log)
	jobRepo := repos.NewJobRepo(theDB, log)
	jobAssignmentRepo := repos.NewJobAssignmentRepo(theDB, log)
	timeEntryRepo := repos.NewTimeEntryRepo(theDB, log)

	// Services
	log.Info("Setting up Services from main...")
	generationClient, err := services.NewGenerationClient(log)
	if err != nil {
		log.Error("Could not init GenerationClient", "error", err)
		os.Exit(1)
	}
	answerCache := services.NewRedisAnswerCache(redisAddr, redisPassword, time.Duration(cacheTTL)*time.Second, log)
	extractor := services.NewExtractor(log)
	indexerService := services.NewIndexerService(log, extractor, articleRepo)
	searchService := services.NewSearchService(log, articleRepo)
	resolverService := services.NewResolverService(log, employeeRepo, jobAssignmentRepo, timeEntryRepo, jobRepo)
	assistantService := services.NewAssistantService(log, searchService, resolverService, generationClient, answerCache)
	articleService := services.NewArticleService(log, articleRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	assistantHandler := handlers.NewAssistantHandler(log, assistantService, indexerService)
	articleHandler := handlers.NewArticleHandler(log, articleService, searchService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware, err := middleware.NewAuthMiddleware(log)
	if err != nil {
		log.Fatal("Failed to set up auth middleware", "error", err)
	}
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AssistantHandler:    assistantHandler,
		ArticleHandler:      articleHandler,
		AuthMiddleware:      authMiddleware,
		RateLimitMiddleware: rateLimitMiddleware,
		AllowOrigins:        allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
