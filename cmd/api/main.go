package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yashvavaliya/DBC-new-section/internal/cache"
	"github.com/yashvavaliya/DBC-new-section/internal/config"
	"github.com/yashvavaliya/DBC-new-section/internal/database"
	"github.com/yashvavaliya/DBC-new-section/internal/handler"
	"github.com/yashvavaliya/DBC-new-section/internal/middleware"
	"github.com/yashvavaliya/DBC-new-section/internal/repository"
	"github.com/yashvavaliya/DBC-new-section/internal/service"
	"github.com/yashvavaliya/DBC-new-section/internal/sse"
	"github.com/yashvavaliya/DBC-new-section/internal/utils"
	"github.com/yashvavaliya/DBC-new-section/internal/worker"
)

// main is the application entrypoint for the digital business card API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting dbc api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.Migrate(db); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	catalogCache := cache.NewCatalogCache(redisClient, cfg.Cache.CatalogTTL)

	// 4. Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db)
	cardRepo := repository.NewCardRepository(db)
	socialLinkRepo := repository.NewSocialLinkRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	callbackRepo := repository.NewCallbackRepository(db)

	// 5. Initialize change listeners: SSE hub for admin clients, webhook
	// delivery for card owners' own backends.
	hub := sse.NewHub()
	hubNotifier := sse.NewHubNotifier(hub)
	callbackSvc := service.NewCallbackService(cardRepo, callbackRepo)

	// 6. Initialize services
	catalogSvc := service.NewCatalogService(catalogRepo, catalogCache, hubNotifier, callbackSvc)
	cardSvc := service.NewCardService(cardRepo)
	socialSvc := service.NewSocialService(socialLinkRepo, cardRepo)
	authSvc := service.NewAuthService(adminRepo)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(db, redisClient),
		Auth:    handler.NewAuthHandler(authSvc),
		Card:    handler.NewCardHandler(cardSvc, catalogSvc, socialSvc),
		Catalog: handler.NewCatalogHandler(catalogSvc, cardSvc),
		Social:  handler.NewSocialHandler(socialSvc, cardSvc),
		SSE:     handler.NewSSEHandler(hub),
	}

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, middleware.NewJWTMiddleware())

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start callback retry worker
	go worker.NewCallbackWorker(callbackSvc, cfg.Worker.CallbackInterval).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Card    *handler.CardHandler
	Catalog *handler.CatalogHandler
	Social  *handler.SocialHandler
	SSE     *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Public card view
	router.GET("/v1/cards/:slug", handlers.Card.GetPublicCard)
	router.GET("/v1/cards/:slug/products", handlers.Catalog.GetPublicCatalog)
	router.GET("/v1/social/platforms", handlers.Social.ListPlatforms)

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)

	// SSE authenticates via query param, not Authorization header.
	admin.GET("/events", handlers.SSE.Stream)

	admin.Use(jwtMiddleware.Handle())
	{
		// Card Management
		admin.POST("/cards", handlers.Card.CreateCard)
		admin.GET("/cards", handlers.Card.ListCards)
		admin.GET("/cards/:id", handlers.Card.GetCard)
		admin.PUT("/cards/:id", handlers.Card.UpdateCard)
		admin.DELETE("/cards/:id", handlers.Card.DeleteCard)
		admin.POST("/cards/:id/regenerate-secret", handlers.Card.RegenerateSecret)

		// Product Catalog Management
		admin.GET("/cards/:id/products", handlers.Catalog.ListProducts)
		admin.POST("/cards/:id/products", handlers.Catalog.CreateProduct)
		admin.PUT("/cards/:id/products/:productId", handlers.Catalog.UpdateProduct)
		admin.DELETE("/cards/:id/products/:productId", handlers.Catalog.DeleteProduct)

		// Social Link Management
		admin.GET("/cards/:id/social-links", handlers.Social.ListLinks)
		admin.PUT("/cards/:id/social-links", handlers.Social.ReplaceLinks)
		admin.POST("/cards/:id/social-links/auto-sync", handlers.Social.AutoSync)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
