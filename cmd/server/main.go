package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"storybook-server/internal/ai"
	"storybook-server/internal/auth"
	"storybook-server/internal/config"
	"storybook-server/internal/database"
	"storybook-server/internal/handler"
	"storybook-server/internal/imagegen"
	"storybook-server/internal/logger"
	"storybook-server/internal/repository"
	"storybook-server/internal/service"
	"storybook-server/internal/storage"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log, err := logger.New(logger.Config{
		Level:    cfg.LogLevel,
		Encoding: "json",
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)
	zap.L().Info("Logger initialized", zap.String("logLevel", cfg.LogLevel))

	// --- Database ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgPool, err := database.Connect(ctx, cfg.DatabaseURL(), cfg.DBMaxConns, log)
	if err != nil {
		zap.L().Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgPool.Close()

	migrator := database.NewMigrator(pgPool)
	if err := migrator.Up(ctx); err != nil {
		zap.L().Fatal("Failed to apply database migrations", zap.Error(err))
	}

	// --- External Clients ---
	storyClient, err := ai.New(ai.Config{
		APIKey:    cfg.AIAPIKey,
		BaseURL:   cfg.AIBaseURL,
		ModelName: cfg.AIModel,
		Timeout:   cfg.AITimeout,
	}, log)
	if err != nil {
		zap.L().Fatal("Failed to create text generation client", zap.Error(err))
	}

	imageClient, err := imagegen.New(imagegen.Config{
		BaseURL: cfg.ImageBaseURL,
		Model:   cfg.ImageModel,
		Token:   cfg.ImageAPIToken,
		Timeout: cfg.ImageTimeout,
	}, log)
	if err != nil {
		zap.L().Fatal("Failed to create image generation client", zap.Error(err))
	}

	imageStore, err := storage.NewImageStore(storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
		PublicURL: cfg.StoragePublicURL,
	}, log)
	if err != nil {
		zap.L().Fatal("Failed to create image store", zap.Error(err))
	}

	// --- Dependency Injection ---
	userRepo := repository.NewPgUserRepository(pgPool, log)
	bookRepo := repository.NewPgBookRepository(pgPool, log)

	tokenService, err := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, log)
	if err != nil {
		zap.L().Fatal("Failed to create token service", zap.Error(err))
	}

	authSvc := service.NewAuthService(userRepo, tokenService, log)
	bookSvc := service.NewBookService(storyClient, imageClient, imageStore, userRepo, bookRepo, log)
	h := handler.NewHandler(authSvc, bookSvc, cfg, log)

	// --- HTTP Server Setup (Gin) ---
	gin.SetMode(gin.ReleaseMode)
	if cfg.Env == "development" {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = true
	router.Use(handler.ZapLoggingMiddleware(log))
	router.Use(gin.Recovery())

	p := ginprometheus.NewPrometheus("gin")

	corsConfig := cors.DefaultConfig()
	allowedOrigins := cfg.GetAllowedOrigins()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
		zap.L().Info("CORSAllowedOrigins not set, allowing default", zap.String("origin", "http://localhost:3000"))
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	h.RegisterRoutes(router)

	// Prometheus middleware после регистрации роутов.
	p.Use(router)

	// --- Start HTTP Server ---
	srv := &http.Server{
		Addr:        ":" + cfg.ServerPort,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// Создание книги ждет генерацию текста и картинок, поэтому WriteTimeout большой.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	zap.L().Info("Starting HTTP server", zap.String("port", cfg.ServerPort))

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("HTTP Server listen error", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("HTTP Server forced to shutdown", zap.Error(err))
	}

	zap.L().Info("Server exiting")
}
