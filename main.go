package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vazarkarshreya23-bit/govbot/config"
	"github.com/vazarkarshreya23-bit/govbot/database"
	"github.com/vazarkarshreya23-bit/govbot/handler"
	"github.com/vazarkarshreya23-bit/govbot/middleware"
	"github.com/vazarkarshreya23-bit/govbot/pkg/logger"
	"github.com/vazarkarshreya23-bit/govbot/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Connect to Postgres and initialize the schema
	pg, err := database.NewPostgres(cfg.Postgres)
	if err != nil {
		slog.Error("failed to open postgres", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStartup()

	if err := pg.Ping(startupCtx); err != nil {
		slog.Error("postgres unreachable", "error", err)
		os.Exit(1)
	}

	store := service.NewApplicationStore(pg.DB)
	if err := store.CreateTables(startupCtx); err != nil {
		slog.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	// Connect to Redis for the session carrier
	rdb := database.NewRedis(cfg.Redis)
	defer rdb.Close()

	if err := rdb.Ping(startupCtx); err != nil {
		slog.Error("redis unreachable", "error", err)
		os.Exit(1)
	}

	sessions := service.NewSessionStore(rdb, time.Duration(cfg.Session.TTLMinutes)*time.Minute)
	engine := service.NewDialogEngine(store)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(engine, sessions, cfg.Session.CookieName)
	adminHandler := handler.NewAdminHandler(store, &cfg.Auth)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimit(100, time.Minute))

	// Static pages for the chat widget and admin panel
	router.StaticFile("/", "./web/index.html")
	router.StaticFile("/index.html", "./web/index.html")
	router.StaticFile("/admin.html", "./web/admin.html")

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/chat", chatHandler.Chat)
		api.POST("/reset", chatHandler.Reset)
		api.POST("/admin/login", adminHandler.Login)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(&cfg.Auth))
	{
		admin.GET("/applications", adminHandler.ListApplications)
		admin.PUT("/applications/:app_id/status", adminHandler.UpdateStatus)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}
