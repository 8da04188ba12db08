package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	_ "socialhub/docs" // swagger docs

	"socialhub/internal/auth"
	"socialhub/internal/cache"
	"socialhub/internal/config"
	"socialhub/internal/db"
	"socialhub/internal/handler"
	"socialhub/internal/logging"
	"socialhub/internal/repository"
	"socialhub/internal/router"
	"socialhub/internal/service"
	"socialhub/internal/storage"
)

// @title Social Hub API
// @version 1.0
// @description Social backend with posts, threaded comments, user profiles and JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config init", "error", err)
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		slog.Error("logger init", "error", err)
		return err
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		LogSQL:          cfg.LogLevel == "debug",
	})
	if err != nil {
		logger.Error("database init", "error", err)
		return err
	}
	defer db.Close(gormDB)

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Error("reset database", "error", err)
			return err
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Error("migrate database", "error", err)
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn("redis unavailable, token revocation disabled until it recovers", "error", err)
	}

	imageStore := storage.NewHTTPImageStore(storage.Config{
		URL:     cfg.ImageUploadURL,
		Token:   cfg.ImageUploadToken,
		Folder:  cfg.ImageUploadFolder,
		Timeout: cfg.ImageUploadTimeout,
	})
	defer imageStore.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	revocations := auth.NewRevocationStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, revocations)
	postService := service.NewPostService(postRepo, imageStore)
	commentService := service.NewCommentService(commentRepo, postRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		cfg,
		logger,
		auth.NewGuard(jwtService, revocations),
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewPostHandler(postService),
		handler.NewCommentHandler(commentService),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "swagger", "/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server start", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
		return err
	}
	return nil
}
