package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"wedding/guesthub/internal/config"
	"wedding/guesthub/internal/handler"
	"wedding/guesthub/internal/idp"
	"wedding/guesthub/internal/model"
	"wedding/guesthub/internal/repository"
	"wedding/guesthub/internal/service"
	jwtpkg "wedding/guesthub/pkg/jwt"
)

func main() {
	// 1. Load configuration
	configPath := os.Getenv("GUESTHUB_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	// 3. Connect to the database
	db, err := config.NewDatabase(cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.AutoMigrateEnabled() {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize state store (Redis or in-memory)
	var stateStore repository.StateStore
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		stateStore = repository.NewRedisStateStore(redisClient)
		logger.Info("using Redis state store")
	case "memory":
		stateStore = repository.NewMemoryStateStore()
		logger.Info("using in-memory state store")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 6. Initialize repositories
	guestRepo := repository.NewPGGuestRepository(db)
	profileRepo := repository.NewPGProfileRepository(db)
	linkRepo := repository.NewPGLinkRepository(db)

	// 7. Privileged account listing (optional)
	var accountLister repository.AccountLister
	if client := idp.NewAdminClient(cfg.Identity); client != nil {
		accountLister = client
		logger.Info("identity provider admin listing enabled", zap.String("admin_url", cfg.Identity.AdminURL))
	} else {
		logger.Info("identity provider admin listing disabled, unlinked users come from profiles")
	}

	// 8. Initialize JWT manager
	jwtManager := jwtpkg.NewManager(cfg.JWT.SigningKey, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)

	// 9. Initialize services
	guestService := service.NewGuestService(guestRepo, profileRepo, linkRepo, accountLister, logger)
	signupService := service.NewSignupService(
		profileRepo, guestService, stateStore,
		cfg.State.SignupTTL, cfg.State.SignupUnmatchedTTL, logger,
	)

	// 10. Initialize handlers
	signupHandler := handler.NewSignupHandler(signupService)
	guestHandler := handler.NewGuestHandler(guestService)
	var adminHandler *handler.AdminHandler
	if len(cfg.Admin.UserIDs) > 0 {
		adminHandler = handler.NewAdminHandler(guestService, signupService, logger)
	} else {
		logger.Warn("no admin user ids configured, admin routes disabled")
	}

	// 11. Setup router
	router := handler.SetupRouter(cfg, logger, jwtManager, signupHandler, guestHandler, adminHandler)

	// 12. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 13. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 14. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
