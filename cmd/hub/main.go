package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inknet/internal/core/services"
	httphandlers "inknet/internal/handlers/http"
	"inknet/internal/infrastructure/hub"
	"inknet/internal/infrastructure/middleware"
	"inknet/internal/infrastructure/monitoring"
	"inknet/internal/infrastructure/reliability"
	repositories "inknet/internal/infrastructure/repositories"
	"inknet/pkg/circuitbreaker"
	"inknet/pkg/config"
	"inknet/pkg/logger"
	"inknet/pkg/retry"
	"inknet/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(err)
	}

	zapLogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLogger.Sync()
	log := zapLogger.Sugar()

	// Tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "inknet-hub",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// Repositories (Redis when enabled and reachable, memory otherwise)
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	boardRepo := repoFactory.CreateBoardRepository()
	userRepo := repoFactory.CreateUserRepository()

	// Services
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)
	userService := services.NewUserService(userRepo, log)
	boardService := services.NewBoardService(boardRepo, log)

	// The hub's join path reads access records through a retrying circuit
	// breaker so a flaky store degrades joins instead of wedging them.
	boardLookup := reliability.NewBoardLookup(
		boardService,
		retry.DefaultConfig(),
		circuitbreaker.DefaultConfig(),
		log,
	)

	// Hub
	collector := monitoring.NewHubCollector()
	registry := hub.NewRegistry(log)
	relay := hub.NewRelay(registry, collector, log)
	wsServer := hub.NewServer(registry, relay, authService, boardLookup, collector, cfg, log)

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddCheck("repositories", repoFactory.HealthCheck, 2*time.Second)

	// HTTP surface
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}
	router.Use(middleware.HTTPRateLimitMiddleware(cfg))

	authHandler := httphandlers.NewAuthHandler(authService, userService, cfg.Auth.AccessTokenTTL)
	authHandler.SetupRoutes(router)

	boardHandler := httphandlers.NewBoardHandler(boardService, authService)
	boardHandler.SetupRoutes(router)

	router.GET("/ws", middleware.WSConnectionLimitMiddleware(cfg), gin.WrapF(wsServer.HandleWebSocket))

	router.GET("/health", func(c *gin.Context) {
		status := healthChecker.CheckAll(c.Request.Context())
		code := http.StatusOK
		if status.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":    status.Status,
			"timestamp": status.Timestamp,
			"uptime":    time.Since(startTime).String(),
			"checks":    status.Checks,
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repoFactory.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting inknet hub on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("received shutdown signal", "signal", sig)
	}

	log.Info("shutting down inknet hub...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("error force closing server", "error", closeErr)
		}
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("error shutting down tracer provider", "error", err)
	}

	log.Info("inknet hub stopped")
}
