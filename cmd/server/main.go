package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ErlanBelekov/order-tracker/config"
	"github.com/ErlanBelekov/order-tracker/internal/authstate"
	"github.com/ErlanBelekov/order-tracker/internal/email"
	"github.com/ErlanBelekov/order-tracker/internal/health"
	"github.com/ErlanBelekov/order-tracker/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/order-tracker/internal/log"
	"github.com/ErlanBelekov/order-tracker/internal/metrics"
	"github.com/ErlanBelekov/order-tracker/internal/sanitize"
	"github.com/ErlanBelekov/order-tracker/internal/scheduler"
	httptransport "github.com/ErlanBelekov/order-tracker/internal/transport/http"
	"github.com/ErlanBelekov/order-tracker/internal/transport/http/handler"
	"github.com/ErlanBelekov/order-tracker/internal/transport/http/middleware"
	"github.com/ErlanBelekov/order-tracker/internal/usecase"
	"github.com/ErlanBelekov/order-tracker/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			stop()
			pool.Close()
			log.Fatalf("migrate: %v", err)
		}
		logger.Info("migrations applied")
	}

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	shipmentRepo := postgres.NewShipmentRepository(pool)

	// Use cases
	mailer := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)
	authUsecase := usecase.NewAuthUsecase(userRepo, mailer, []byte(cfg.JWTSecret), cfg.ResetLinkBaseURL)
	orderUsecase := usecase.NewOrderUsecase(orderRepo, shipmentRepo, userRepo, sanitize.NewReviewer(), metrics.Orders{})
	shipmentUsecase := usecase.NewShipmentUsecase(shipmentRepo, orderRepo)
	userUsecase := usecase.NewUserUsecase(userRepo)

	metrics.Register()
	sessions := authstate.NewStore(logger, prometheus.DefaultRegisterer)
	checker := health.NewChecker(logger, prometheus.DefaultRegisterer,
		health.Dependency{Name: "postgres", Pinger: pool},
		health.Dependency{Name: "sessions", Pinger: sessions},
	)

	renderer, err := web.NewRenderer()
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("templates: %v", err)
	}

	pages := web.NewHandler(web.Deps{
		Sessions:      sessions,
		Auth:          authUsecase,
		Orders:        orderUsecase,
		Shipments:     shipmentUsecase,
		Users:         userUsecase,
		SecureCookies: cfg.SecureCookies(),
	}, logger)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRatePerMinute, logger)

	router := httptransport.NewRouter(logger, httptransport.RouterConfig{
		JWTKey:         []byte(cfg.JWTSecret),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		HSTS:           cfg.SecureCookies(),
	}, httptransport.Handlers{
		Auth:     handler.NewAuthHandler(authUsecase, logger),
		Order:    handler.NewOrderHandler(orderUsecase, logger),
		Shipment: handler.NewShipmentHandler(shipmentUsecase, logger),
		User:     handler.NewUserHandler(userUsecase, logger),
		Web:      pages,
		Renderer: renderer,
	}, loginLimiter)

	sweeper, err := scheduler.NewSweeper(sessions, cfg.SessionSweepSchedule, cfg.SessionIdleTimeout, logger)
	if err != nil {
		stop()
		pool.Close()
		log.Fatalf("sweeper: %v", err)
	}

	// The sweeper outlives the signal context so it stops only after HTTP has drained.
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Start(sweepCtx)
	}()

	srv := http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}

	stopSweep()
	wg.Wait()
	loginLimiter.Stop()
	sessions.Close()

	logger.Info("server shut down")
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
