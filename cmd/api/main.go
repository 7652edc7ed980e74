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

	"github.com/prometheus/client_golang/prometheus"

	appanalysis "github.com/readtheroom/readtheroom/internal/application/analysis"
	appreviews "github.com/readtheroom/readtheroom/internal/application/reviews"
	"github.com/readtheroom/readtheroom/internal/application"
	"github.com/readtheroom/readtheroom/internal/config"
	aiopenai "github.com/readtheroom/readtheroom/internal/infra/ai/openai"
	"github.com/readtheroom/readtheroom/internal/infra/httpserver"
	kvredis "github.com/readtheroom/readtheroom/internal/infra/kv/redis"
	paystripe "github.com/readtheroom/readtheroom/internal/infra/payments/stripe"
	"github.com/readtheroom/readtheroom/internal/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("config load error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// connect key-value store
	rdb, err := kvredis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Error("redis connect error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rdb.Close()

	// init repos
	analysisRepo := kvredis.NewAnalysisRepository(rdb)
	reviewRepo := kvredis.NewReviewRepository(rdb)

	// init external clients
	analyzer := aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, logger)
	gateway := paystripe.NewClient(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	// init services
	analysisSvc := &appanalysis.Service{
		Analyzer: analyzer,
		Repo:     analysisRepo,
		Payments: gateway,
		Logger:   logger,
	}
	reviewsSvc := &appreviews.Service{
		Repo:   reviewRepo,
		Clock:  application.SystemClock{},
		Logger: logger,
	}

	// init router
	handler := httpserver.NewRouter(analysisSvc, reviewsSvc, httpserver.Options{
		Logger: logger,
		HealthCheckers: map[string]middleware.HealthChecker{
			"redis": &middleware.RedisHealthChecker{Client: rdb},
		},
		Registry:       prometheus.NewRegistry(),
		AnalyzeLimiter: middleware.NewIPRateLimiter(cfg.RateLimit.AnalyzePerMinute, cfg.RateLimit.AnalyzeBurst),
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info("server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}
}
