package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xela07ax/bestcdn-board/internal/console/handler"
	"github.com/xela07ax/bestcdn-board/internal/console/server"
	"github.com/xela07ax/bestcdn-board/internal/console/service"
	"github.com/xela07ax/bestcdn-board/internal/dashboard"
	"github.com/xela07ax/bestcdn-board/internal/infra"
	"github.com/xela07ax/bestcdn-board/internal/repository/postgres"
	redisrepo "github.com/xela07ax/bestcdn-board/internal/repository/redis"
)

func main() {
	// 1. Конфигурация и логгер
	cfg, err := infra.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := infra.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Метрики
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := infra.NewMetrics(reg)

	// 3. Хранилище (Redis или Postgres) + предохранитель
	store, closeStore, err := openStore(appCtx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	if err := waitForStore(appCtx, store, cfg.Store, logger); err != nil {
		logger.Fatal("store unreachable", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	guarded := service.NewGuardedReader(store, service.BreakerSettings{
		MaxRequests:      cfg.Breaker.MaxRequests,
		Interval:         cfg.Breaker.Interval,
		Timeout:          cfg.Breaker.Timeout,
		FailureThreshold: cfg.Breaker.FailureThreshold,
	}, logger, func(s gobreaker.State) {
		metrics.CircuitBreakerState.Set(float64(s))
	})

	// 4. Слои (Dependency Injection)
	snapshots := service.NewSnapshotService(guarded, metrics, logger)

	renderer, err := dashboard.NewRenderer()
	if err != nil {
		logger.Fatal("failed to load page template", zap.Error(err))
	}

	dashH := handler.NewDashboardHandler(snapshots, renderer, settingsFrom(cfg.Dashboard), metrics, logger)
	dashSrv := server.NewDashboardServer(cfg.Server, logger, metrics, dashH)

	// Экспортируем метрики для Prometheus на отдельном порту
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			logger.Info("metrics endpoint started", zap.String("addr", cfg.Metrics.Addr))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	// 5. HTTP Server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      dashSrv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("dashboard started",
			zap.String("addr", srv.Addr),
			zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("dashboard stopping...")

	// Даем 5 секунд на завершение запросов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("dashboard exited properly")
}

func openStore(ctx context.Context, cfg *infra.Config) (service.KVReader, func(), error) {
	switch cfg.Store.Driver {
	case infra.StoreDriverPostgres:
		repo, err := postgres.NewKVRepo(ctx, cfg.Database.URL, cfg.Database.Table, cfg.Store.KeyPrefix, cfg.Database.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil

	default:
		rdb := redis.NewClient(&redis.Options{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MaxRetries: cfg.Redis.MaxRetries,
		})
		return redisrepo.NewKVRepo(rdb, cfg.Store.KeyPrefix), func() { _ = rdb.Close() }, nil
	}
}

// waitForStore ждёт хранилище при старте (контейнер Redis/Postgres может подниматься дольше нас).
// Повторы только здесь: обработка запросов хранилище не переспрашивает.
func waitForStore(ctx context.Context, store service.KVReader, cfg infra.StoreConfig, logger *zap.Logger) error {
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(cfg.StartupAttempts),
		retry.Delay(cfg.StartupDelay),
		retry.LastErrorOnly(true),
	)

	attempt := 0
	return r.Do(func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()

		if err := store.Ping(pingCtx); err != nil {
			logger.Warn("store is not ready yet", zap.Int("attempt", attempt), zap.Error(err))
			return err
		}
		return nil
	})
}

func settingsFrom(c infra.DashboardConfig) dashboard.Settings {
	return dashboard.Settings{
		Provider:             c.Provider,
		Domain:               c.Domain,
		Wildcard:             c.Wildcard,
		CheckIntervalMinutes: c.CheckInterval,
		RefreshIntervalHours: c.RefreshInterval,
		SourceURL:            c.SourceURL,
	}
}
