package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cimillas/ticket-reserve/internal/app"
	"github.com/cimillas/ticket-reserve/internal/clock"
	"github.com/cimillas/ticket-reserve/internal/config"
	"github.com/cimillas/ticket-reserve/internal/metrics"
	"github.com/cimillas/ticket-reserve/internal/notify"
	"github.com/cimillas/ticket-reserve/internal/reaper"
	"github.com/cimillas/ticket-reserve/internal/storage/postgres"
	transporthttp "github.com/cimillas/ticket-reserve/internal/transport/http"
	"github.com/cimillas/ticket-reserve/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load(logger)
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(startupCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	var notifier notify.OrderPublisher = notify.Noop{}
	if cfg.AMQPURL != "" {
		rabbit, err := notify.NewRabbitPublisher(cfg.AMQPURL, "")
		if err != nil {
			logger.Fatal("connect to broker", zap.Error(err))
		}
		defer func() { _ = rabbit.Close() }()
		notifier = rabbit
	}

	m := metrics.New()
	clk := clock.NewSystem()

	reservationRepo := postgres.NewReservationRepository(pool)
	reservationSvc := app.NewReservationService(reservationRepo, clk,
		app.WithHoldTTL(cfg.HoldTTL),
		app.WithPendingTTL(cfg.PendingTTL),
	)
	orderRepo := postgres.NewOrderRepository(pool)
	orderSvc := app.NewOrderService(orderRepo, clk, notifier, logger)
	adminRepo := postgres.NewAdminRepository(pool)
	adminSvc := app.NewAdminService(adminRepo, clk)

	handler := transporthttp.NewRouter(transporthttp.RouterDeps{
		Reservations: reservationSvc,
		Orders:       orderSvc,
		Admin:        adminSvc,
		Logger:       logger,
		Metrics:      m,
		JWTSecret:    []byte(cfg.JWTSecret),
		CORSOrigins:  parseCSV(cfg.CORSOrigins),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	sweep := reaper.New(reservationRepo, clk, logger, m, reaper.WithInterval(cfg.ReapInterval))
	go sweep.Run(reaperCtx)

	logger.Info("api listening", zap.String("port", cfg.Port))

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	stopReaper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func parseCSV(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
