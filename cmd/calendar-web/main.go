package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/availability"
	"github.com/hackgods/room-booking-calendar/internal/config"
	"github.com/hackgods/room-booking-calendar/internal/logger"
	"github.com/hackgods/room-booking-calendar/internal/web"
	"github.com/hackgods/room-booking-calendar/internal/widget"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	lg.Info("calendar-web starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("availability_base_url", cfg.AvailabilityBaseURL),
		zap.Duration("fetch_timeout", cfg.FetchTimeout))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := availability.NewClient(cfg.AvailabilityBaseURL,
		availability.WithLogger(lg),
		availability.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}),
	)
	if err != nil {
		lg.Fatal("availability client error", zap.Error(err))
	}

	router := web.NewRouter(web.RouterConfig{
		Fetcher:      client,
		Upstream:     client,
		Settings:     cfg.Calendar,
		Booking:      widget.Booking{BaseURL: cfg.BookingBaseURL},
		FetchTimeout: cfg.FetchTimeout,
		Location:     cfg.Location,
		Logger:       lg,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server error", zap.Error(err))
		}
	}()
	lg.Info("listening", zap.String("addr", srv.Addr))

	<-rootCtx.Done()

	lg.Info("shutting down calendar-web")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
}
