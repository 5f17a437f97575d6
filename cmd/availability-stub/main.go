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

	"github.com/hackgods/room-booking-calendar/internal/config"
	"github.com/hackgods/room-booking-calendar/internal/logger"
	"github.com/hackgods/room-booking-calendar/internal/stub"
	"github.com/hackgods/room-booking-calendar/internal/web"
)

// availability-stub serves fake room availability for local development of
// the calendar.
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

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := web.RequestIDMiddleware(web.LoggingMiddleware(lg)(stub.NewRouter(stub.NewGenerator(), lg)))
	srv := &http.Server{
		Addr:              ":" + cfg.StubHTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server error", zap.Error(err))
		}
	}()
	lg.Info("availability-stub listening", zap.String("addr", srv.Addr))

	<-rootCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", zap.Error(err))
	}
	lg.Info("availability-stub stopped")
}
