package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
	"github.com/hackgods/room-booking-calendar/internal/widget"
)

type RouterConfig struct {
	Fetcher      widget.Fetcher
	Upstream     Pinger
	Settings     calendar.Settings
	Booking      widget.Booking
	FetchTimeout time.Duration
	Location     *time.Location
	Now          func() time.Time
	Logger       *zap.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.Upstream, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Calendar endpoints
	cal := &calendarHandler{cfg: cfg}
	r.Get("/calendar", cal.redirect)
	r.Get("/rooms/{roomID}/calendar", cal.page)
	r.Get("/rooms/{roomID}/calendar.json", cal.json)

	return r
}
