package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
)

type Config struct {
	Env                 string        // dev, prod
	LogLevel            string        // debug, info, warn, error
	HTTPPort            string        // calendar-web, default 8080
	StubHTTPPort        string        // availability-stub, default 8081
	AvailabilityBaseURL string        // origin of the availability backend
	SessionCookie       string        // name=value credential used by the cli
	BookingBaseURL      string        // prefix of click-to-book targets
	Calendar            calendar.Settings
	Location            *time.Location
	FetchTimeout        time.Duration // per-day availability fetch bound
	ShutdownTimeout     time.Duration // graceful shutdown timeout
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                 getEnv("APP_ENV", "dev"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		StubHTTPPort:        getEnv("STUB_HTTP_PORT", "8081"),
		AvailabilityBaseURL: getEnv("AVAILABILITY_BASE_URL", "http://127.0.0.1:8081"),
		SessionCookie:       os.Getenv("AVAILABILITY_SESSION_COOKIE"),
		BookingBaseURL:      os.Getenv("BOOKING_BASE_URL"),
		FetchTimeout:        getDuration("FETCH_TIMEOUT", 10*time.Second),
		ShutdownTimeout:     getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	u, err := url.Parse(cfg.AvailabilityBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("AVAILABILITY_BASE_URL must be an absolute url, got %q", cfg.AvailabilityBaseURL)
	}

	cal, err := loadCalendar()
	if err != nil {
		return Config{}, err
	}
	cfg.Calendar = cal

	loc, err := time.LoadLocation(getEnv("CALENDAR_TIMEZONE", "Local"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid CALENDAR_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

func loadCalendar() (calendar.Settings, error) {
	s := calendar.DefaultSettings()

	start, err := calendar.ParseTimeOfDay(getEnv("CALENDAR_DAY_START", s.DayStart.String()))
	if err != nil {
		return s, fmt.Errorf("invalid CALENDAR_DAY_START: %w", err)
	}
	end, err := calendar.ParseTimeOfDay(getEnv("CALENDAR_DAY_END", s.DayEnd.String()))
	if err != nil {
		return s, fmt.Errorf("invalid CALENDAR_DAY_END: %w", err)
	}
	minutes, err := strconv.Atoi(getEnv("CALENDAR_SLOT_MINUTES", strconv.Itoa(s.SlotMinutes)))
	if err != nil {
		return s, errors.New("CALENDAR_SLOT_MINUTES must be an integer")
	}
	exclude, err := strconv.ParseBool(getEnv("CALENDAR_EXCLUDE_WEEKENDS", "true"))
	if err != nil {
		return s, errors.New("CALENDAR_EXCLUDE_WEEKENDS must be a boolean")
	}

	s.DayStart = start
	s.DayEnd = end
	s.SlotMinutes = minutes
	s.ExcludeWeekends = exclude

	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("invalid calendar settings: %w", err)
	}
	return s, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	}
	return def
}
