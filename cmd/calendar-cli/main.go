package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/availability"
	"github.com/hackgods/room-booking-calendar/internal/config"
	"github.com/hackgods/room-booking-calendar/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "calendar-cli",
	Short:         "Browse room availability week by week from the terminal.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newWeekCommand())
	rootCmd.AddCommand(newBenchCommand())
}

// env is what every subcommand needs before it can load a week.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	client *availability.Client
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	// stdout carries the grid
	lg, err := logger.New(cfg.Env, cfg.LogLevel, "stderr")
	if err != nil {
		return nil, fmt.Errorf("logger init: %w", err)
	}

	opts := []availability.Option{availability.WithLogger(lg)}
	if cfg.SessionCookie != "" {
		opts = append(opts, availability.WithSessionCookie(cfg.SessionCookie))
	}
	client, err := availability.NewClient(cfg.AvailabilityBaseURL, opts...)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, log: lg, client: client}, nil
}
