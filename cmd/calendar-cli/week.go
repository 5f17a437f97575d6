package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
	"github.com/hackgods/room-booking-calendar/internal/widget"
)

func newWeekCommand() *cobra.Command {
	var (
		roomID      string
		date        string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the availability grid of a room for one week",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			ref := time.Now().In(e.cfg.Location)
			if date != "" {
				ref, err = time.ParseInLocation(calendar.DateLayout, date, e.cfg.Location)
				if err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
			}

			ctrl, err := widget.New(widget.Options{
				RoomID:       roomID,
				Settings:     e.cfg.Calendar,
				Fetcher:      e.client,
				Booking:      widget.Booking{BaseURL: e.cfg.BookingBaseURL},
				FetchTimeout: e.cfg.FetchTimeout,
				Location:     e.cfg.Location,
				Logger:       e.log,
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			show(out, ctrl, ctrl.Show(ctx, ref), e.log)
			if !interactive {
				return nil
			}
			return navigate(ctx, cmd.InOrStdin(), out, ctrl, e.log)
		},
	}

	cmd.Flags().StringVar(&roomID, "room", "", "room identifier")
	cmd.Flags().StringVar(&date, "date", "", "any date inside the wanted week, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read n/p/t/q from stdin to move between weeks")
	_ = cmd.MarkFlagRequired("room")

	return cmd
}

// show waits for the week to settle and prints it. Failed days stay in the
// grid as errors.
func show(out io.Writer, ctrl *widget.Controller, load *widget.Load, log *zap.Logger) {
	if err := load.Wait(); err != nil {
		log.Warn("some days failed to load",
			zap.String("window", load.Window.String()),
			zap.Error(err))
	}
	renderGrid(out, ctrl.Snapshot())
}

var errQuit = errors.New("quit")

func navigate(ctx context.Context, in io.Reader, out io.Writer, ctrl *widget.Controller, log *zap.Logger) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "[n]ext [p]revious [t]oday [q]uit > ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		load, err := step(ctx, ctrl, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		show(out, ctrl, load, log)
	}
}

func step(ctx context.Context, ctrl *widget.Controller, input string) (*widget.Load, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "n", "next":
		return ctrl.Next(ctx), nil
	case "p", "prev", "previous":
		return ctrl.Previous(ctx), nil
	case "t", "today":
		return ctrl.Current(ctx), nil
	case "q", "quit":
		return nil, errQuit
	default:
		return nil, fmt.Errorf("unknown command %q", input)
	}
}
