package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
	"github.com/hackgods/room-booking-calendar/internal/widget"
)

var thursday = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type fetcherFunc func(ctx context.Context, roomID string, date time.Time) (calendar.DayAvailability, error)

func (f fetcherFunc) FetchDay(ctx context.Context, roomID string, date time.Time) (calendar.DayAvailability, error) {
	return f(ctx, roomID, date)
}

// Mornings free, afternoons booked, Wednesdays down.
func halfDay(_ context.Context, _ string, date time.Time) (calendar.DayAvailability, error) {
	if date.Weekday() == time.Wednesday {
		return calendar.DayAvailability{}, errors.New("backend down")
	}
	return calendar.DayAvailability{Date: date, Intervals: []calendar.Interval{
		{Start: calendar.TimeOfDay{Hour: 9}, End: calendar.TimeOfDay{Hour: 12}, Available: true},
		{Start: calendar.TimeOfDay{Hour: 12}, End: calendar.TimeOfDay{Hour: 17}, Available: false},
	}}, nil
}

func newController(t *testing.T) *widget.Controller {
	t.Helper()
	ctrl, err := widget.New(widget.Options{
		RoomID:   "7",
		Settings: calendar.DefaultSettings(),
		Fetcher:  fetcherFunc(halfDay),
		Location: time.UTC,
		Now:      func() time.Time { return thursday },
	})
	require.NoError(t, err)
	return ctrl
}

func TestRenderGrid(t *testing.T) {
	ctrl := newController(t)
	_ = ctrl.Show(context.Background(), thursday).Wait()

	var out bytes.Buffer
	renderGrid(&out, ctrl.Snapshot())
	got := out.String()

	assert.Contains(t, got, "Room 7, week 2026-10-12..2026-10-18")
	assert.Contains(t, got, "Mon, Oct 12")
	assert.Contains(t, got, "Sun, Oct 18")
	assert.Contains(t, got, "09:00 - 09:10")
	assert.Contains(t, got, "16:50 - 17:00")
	assert.Contains(t, got, "free")
	assert.Contains(t, got, "busy")
	assert.Contains(t, got, "ERR")
	assert.NotContains(t, got, "...")

	// 4 weekdays x (18 free + 30 busy), one failed weekday, two closed days
	assert.Contains(t, got, "free=available:72")
	assert.Contains(t, got, "busy=booked:120")
	assert.Contains(t, got, "ERR=error:48")
	assert.Contains(t, got, "-=unavailable:96")
}

func TestStep(t *testing.T) {
	ctx := context.Background()
	ctrl := newController(t)
	require.NoError(t, ignoreWednesday(ctrl.Show(ctx, thursday).Wait()))

	tests := []struct {
		input     string
		wantStart string
		wantErr   bool
	}{
		{"n", "2026-10-19", false},
		{" NEXT ", "2026-10-26", false},
		{"p", "2026-10-19", false},
		{"previous", "2026-10-12", false},
		{"p", "2026-10-05", false},
		{"t", "2026-10-12", false},
		{"x", "2026-10-12", true},
	}

	for _, tt := range tests {
		load, err := step(ctx, ctrl, tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			assert.Nil(t, load)
		} else {
			require.NoError(t, err, tt.input)
			_ = load.Wait()
		}
		assert.Equal(t, tt.wantStart, ctrl.Window().Start.Format(calendar.DateLayout), tt.input)
	}

	_, err := step(ctx, ctrl, "q")
	assert.ErrorIs(t, err, errQuit)
}

func ignoreWednesday(err error) error {
	if err != nil && strings.Contains(err.Error(), "backend down") {
		return nil
	}
	return err
}

func TestNavigate(t *testing.T) {
	ctx := context.Background()
	ctrl := newController(t)
	_ = ctrl.Show(ctx, thursday).Wait()

	var out bytes.Buffer
	in := strings.NewReader("n\nbogus\nq\nn\n")
	require.NoError(t, navigate(ctx, in, &out, ctrl, zap.NewNop()))

	got := out.String()
	assert.Contains(t, got, "week 2026-10-19..2026-10-25")
	assert.Contains(t, got, `unknown command "bogus"`)
	assert.NotContains(t, got, "2026-10-26..")
	assert.Equal(t, "2026-10-19", ctrl.Window().Start.Format(calendar.DateLayout))
}

func TestNavigate_EndOfInput(t *testing.T) {
	ctrl := newController(t)
	_ = ctrl.Show(context.Background(), thursday).Wait()

	var out bytes.Buffer
	require.NoError(t, navigate(context.Background(), strings.NewReader("p\n"), &out, ctrl, zap.NewNop()))
	assert.Contains(t, out.String(), "week 2026-10-05..2026-10-11")
}

func TestBenchConfig_Validate(t *testing.T) {
	ok := benchConfig{Rooms: []string{"1"}, Workers: 1, Duration: time.Second, Weeks: 1}
	require.NoError(t, ok.validate())

	tests := []struct {
		name   string
		mutate func(*benchConfig)
	}{
		{"no rooms", func(c *benchConfig) { c.Rooms = nil }},
		{"no workers", func(c *benchConfig) { c.Workers = 0 }},
		{"no duration", func(c *benchConfig) { c.Duration = 0 }},
		{"no weeks", func(c *benchConfig) { c.Weeks = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ok
			tt.mutate(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestLoadMetrics_Stats(t *testing.T) {
	var m loadMetrics
	avg, _, _, _, _ := m.Stats()
	assert.Zero(t, avg)

	for i := 1; i <= 100; i++ {
		m.Record(time.Duration(i)*time.Millisecond, i%10 == 0)
	}

	avg, min, max, p50, p95 := m.Stats()
	assert.Equal(t, int64(100), m.Total)
	assert.Equal(t, int64(10), m.Failed)
	assert.Equal(t, 50500*time.Microsecond, avg)
	assert.Equal(t, time.Millisecond, min)
	assert.Equal(t, 100*time.Millisecond, max)
	assert.Equal(t, 51*time.Millisecond, p50)
	assert.Equal(t, 96*time.Millisecond, p95)
}

func TestBench_Run(t *testing.T) {
	b := &bench{
		config: benchConfig{Rooms: []string{"1", "2"}, Workers: 3, Duration: 100 * time.Millisecond, Weeks: 4},
		options: widget.Options{
			Settings: calendar.DefaultSettings(),
			Fetcher:  fetcherFunc(halfDay),
			Location: time.UTC,
		},
		log: zap.NewNop(),
	}
	require.NoError(t, b.Run(context.Background()))

	assert.Positive(t, b.metrics.Total)
	// every week has a Wednesday
	assert.Equal(t, b.metrics.Total, b.metrics.Failed)

	var out bytes.Buffer
	b.Report(&out)
	assert.Contains(t, out.String(), "WEEK LOAD REPORT")
	assert.Contains(t, out.String(), "Rooms: 1, 2")
	assert.Contains(t, out.String(), "Latency: avg=")
}
