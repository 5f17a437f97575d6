package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/widget"
)

type benchConfig struct {
	Rooms    []string
	Workers  int
	Duration time.Duration
	Weeks    int // weeks ahead of today a load may land on
}

func (c benchConfig) validate() error {
	if len(c.Rooms) == 0 {
		return errors.New("--rooms must name at least one room")
	}
	if c.Workers <= 0 {
		return errors.New("--workers must be > 0")
	}
	if c.Duration <= 0 {
		return errors.New("--duration must be > 0")
	}
	if c.Weeks <= 0 {
		return errors.New("--weeks must be > 0")
	}
	return nil
}

// loadMetrics records how long full week loads take.
type loadMetrics struct {
	Total     int64
	Failed    int64
	latencies []time.Duration
	mu        sync.Mutex
}

func (m *loadMetrics) Record(latency time.Duration, failed bool) {
	atomic.AddInt64(&m.Total, 1)
	if failed {
		atomic.AddInt64(&m.Failed, 1)
	}

	m.mu.Lock()
	m.latencies = append(m.latencies, latency)
	m.mu.Unlock()
}

func (m *loadMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	m.mu.Lock()
	latencies := make([]time.Duration, len(m.latencies))
	copy(latencies, m.latencies)
	m.mu.Unlock()

	if len(latencies) == 0 {
		return 0, 0, 0, 0, 0
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}
	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]
	p50 = latencies[percentile(len(latencies), 50)]
	p95 = latencies[percentile(len(latencies), 95)]
	return avg, min, max, p50, p95
}

func percentile(n, p int) int {
	idx := n * p / 100
	if idx >= n {
		idx = n - 1
	}
	return idx
}

type bench struct {
	config  benchConfig
	options widget.Options
	log     *zap.Logger
	metrics loadMetrics
}

func newBenchCommand() *cobra.Command {
	var (
		rooms string
		cfg   benchConfig
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load random weeks concurrently and report latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, r := range strings.Split(rooms, ",") {
				if r = strings.TrimSpace(r); r != "" {
					cfg.Rooms = append(cfg.Rooms, r)
				}
			}
			if err := cfg.validate(); err != nil {
				return err
			}

			e, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			b := &bench{
				config: cfg,
				options: widget.Options{
					Settings:     e.cfg.Calendar,
					Fetcher:      e.client,
					FetchTimeout: e.cfg.FetchTimeout,
					Location:     e.cfg.Location,
					Logger:       e.log,
				},
				log: e.log,
			}
			if err := b.Run(cmd.Context()); err != nil {
				return err
			}
			b.Report(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&rooms, "rooms", "", "comma separated room identifiers")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 10, "concurrent week loaders")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 30*time.Second, "how long to keep loading")
	cmd.Flags().IntVar(&cfg.Weeks, "weeks", 8, "spread loads over this many weeks from today")
	_ = cmd.MarkFlagRequired("rooms")

	return cmd
}

func (b *bench) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.config.Duration)
	defer cancel()

	b.log.Info("bench starting",
		zap.Strings("rooms", b.config.Rooms),
		zap.Int("workers", b.config.Workers),
		zap.Duration("duration", b.config.Duration))

	// one controller per worker and room keeps generations independent
	controllers := make([][]*widget.Controller, b.config.Workers)
	for w := range controllers {
		for _, room := range b.config.Rooms {
			opts := b.options
			opts.RoomID = room
			ctrl, err := widget.New(opts)
			if err != nil {
				return err
			}
			controllers[w] = append(controllers[w], ctrl)
		}
	}

	var wg sync.WaitGroup
	for w := 0; w < b.config.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			b.worker(ctx, workerID, controllers[workerID])
		}(w)
	}
	wg.Wait()

	b.log.Info("bench complete", zap.Int64("loads", atomic.LoadInt64(&b.metrics.Total)))
	return nil
}

func (b *bench) worker(ctx context.Context, workerID int, controllers []*widget.Controller) {
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(workerID)))

	for ctx.Err() == nil {
		ctrl := controllers[rng.IntN(len(controllers))]
		ref := time.Now().AddDate(0, 0, 7*rng.IntN(b.config.Weeks))

		start := time.Now()
		err := ctrl.Show(ctx, ref).Wait()
		if ctx.Err() != nil {
			// cut short by the deadline, not a real measurement
			return
		}
		b.metrics.Record(time.Since(start), err != nil)
	}
}

func (b *bench) Report(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "WEEK LOAD REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Duration: %s\n", b.config.Duration)
	fmt.Fprintf(w, "Workers: %d\n", b.config.Workers)
	fmt.Fprintf(w, "Rooms: %s\n", strings.Join(b.config.Rooms, ", "))

	total := atomic.LoadInt64(&b.metrics.Total)
	if total == 0 {
		fmt.Fprintln(w, "No loads completed.")
		return
	}
	failed := atomic.LoadInt64(&b.metrics.Failed)
	avg, min, max, p50, p95 := b.metrics.Stats()

	fmt.Fprintf(w, "Loads: %d\n", total)
	fmt.Fprintf(w, "With failed days: %d (%.1f%%)\n", failed, float64(failed)/float64(total)*100)
	fmt.Fprintf(w, "Latency: avg=%s min=%s max=%s p50=%s p95=%s\n",
		avg.Round(time.Millisecond), min.Round(time.Millisecond), max.Round(time.Millisecond),
		p50.Round(time.Millisecond), p95.Round(time.Millisecond))
}
