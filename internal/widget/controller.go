package widget

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
)

var (
	ErrMissingRoom    = errors.New("room identifier is missing")
	ErrMissingFetcher = errors.New("availability fetcher is required")
)

const DefaultFetchTimeout = 10 * time.Second

// Fetcher loads one date's availability for a room.
type Fetcher interface {
	FetchDay(ctx context.Context, roomID string, date time.Time) (calendar.DayAvailability, error)
}

// Renderer is told about every grid change. Calls are made while the
// controller holds its lock, so they arrive in order and must not call back
// into the controller.
type Renderer interface {
	RenderWeek(week WeekView)
	RenderDay(window calendar.WeekWindow, day DayView)
}

type Options struct {
	RoomID       string
	Settings     calendar.Settings
	Fetcher      Fetcher
	Renderer     Renderer
	Booking      Booking
	FetchTimeout time.Duration
	Location     *time.Location
	Now          func() time.Time
	Logger       *zap.Logger
}

type day struct {
	date   time.Time
	closed bool
	ids    []calendar.SlotID
}

// Controller owns the displayed week of one room. Every navigation rebuilds
// the grid from scratch and starts one fetch per open day; results that
// belong to an older navigation are dropped.
type Controller struct {
	opts  Options
	slots []calendar.Slot
	log   *zap.Logger

	mu         sync.Mutex
	window     calendar.WeekWindow
	generation uint64
	days       []day
	views      map[calendar.SlotID]*SlotView
}

func New(opts Options) (*Controller, error) {
	opts.RoomID = strings.TrimSpace(opts.RoomID)
	if opts.RoomID == "" {
		return nil, ErrMissingRoom
	}
	if opts.Fetcher == nil {
		return nil, ErrMissingFetcher
	}
	slots, err := calendar.GenerateSlots(opts.Settings)
	if err != nil {
		return nil, fmt.Errorf("generate slots: %w", err)
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Controller{
		opts:  opts,
		slots: slots,
		log:   opts.Logger.With(zap.String("room_id", opts.RoomID)),
		views: make(map[calendar.SlotID]*SlotView),
	}, nil
}

// Load tracks the fetches started by one navigation.
type Load struct {
	Window calendar.WeekWindow
	group  *errgroup.Group
}

// Wait blocks until every fetch of the navigation has settled and returns the
// first fetch failure. Failed days are already marked in the grid.
func (l *Load) Wait() error {
	return l.group.Wait()
}

// Show displays the week containing ref.
func (c *Controller) Show(ctx context.Context, ref time.Time) *Load {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	gen := c.generation
	c.window = calendar.NewWeekWindow(ref.In(c.opts.Location))
	c.views = make(map[calendar.SlotID]*SlotView, 7*len(c.slots))
	c.days = c.days[:0]

	var open []time.Time
	for _, date := range c.window.Days() {
		d := day{date: date, closed: c.opts.Settings.Closed(date)}
		state := calendar.StateLoading
		if d.closed {
			state = calendar.StateUnavailable
		} else {
			open = append(open, date)
		}
		for _, r := range calendar.Fill(date, c.slots, state) {
			d.ids = append(d.ids, r.ID)
			c.views[r.ID] = c.view(date, r)
		}
		c.days = append(c.days, d)
	}

	c.log.Debug("showing week",
		zap.String("window", c.window.String()),
		zap.Int("fetches", len(open)))

	if c.opts.Renderer != nil {
		c.opts.Renderer.RenderWeek(c.snapshot())
	}

	load := &Load{Window: c.window, group: new(errgroup.Group)}
	for _, date := range open {
		window := c.window
		load.group.Go(func() error {
			return c.loadDay(ctx, gen, window, date)
		})
	}
	return load
}

// Next shows the following week.
func (c *Controller) Next(ctx context.Context) *Load {
	return c.Show(ctx, c.Window().Start.AddDate(0, 0, 7))
}

// Previous shows the preceding week.
func (c *Controller) Previous(ctx context.Context) *Load {
	return c.Show(ctx, c.Window().Start.AddDate(0, 0, -7))
}

// Current shows the week containing today.
func (c *Controller) Current(ctx context.Context) *Load {
	return c.Show(ctx, c.opts.Now())
}

func (c *Controller) Window() calendar.WeekWindow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.window
}

// Slot returns the current view of one cell.
func (c *Controller) Slot(id calendar.SlotID) (SlotView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[id]
	if !ok {
		return SlotView{}, false
	}
	return *v, true
}

// Snapshot copies the whole grid.
func (c *Controller) Snapshot() WeekView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) loadDay(ctx context.Context, gen uint64, window calendar.WeekWindow, date time.Time) error {
	dateStr := date.Format(calendar.DateLayout)
	c.log.Debug("fetching availability", zap.String("date", dateStr))

	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	avail, err := c.opts.Fetcher.FetchDay(fetchCtx, c.opts.RoomID, date)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.log.Debug("discarding stale availability",
			zap.String("date", dateStr),
			zap.String("fetched_for", window.String()),
			zap.String("displayed", c.window.String()))
		return nil
	}

	var rs []calendar.Resolution
	if err != nil {
		c.log.Warn("availability fetch failed", zap.String("date", dateStr), zap.Error(err))
		rs = calendar.Fill(date, c.slots, calendar.StateError)
		err = fmt.Errorf("load %s: %w", dateStr, err)
	} else {
		rs = calendar.Resolve(date, c.slots, avail)
		c.log.Debug("availability applied",
			zap.String("date", dateStr),
			zap.Int("intervals", len(avail.Intervals)))
	}

	for _, r := range rs {
		c.views[r.ID] = c.view(date, r)
	}

	if c.opts.Renderer != nil {
		for _, d := range c.days {
			if d.date.Equal(date) {
				c.opts.Renderer.RenderDay(window, c.dayView(d))
				break
			}
		}
	}
	return err
}

func (c *Controller) view(date time.Time, r calendar.Resolution) *SlotView {
	v := &SlotView{
		ID:    r.ID,
		Date:  date.Format(calendar.DateLayout),
		Start: r.Slot.Start.String(),
		End:   r.Slot.End.String(),
		State: r.State,
		Title: title(date, r),
	}
	if r.State == calendar.StateAvailable {
		v.BookingURL = c.opts.Booking.Target(c.opts.RoomID, date, r.Slot)
	}
	return v
}

func (c *Controller) dayView(d day) DayView {
	dv := DayView{
		Date:   d.date,
		Short:  calendar.ShortLabel(d.date),
		Long:   calendar.LongLabel(d.date),
		Closed: d.closed,
		Slots:  make([]SlotView, 0, len(d.ids)),
	}
	for _, id := range d.ids {
		dv.Slots = append(dv.Slots, *c.views[id])
	}
	return dv
}

func (c *Controller) snapshot() WeekView {
	w := WeekView{
		RoomID: c.opts.RoomID,
		Window: c.window,
		Start:  c.window.Start.Format(calendar.DateLayout),
		End:    c.window.End.Format(calendar.DateLayout),
		Slots:  append([]calendar.Slot(nil), c.slots...),
		Days:   make([]DayView, 0, len(c.days)),
	}
	for _, d := range c.days {
		w.Days = append(w.Days, c.dayView(d))
	}
	return w
}
