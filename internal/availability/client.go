package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
)

var (
	ErrUnexpectedStatus     = errors.New("unexpected availability response status")
	ErrMalformedResponse    = errors.New("malformed availability response")
	ErrInvalidSessionCookie = errors.New("session cookie must look like name=value")
)

const maxBodyBytes = 1 << 20

type Client struct {
	baseURL *url.URL
	http    *http.Client
	session *http.Cookie
	log     *zap.Logger
}

type Option func(*Client) error

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.http = hc
		return nil
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) error {
		c.log = l
		return nil
	}
}

// WithSessionCookie attaches a fixed "name=value" credential to every fetch.
func WithSessionCookie(raw string) Option {
	return func(c *Client) error {
		if raw == "" {
			return nil
		}
		name, value, ok := strings.Cut(raw, "=")
		if !ok || name == "" {
			return ErrInvalidSessionCookie
		}
		c.session = &http.Cookie{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)}
		return nil
	}
}

// NewClient builds a client for the backend rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse availability base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("availability base url %q must be absolute", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type cookiesKey struct{}

// WithCookies forwards the caller's cookies on fetches made with ctx, so the
// backend sees the same session as the page that asked for the calendar.
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

func cookiesFrom(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]*http.Cookie)
	return cookies
}

func (c *Client) dayURL(roomID string, date time.Time) string {
	u := *c.baseURL
	prefix := strings.TrimRight(u.EscapedPath(), "/")
	u.RawPath = prefix + "/api/rooms/" + url.PathEscape(roomID) + "/availability/"
	u.Path = strings.TrimRight(u.Path, "/") + "/api/rooms/" + roomID + "/availability/"
	u.RawQuery = url.Values{"date": {date.Format(calendar.DateLayout)}}.Encode()
	return u.String()
}

// FetchDay requests one date's availability and converts it to the calendar
// model. Intervals with unusable or inverted times, or no availability flag,
// are skipped.
func (c *Client) FetchDay(ctx context.Context, roomID string, date time.Time) (calendar.DayAvailability, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dayURL(roomID, date), nil)
	if err != nil {
		return calendar.DayAvailability{}, fmt.Errorf("build availability request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.session != nil {
		req.AddCookie(c.session)
	}
	for _, ck := range cookiesFrom(ctx) {
		req.AddCookie(ck)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return calendar.DayAvailability{}, fmt.Errorf("fetch availability: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return calendar.DayAvailability{}, fmt.Errorf("read availability body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er ErrorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			return calendar.DayAvailability{}, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, er.Error)
		}
		return calendar.DayAvailability{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload Response
	if err := json.Unmarshal(body, &payload); err != nil {
		return calendar.DayAvailability{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	day, skipped, err := Convert(payload, date)
	if err != nil {
		return calendar.DayAvailability{}, err
	}
	if skipped > 0 {
		c.log.Warn("skipped malformed availability intervals",
			zap.String("room_id", roomID),
			zap.String("date", date.Format(calendar.DateLayout)),
			zap.Int("skipped", skipped))
	}
	return day, nil
}

// Convert validates the body against the requested date and turns its
// intervals into calendar intervals, reporting how many were unusable.
func Convert(payload Response, date time.Time) (calendar.DayAvailability, int, error) {
	want := date.Format(calendar.DateLayout)
	if payload.TimeSlots == nil {
		return calendar.DayAvailability{}, 0, fmt.Errorf("%w: time_slots missing", ErrMalformedResponse)
	}
	if payload.Date != "" && payload.Date != want {
		return calendar.DayAvailability{}, 0, fmt.Errorf("%w: asked for %s, got %s", ErrMalformedResponse, want, payload.Date)
	}

	day := calendar.DayAvailability{Date: date}
	skipped := 0
	for _, ts := range *payload.TimeSlots {
		start, err := calendar.ParseTimeOfDay(ts.Start)
		if err != nil {
			skipped++
			continue
		}
		end, err := calendar.ParseTimeOfDay(ts.End)
		if err != nil || !start.Before(end) || ts.IsAvailable == nil {
			skipped++
			continue
		}
		day.Intervals = append(day.Intervals, calendar.Interval{
			Start:     start,
			End:       end,
			Available: *ts.IsAvailable,
		})
	}
	return day, skipped, nil
}

// Ping checks that the backend origin answers at all.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}
