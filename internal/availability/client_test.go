package availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
)

var testDate = time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestFetchDay_Success(t *testing.T) {
	var gotPath, gotDate, gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotDate = r.URL.Query().Get("date")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"room":{"id":7},"date":"2026-10-13","time_slots":[
			{"start":"09:00","end":"10:00","is_available":true,"datetime_start":"2026-10-13T09:00:00"},
			{"start":"10:00","end":"11:00","is_available":false}
		]}`))
	})

	day, err := c.FetchDay(context.Background(), "7", testDate)
	require.NoError(t, err)

	assert.Equal(t, "/api/rooms/7/availability/", gotPath)
	assert.Equal(t, "2026-10-13", gotDate)
	assert.NotEmpty(t, gotRequestID)
	require.Len(t, day.Intervals, 2)
	assert.Equal(t, calendar.Interval{
		Start:     calendar.MustParseTimeOfDay("09:00"),
		End:       calendar.MustParseTimeOfDay("10:00"),
		Available: true,
	}, day.Intervals[0])
	assert.False(t, day.Intervals[1].Available)
	assert.True(t, day.Date.Equal(testDate))
}

func TestFetchDay_SendsCredentials(t *testing.T) {
	var cookies []*http.Cookie
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cookies = r.Cookies()
		_, _ = w.Write([]byte(`{"time_slots":[]}`))
	}, WithSessionCookie("sessionid=abc123"))

	ctx := WithCookies(context.Background(), []*http.Cookie{{Name: "csrftoken", Value: "xyz"}})
	_, err := c.FetchDay(ctx, "7", testDate)
	require.NoError(t, err)

	names := map[string]string{}
	for _, ck := range cookies {
		names[ck.Name] = ck.Value
	}
	assert.Equal(t, "abc123", names["sessionid"])
	assert.Equal(t, "xyz", names["csrftoken"])
}

func TestFetchDay_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `oops`, ErrUnexpectedStatus},
		{"bad request with message", http.StatusBadRequest, `{"error":"Date parameter is required"}`, ErrUnexpectedStatus},
		{"forbidden", http.StatusForbidden, ``, ErrUnexpectedStatus},
		{"not json", http.StatusOK, `<html>`, ErrMalformedResponse},
		{"missing time_slots", http.StatusOK, `{"date":"2026-10-13"}`, ErrMalformedResponse},
		{"null time_slots", http.StatusOK, `{"time_slots":null}`, ErrMalformedResponse},
		{"wrong date echoed", http.StatusOK, `{"date":"2026-10-14","time_slots":[]}`, ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.FetchDay(context.Background(), "7", testDate)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchDay_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	srv.Close()

	_, err = c.FetchDay(context.Background(), "7", testDate)
	assert.Error(t, err)
}

func TestConvert_SkipsMalformedIntervals(t *testing.T) {
	yes := true
	slots := []TimeSlot{
		{Start: "09:00", End: "10:00", IsAvailable: &yes},
		{Start: "", End: "11:00", IsAvailable: &yes},
		{Start: "11:00", End: "noon", IsAvailable: &yes},
		{Start: "12:00", End: "13:00"},
		{Start: "14:00", End: "13:00", IsAvailable: &yes},
	}

	day, skipped, err := Convert(Response{TimeSlots: &slots}, testDate)
	require.NoError(t, err)
	assert.Equal(t, 4, skipped)
	assert.Len(t, day.Intervals, 1)
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient("/relative")
	assert.Error(t, err)

	_, err = NewClient("http://localhost:8081", WithSessionCookie("novalue"))
	assert.ErrorIs(t, err, ErrInvalidSessionCookie)

	c, err := NewClient("http://localhost:8081/prefix/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081/prefix/api/rooms/a%20b/availability/?date=2026-10-13", c.dayURL("a b", testDate))
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	assert.NoError(t, c.Ping(context.Background()))

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	assert.ErrorIs(t, c.Ping(context.Background()), ErrUnexpectedStatus)
}
