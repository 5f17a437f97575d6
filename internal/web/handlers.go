package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/availability"
	"github.com/hackgods/room-booking-calendar/internal/calendar"
	"github.com/hackgods/room-booking-calendar/internal/widget"
)

var errInvalidWeek = errors.New("week must be a date formatted YYYY-MM-DD")

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"row": func(w widget.WeekView, i int) []widget.SlotView { return w.Row(i) },
}).ParseFS(templateFS, "templates/*.html"))

type calendarHandler struct {
	cfg RouterConfig
}

type bannerPage struct {
	Title   string
	Message string
}

// redirect turns /calendar?room=ID into the room's calendar. It is the entry
// point that fails when the page does not identify a room.
func (h *calendarHandler) redirect(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimSpace(r.URL.Query().Get("room"))
	if roomID == "" {
		h.banner(w, http.StatusBadRequest, "Calendar unavailable", widget.ErrMissingRoom.Error())
		return
	}
	target := weekPath(roomID, "calendar")
	if week := r.URL.Query().Get("week"); week != "" {
		target += "?" + url.Values{"week": {week}}.Encode()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *calendarHandler) page(w http.ResponseWriter, r *http.Request) {
	resp, err := h.load(r, "calendar")
	if err != nil {
		status, _ := errorStatus(err)
		h.banner(w, status, "Calendar unavailable", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "calendar.html", resp); err != nil {
		h.cfg.Logger.Error("render calendar", zap.Error(err))
	}
}

func (h *calendarHandler) json(w http.ResponseWriter, r *http.Request) {
	resp, err := h.load(r, "calendar.json")
	if err != nil {
		status, code := errorStatus(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *calendarHandler) load(r *http.Request, endpoint string) (CalendarResponse, error) {
	roomID, err := url.PathUnescape(chi.URLParam(r, "roomID"))
	if err != nil {
		return CalendarResponse{}, widget.ErrMissingRoom
	}

	ref := h.cfg.Now()
	if s := r.URL.Query().Get("week"); s != "" {
		d, err := time.ParseInLocation(calendar.DateLayout, s, h.cfg.Location)
		if err != nil {
			return CalendarResponse{}, errInvalidWeek
		}
		ref = d
	}

	ctrl, err := widget.New(widget.Options{
		RoomID:       roomID,
		Settings:     h.cfg.Settings,
		Fetcher:      h.cfg.Fetcher,
		Booking:      h.cfg.Booking,
		FetchTimeout: h.cfg.FetchTimeout,
		Location:     h.cfg.Location,
		Now:          h.cfg.Now,
		Logger:       h.cfg.Logger.With(zap.String("request_id", GetRequestID(r.Context()))),
	})
	if err != nil {
		return CalendarResponse{}, err
	}

	ctx := availability.WithCookies(r.Context(), r.Cookies())
	if err := ctrl.Show(ctx, ref).Wait(); err != nil {
		h.cfg.Logger.Debug("week rendered with failed days", zap.String("room_id", roomID), zap.Error(err))
	}

	view := ctrl.Snapshot()
	current := calendar.NewWeekWindow(h.cfg.Now().In(h.cfg.Location))
	return CalendarResponse{
		WeekView:   view,
		PrevURL:    weekURL(roomID, endpoint, view.Window.Previous()),
		NextURL:    weekURL(roomID, endpoint, view.Window.Next()),
		CurrentURL: weekURL(roomID, endpoint, current),
	}, nil
}

func (h *calendarHandler) banner(w http.ResponseWriter, status int, title, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, "banner.html", bannerPage{Title: title, Message: msg}); err != nil {
		h.cfg.Logger.Error("render banner", zap.Error(err))
	}
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, widget.ErrMissingRoom):
		return http.StatusBadRequest, "room_missing"
	case errors.Is(err, errInvalidWeek):
		return http.StatusBadRequest, "invalid_week"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func weekPath(roomID, endpoint string) string {
	return "/rooms/" + url.PathEscape(roomID) + "/" + endpoint
}

func weekURL(roomID, endpoint string, w calendar.WeekWindow) string {
	return weekPath(roomID, endpoint) + "?week=" + w.Start.Format(calendar.DateLayout)
}
