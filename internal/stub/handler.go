package stub

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hackgods/room-booking-calendar/internal/availability"
	"github.com/hackgods/room-booking-calendar/internal/calendar"
)

type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type availabilityResponse struct {
	Room      Room                    `json:"room"`
	Date      string                  `json:"date"`
	TimeSlots []availability.TimeSlot `json:"time_slots"`
}

// NewRouter serves GET /api/rooms/{roomID}/availability/?date=YYYY-MM-DD.
func NewRouter(gen *Generator, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Get("/api/rooms/{roomID}/availability/", func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")

		dateStr := r.URL.Query().Get("date")
		if dateStr == "" {
			writeJSON(w, http.StatusBadRequest, availability.ErrorResponse{Error: "Date parameter is required"})
			return
		}
		date, err := time.Parse(calendar.DateLayout, dateStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, availability.ErrorResponse{Error: "Invalid date format. Use YYYY-MM-DD"})
			return
		}

		slots := gen.TimeSlots(roomID, date)
		log.Debug("served availability",
			zap.String("room_id", roomID),
			zap.String("date", dateStr),
			zap.Int("blocks", len(slots)))

		writeJSON(w, http.StatusOK, availabilityResponse{
			Room:      Room{ID: roomID, Name: gen.RoomName(roomID)},
			Date:      dateStr,
			TimeSlots: slots,
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
