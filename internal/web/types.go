package web

import (
	"encoding/json"
	"net/http"

	"github.com/hackgods/room-booking-calendar/internal/widget"
)

type CalendarResponse struct {
	widget.WeekView
	PrevURL    string `json:"prev_url"`
	NextURL    string `json:"next_url"`
	CurrentURL string `json:"current_url"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
