package availability

import "encoding/json"

// Response is the body of GET /api/rooms/{roomId}/availability/?date=.
// TimeSlots is a pointer so that an absent or null collection can be told
// apart from an empty one.
type Response struct {
	Room      json.RawMessage `json:"room,omitempty"`
	Date      string          `json:"date,omitempty"`
	TimeSlots *[]TimeSlot     `json:"time_slots"`
}

type TimeSlot struct {
	Start         string `json:"start"`
	End           string `json:"end"`
	IsAvailable   *bool  `json:"is_available"`
	DatetimeStart string `json:"datetime_start,omitempty"`
	DatetimeEnd   string `json:"datetime_end,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
