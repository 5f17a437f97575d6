package widget

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
)

// SlotView is what a renderer needs to paint one cell.
type SlotView struct {
	ID         calendar.SlotID    `json:"id"`
	Date       string             `json:"date"`
	Start      string             `json:"start"`
	End        string             `json:"end"`
	State      calendar.SlotState `json:"state"`
	Title      string             `json:"title"`
	BookingURL string             `json:"booking_url,omitempty"`
}

type DayView struct {
	Date   time.Time  `json:"date"`
	Short  string     `json:"short_label"`
	Long   string     `json:"long_label"`
	Closed bool       `json:"closed"`
	Slots  []SlotView `json:"slots"`
}

// WeekView is a copy of the whole grid. Rows are Slots, columns are Days.
type WeekView struct {
	RoomID string              `json:"room_id"`
	Window calendar.WeekWindow `json:"-"`
	Start  string              `json:"week_start"`
	End    string              `json:"week_end"`
	Slots  []calendar.Slot     `json:"-"`
	Days   []DayView           `json:"days"`
}

// Row returns the views of every day for the slot at index i.
func (w WeekView) Row(i int) []SlotView {
	row := make([]SlotView, len(w.Days))
	for d, day := range w.Days {
		if i < len(day.Slots) {
			row[d] = day.Slots[i]
		}
	}
	return row
}

// Counts tallies slot states over the week.
func (w WeekView) Counts() map[calendar.SlotState]int {
	counts := make(map[calendar.SlotState]int)
	for _, d := range w.Days {
		for _, s := range d.Slots {
			counts[s.State]++
		}
	}
	return counts
}

// Booking builds click-to-book targets for available slots.
type Booking struct {
	BaseURL string
}

// Target is the reservation-creation URL for a slot.
func (b Booking) Target(roomID string, date time.Time, slot calendar.Slot) string {
	q := url.Values{}
	q.Set("room", roomID)
	q.Set("date", date.Format(calendar.DateLayout))
	q.Set("start_time", slot.Start.String())
	q.Set("end_time", slot.End.String())
	return strings.TrimRight(b.BaseURL, "/") + "/booking/create/?" + q.Encode()
}

func title(date time.Time, r calendar.Resolution) string {
	switch r.State {
	case calendar.StateLoading:
		return fmt.Sprintf("%s %s", date.Format(calendar.DateLayout), r.Slot)
	case calendar.StateAvailable:
		return fmt.Sprintf("Available (%s)", coverage(r))
	case calendar.StateBooked:
		return fmt.Sprintf("Booked (%s)", coverage(r))
	case calendar.StateError:
		return "Error loading availability"
	default:
		return "Not available"
	}
}

func coverage(r calendar.Resolution) string {
	if r.Interval == nil {
		return r.Slot.String()
	}
	return r.Interval.Start.String() + " - " + r.Interval.End.String()
}
