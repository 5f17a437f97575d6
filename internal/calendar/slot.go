package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnsupportedGranularity = errors.New("slot granularity must be positive and divide 60 minutes")
	ErrInvalidWindow          = errors.New("bookable window start must be before its end")
)

const DateLayout = "2006-01-02"

// Settings are the knobs of a calendar grid.
type Settings struct {
	DayStart        TimeOfDay
	DayEnd          TimeOfDay
	SlotMinutes     int
	ExcludeWeekends bool
}

// DefaultSettings is the 09:00-17:00 grid of 10 minute slots without weekends.
func DefaultSettings() Settings {
	return Settings{
		DayStart:        TimeOfDay{Hour: 9},
		DayEnd:          TimeOfDay{Hour: 17},
		SlotMinutes:     10,
		ExcludeWeekends: true,
	}
}

func (s Settings) Validate() error {
	if s.SlotMinutes <= 0 || 60%s.SlotMinutes != 0 {
		return fmt.Errorf("%w: %d", ErrUnsupportedGranularity, s.SlotMinutes)
	}
	if !s.DayStart.valid() || !s.DayEnd.valid() || !s.DayStart.Before(s.DayEnd) {
		return fmt.Errorf("%w: %s-%s", ErrInvalidWindow, s.DayStart, s.DayEnd)
	}
	return nil
}

// Closed reports whether no fetch is issued for the date.
func (s Settings) Closed(date time.Time) bool {
	if !s.ExcludeWeekends {
		return false
	}
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Slot is one bookable interval, [Start, End).
type Slot struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (s Slot) String() string {
	return s.Start.String() + " - " + s.End.String()
}

// GenerateSlots returns the contiguous slots covering [DayStart, DayEnd).
// A slot is emitted only if it ends at or before DayEnd, so there is never a
// partial trailing slot.
func GenerateSlots(s Settings) ([]Slot, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	end := s.DayEnd.Minutes()
	slots := make([]Slot, 0, (end-s.DayStart.Minutes())/s.SlotMinutes)
	for cur := s.DayStart.Minutes(); cur < end; cur += s.SlotMinutes {
		next := cur + s.SlotMinutes
		if next > end {
			break
		}
		slots = append(slots, Slot{Start: NewTimeOfDay(cur), End: NewTimeOfDay(next)})
	}
	return slots, nil
}

// SlotID keys a slot on a calendar date: YYYY-MM-DD-HHMM.
type SlotID string

func NewSlotID(date time.Time, start TimeOfDay) SlotID {
	return SlotID(date.Format(DateLayout) + "-" + start.Compact())
}
