package calendar

import "time"

// StartOfWeek returns midnight of the Monday of date's week, in date's location.
// Sunday belongs to the week that started six days earlier.
func StartOfWeek(date time.Time) time.Time {
	dow := int(date.Weekday())
	offset := 1 - dow
	if dow == 0 {
		offset = -6
	}
	y, m, d := date.Date()
	return time.Date(y, m, d+offset, 0, 0, 0, 0, date.Location())
}

// WeekWindow is the Monday-to-Sunday range on display. It is a value:
// navigation produces a new window.
type WeekWindow struct {
	Start time.Time
	End   time.Time
}

func NewWeekWindow(ref time.Time) WeekWindow {
	start := StartOfWeek(ref)
	return WeekWindow{Start: start, End: start.AddDate(0, 0, 6)}
}

// Days returns the seven dates of the window, Monday first.
func (w WeekWindow) Days() []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = w.Start.AddDate(0, 0, i)
	}
	return days
}

func (w WeekWindow) Contains(date time.Time) bool {
	d := StartOfWeek(date)
	return d.Equal(w.Start)
}

func (w WeekWindow) Next() WeekWindow {
	return NewWeekWindow(w.Start.AddDate(0, 0, 7))
}

func (w WeekWindow) Previous() WeekWindow {
	return NewWeekWindow(w.Start.AddDate(0, 0, -7))
}

func (w WeekWindow) Equal(o WeekWindow) bool {
	return w.Start.Equal(o.Start) && w.End.Equal(o.End)
}

func (w WeekWindow) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}

// ShortLabel renders a day header like "Mon".
func ShortLabel(date time.Time) string {
	return date.Format("Mon")
}

// LongLabel renders a day header like "Mon, Oct 12".
func LongLabel(date time.Time) string {
	return date.Format("Mon, Jan 2")
}
