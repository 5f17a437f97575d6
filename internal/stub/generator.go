package stub

import (
	"hash/fnv"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/room-booking-calendar/internal/availability"
	"github.com/hackgods/room-booking-calendar/internal/calendar"
)

// Reservation is a fake booking that blocks part of a day.
type Reservation struct {
	Title string
	Start time.Time
	End   time.Time
}

// Generator fabricates a room's reservations for a date and reports
// availability in fixed blocks, the way the real backend does. The same room
// and date always produce the same answer.
type Generator struct {
	DayStart        calendar.TimeOfDay
	DayEnd          calendar.TimeOfDay
	BlockMinutes    int
	MaxReservations int
}

func NewGenerator() *Generator {
	return &Generator{
		DayStart:        calendar.TimeOfDay{Hour: 9},
		DayEnd:          calendar.TimeOfDay{Hour: 17},
		BlockMinutes:    60,
		MaxReservations: 3,
	}
}

func seed(roomID string, date time.Time) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(roomID))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(date.Format(calendar.DateLayout)))
	return h.Sum64()
}

func at(date time.Time, t calendar.TimeOfDay) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, date.Location()).Add(time.Duration(t.Minutes()) * time.Minute)
}

// Reservations returns the fake bookings of the room on date.
func (g *Generator) Reservations(roomID string, date time.Time) []Reservation {
	faker := gofakeit.New(seed(roomID, date))

	open := g.DayStart.Minutes()
	span := g.DayEnd.Minutes() - open
	if span <= 0 {
		return nil
	}

	n := faker.Number(0, g.MaxReservations)
	out := make([]Reservation, 0, n)
	for i := 0; i < n; i++ {
		offset := faker.Number(0, span/30-1) * 30
		length := faker.Number(1, 4) * 30
		start := calendar.NewTimeOfDay(open + offset)
		out = append(out, Reservation{
			Title: faker.BuzzWord() + " " + faker.HipsterWord(),
			Start: at(date, start),
			End:   at(date, start.Add(length)),
		})
	}
	return out
}

// TimeSlots reports each block of the day as available unless a reservation
// overlaps it.
func (g *Generator) TimeSlots(roomID string, date time.Time) []availability.TimeSlot {
	reservations := g.Reservations(roomID, date)

	var slots []availability.TimeSlot
	for cur := g.DayStart; cur.Before(g.DayEnd); cur = cur.Add(g.BlockMinutes) {
		next := cur.Add(g.BlockMinutes)
		start, end := at(date, cur), at(date, next)

		free := true
		for _, r := range reservations {
			if r.Start.Before(end) && start.Before(r.End) {
				free = false
				break
			}
		}

		slots = append(slots, availability.TimeSlot{
			Start:         cur.String(),
			End:           next.String(),
			IsAvailable:   &free,
			DatetimeStart: start.Format("2006-01-02T15:04:05"),
			DatetimeEnd:   end.Format("2006-01-02T15:04:05"),
		})
	}
	return slots
}

// RoomName gives the room a stable display name.
func (g *Generator) RoomName(roomID string) string {
	faker := gofakeit.New(seed(roomID, time.Time{}))
	return faker.LastName() + " Room"
}
