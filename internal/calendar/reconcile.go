package calendar

import "time"

type SlotState string

const (
	StateLoading     SlotState = "loading"
	StateAvailable   SlotState = "available"
	StateBooked      SlotState = "booked"
	StateUnavailable SlotState = "unavailable"
	StateError       SlotState = "error"
)

// Terminal reports whether the state ends a fetch cycle.
func (s SlotState) Terminal() bool {
	return s != StateLoading
}

// Interval is one server-reported availability block. It may be coarser than
// the slot grid.
type Interval struct {
	Start     TimeOfDay
	End       TimeOfDay
	Available bool
}

// Covers reports whether a slot starting at t falls in [Start, End).
func (i Interval) Covers(t TimeOfDay) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// DayAvailability is the availability response for one date.
type DayAvailability struct {
	Date      time.Time
	Intervals []Interval
}

// Resolution is the reconciled state of one slot together with the interval
// that decided it, if any.
type Resolution struct {
	ID       SlotID
	Slot     Slot
	State    SlotState
	Interval *Interval
}

// Resolve reconciles a day's response onto its slots, preserving slot order.
// Slots start as unavailable and only a covering interval can change that.
// When intervals overlap, the last covering one wins.
func Resolve(date time.Time, slots []Slot, day DayAvailability) []Resolution {
	out := make([]Resolution, len(slots))
	for i, s := range slots {
		r := Resolution{ID: NewSlotID(date, s.Start), Slot: s, State: StateUnavailable}
		for j := range day.Intervals {
			iv := day.Intervals[j]
			if !iv.Covers(s.Start) {
				continue
			}
			r.Interval = &iv
			if iv.Available {
				r.State = StateAvailable
			} else {
				r.State = StateBooked
			}
		}
		out[i] = r
	}
	return out
}

// Reconcile maps every slot of the date to its state.
func Reconcile(date time.Time, slots []Slot, day DayAvailability) map[SlotID]SlotState {
	return toStates(Resolve(date, slots, day))
}

// Fill gives every slot of the date the same state.
func Fill(date time.Time, slots []Slot, state SlotState) []Resolution {
	out := make([]Resolution, len(slots))
	for i, s := range slots {
		out[i] = Resolution{ID: NewSlotID(date, s.Start), Slot: s, State: state}
	}
	return out
}

// Fail is the outcome of a failed or malformed fetch for the date.
func Fail(date time.Time, slots []Slot) map[SlotID]SlotState {
	return toStates(Fill(date, slots, StateError))
}

func toStates(rs []Resolution) map[SlotID]SlotState {
	states := make(map[SlotID]SlotState, len(rs))
	for _, r := range rs {
		states[r.ID] = r.State
	}
	return states
}
