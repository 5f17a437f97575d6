package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/hackgods/room-booking-calendar/internal/calendar"
	"github.com/hackgods/room-booking-calendar/internal/widget"
)

var symbols = map[calendar.SlotState]string{
	calendar.StateLoading:     "...",
	calendar.StateAvailable:   "free",
	calendar.StateBooked:      "busy",
	calendar.StateUnavailable: "-",
	calendar.StateError:       "ERR",
}

// renderGrid prints one row per slot and one column per day.
func renderGrid(w io.Writer, view widget.WeekView) {
	fmt.Fprintf(w, "Room %s, week %s\n", view.RoomID, view.Window)

	table := tablewriter.NewWriter(w)
	header := []string{"Time"}
	for _, d := range view.Days {
		header = append(header, d.Long)
	}
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)

	for i, slot := range view.Slots {
		row := []string{slot.String()}
		for _, cell := range view.Row(i) {
			row = append(row, symbols[cell.State])
		}
		table.Append(row)
	}
	table.Render()

	fmt.Fprintln(w, legend(view.Counts()))
}

func legend(counts map[calendar.SlotState]int) string {
	states := make([]string, 0, len(counts))
	for s := range counts {
		states = append(states, string(s))
	}
	sort.Strings(states)

	parts := make([]string, 0, len(states))
	for _, s := range states {
		st := calendar.SlotState(s)
		parts = append(parts, fmt.Sprintf("%s=%s:%d", symbols[st], st, counts[st]))
	}
	return strings.Join(parts, "  ")
}
