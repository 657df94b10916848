package calendar

import (
	"fmt"
	"time"

	"eventcal/src-shared/timestamp"
)

// Event is the client side copy of a stored event with parsed timestamps.
type Event struct {
	ID     int64
	Title  string
	Start  time.Time
	End    time.Time
	AllDay bool
}

// wire representation, timestamps travel as text
type wireEvent struct {
	ID     int64  `json:"id,omitempty"`
	Title  string `json:"title"`
	Start  string `json:"start"`
	End    string `json:"end"`
	AllDay bool   `json:"all_day"`
}

func (w wireEvent) toEvent(loc *time.Location) (Event, error) {
	start, err := timestamp.Parse(w.Start, loc)
	if err != nil {
		return Event{}, fmt.Errorf("event %d: start: %w", w.ID, err)
	}
	end, err := timestamp.Parse(w.End, loc)
	if err != nil {
		return Event{}, fmt.Errorf("event %d: end: %w", w.ID, err)
	}
	return Event{
		ID:     w.ID,
		Title:  w.Title,
		Start:  start,
		End:    end,
		AllDay: w.AllDay,
	}, nil
}

func toWire(e Event) wireEvent {
	return wireEvent{
		ID:     e.ID,
		Title:  e.Title,
		Start:  e.Start.Format(time.RFC3339),
		End:    e.End.Format(time.RFC3339),
		AllDay: e.AllDay,
	}
}
