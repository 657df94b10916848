// The `ical` package serializes events into an iCalendar (RFC 5545) feed so
// the event table can be subscribed to from other calendar apps.
//
// # Example usage:
//
//	calendar := ical.NewCalendar("Events")
//	calendar.AddEvent(eventModel)
//	var sb strings.Builder
//	_ = calendar.ToIcal(sb.WriteString)
package ical

import (
	"fmt"
	"strconv"
	"time"

	"eventcal/src-server/model"

	"github.com/google/uuid"
)

const ProdID = "-//eventcal//eventcal//EN"

// Namespace of the UIDs, the same event id always maps to the same UID.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("eventcal"))

type Calendar struct {
	name   string
	events []model.Event
	stamp  time.Time
	loc    *time.Location
}

func NewCalendar(name string) Calendar {
	return Calendar{
		name:  name,
		stamp: time.Now().UTC(),
	}
}

func (c *Calendar) AddEvent(events ...model.Event) {
	c.events = append(c.events, events...)
}

func (c *Calendar) SetStamp(stamp time.Time) {
	c.stamp = stamp.UTC()
}

// SetLocation sets the zone all-day dates are taken in, by default the zone
// of each event.
func (c *Calendar) SetLocation(loc *time.Location) {
	c.loc = loc
}

func EventUID(id int64) string {
	return uuid.NewSHA1(uidNamespace, []byte(strconv.FormatInt(id, 10))).String()
}

// Write the calendar through writer, one folded content line per call.
func (c *Calendar) ToIcal(writer func(string) (int, error)) error {
	write := Split75wrapper(writer)
	line := func(s string) error {
		if _, err := write(s); err != nil {
			return err
		}
		return nil
	}

	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:" + ProdID,
		"CALSCALE:GREGORIAN",
	}
	if c.name != "" {
		lines = append(lines, "X-WR-CALNAME:"+EscapeText(c.name))
	}
	for _, l := range lines {
		if err := line(l); err != nil {
			return fmt.Errorf("(*Calendar).ToIcal: %w", err)
		}
	}

	for _, event := range c.events {
		eventLines, err := c.eventLines(event)
		if err != nil {
			return fmt.Errorf("(*Calendar).ToIcal: event %d: %w", event.ID, err)
		}
		for _, l := range eventLines {
			if err := line(l); err != nil {
				return fmt.Errorf("(*Calendar).ToIcal: %w", err)
			}
		}
	}

	if err := line("END:VCALENDAR"); err != nil {
		return fmt.Errorf("(*Calendar).ToIcal: %w", err)
	}
	return nil
}

func (c *Calendar) eventLines(event model.Event) ([]string, error) {
	if event.Title == "" {
		return nil, ErrSummaryNotSet
	}
	if event.Start.IsZero() {
		return nil, ErrStartDateInvalid
	}
	if event.End.IsZero() {
		return nil, ErrEndDateInvalid
	}

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + EventUID(event.ID),
		"DTSTAMP:" + TimeToIcalDatetime(c.stamp, false),
	}
	switch event.AllDay {
	case true:
		start, end := event.Start, event.End
		if c.loc != nil {
			start, end = start.In(c.loc), end.In(c.loc)
		}
		// DTEND of a date value is exclusive
		if !end.After(start) || !isMidnight(end) {
			end = time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, end.Location())
		}
		lines = append(lines,
			"DTSTART;VALUE=DATE:"+TimeToIcalDatetime(start, true),
			"DTEND;VALUE=DATE:"+TimeToIcalDatetime(end, true),
		)
	case false:
		lines = append(lines,
			"DTSTART:"+TimeToIcalDatetime(event.Start, false),
			"DTEND:"+TimeToIcalDatetime(event.End, false),
		)
	}
	lines = append(lines,
		"SUMMARY:"+EscapeText(event.Title),
		"END:VEVENT",
	)
	return lines, nil
}

func isMidnight(t time.Time) bool {
	hour, minute, sec := t.Clock()
	return hour == 0 && minute == 0 && sec == 0 && t.Nanosecond() == 0
}
