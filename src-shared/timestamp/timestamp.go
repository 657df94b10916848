// Package timestamp reads the timestamps exchanged between the calendar
// client and the event store.
package timestamp

import (
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for zone-less timestamps, RFC 3339 is tried first.
var Layouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse reads a wire timestamp. RFC 3339 values keep their offset,
// everything else is interpreted in loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	for _, layout := range Layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("can't parse timestamp %q", value)
}
