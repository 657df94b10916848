package calendar

import (
	"fmt"
	"strings"
	"time"

	"eventcal/src-shared/timestamp"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

func newWhenParser() *when.Parser {
	parser := when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
	return parser
}

// ParseTime reads a date/time typed by the user. Datetime-local and RFC 3339
// values are tried first, then natural language relative to now ("tomorrow
// 3pm", "next friday at 9:30").
func (s *State) ParseTime(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	now := s.now()
	if t, err := timestamp.Parse(text, now.Location()); err == nil {
		return t, nil
	}

	result, err := s.parser.Parse(text, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrInvalidTime, text, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidTime, text)
	}
	return result.Time, nil
}
