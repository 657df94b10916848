package ical

import "errors"

var (
	ErrSummaryNotSet    = errors.New("summary not set")
	ErrStartDateInvalid = errors.New("start date not set")
	ErrEndDateInvalid   = errors.New("end date not set")
)
