package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"eventcal/src-shared/timestamp"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var ErrValidation = errors.New("validation failed")

// EventInput is the body of POST /events and PUT /events/{id}. Timestamps are
// kept as text until Validate parses them.
type EventInput struct {
	Title  string `json:"title" validate:"required,notblank"`
	Start  string `json:"start" validate:"required,notblank"`
	End    string `json:"end" validate:"required,notblank"`
	AllDay bool   `json:"all_day"`
}

type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid event: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// validator caches struct metadata, keep a single instance
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// report fields by their json name
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func describe(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required", "notblank":
		return fieldErr.Field() + " is required"
	case "gtefield":
		return fieldErr.Field() + " must not be before " + strings.ToLower(fieldErr.Param())
	}
	return fmt.Sprintf("%s failed the %q check", fieldErr.Field(), fieldErr.Tag())
}

// collect appends the field errors of err to problems, failed gets the
// names of the offending fields.
func collect(err error, problems []string, failed map[string]bool) ([]string, error) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return problems, err
	}
	for _, fieldErr := range fieldErrs {
		failed[fieldErr.Field()] = true
		problems = append(problems, describe(fieldErr))
	}
	return problems, nil
}

// Validate checks every field and returns the event ready to be persisted.
// Zone-less timestamps are read in loc. The title is kept as sent.
func (in EventInput) Validate(loc *time.Location) (Event, error) {
	problems := make([]string, 0)
	failed := make(map[string]bool)

	if err := validate.Struct(in); err != nil {
		if problems, err = collect(err, problems, failed); err != nil {
			return Event{}, fmt.Errorf("(EventInput).Validate: %w", err)
		}
	}

	parse := func(name, value string) time.Time {
		if failed[name] {
			return time.Time{}
		}
		t, err := timestamp.Parse(value, loc)
		if err != nil {
			problems = append(problems, err.Error())
		}
		return t
	}
	event := Event{
		Title:  in.Title,
		Start:  parse("start", in.Start),
		End:    parse("end", in.End),
		AllDay: in.AllDay,
	}
	if len(problems) > 0 {
		return Event{}, &ValidationError{Problems: problems}
	}

	if err := validate.Struct(event); err != nil {
		if problems, err = collect(err, problems, failed); err != nil {
			return Event{}, fmt.Errorf("(EventInput).Validate: %w", err)
		}
		return Event{}, &ValidationError{Problems: problems}
	}
	return event, nil
}
