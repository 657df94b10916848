package calendar

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// API is the event store as seen from the client.
type API interface {
	List(ctx context.Context) ([]Event, error)
	Create(ctx context.Context, event Event) (Event, error)
	Update(ctx context.Context, event Event) error
	Delete(ctx context.Context, id int64) error
}

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("calendar api responded %d", e.StatusCode)
	}
	return fmt.Sprintf("calendar api responded %d: %s", e.StatusCode, e.Message)
}

type errorRespBody struct {
	Error string `json:"error"`
}

// HTTPAPI talks to the event store over its REST API.
type HTTPAPI struct {
	client *resty.Client
	loc    *time.Location
}

var _ API = (*HTTPAPI)(nil)

func NewHTTPAPI(baseURL string) *HTTPAPI {
	return &HTTPAPI{
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Accept", "application/json"),
		loc: time.Local,
	}
}

func check(resp *resty.Response, errBody *errorRespBody) error {
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: errBody.Error}
	}
	return nil
}

func (a *HTTPAPI) List(ctx context.Context) ([]Event, error) {
	var wireEvents []wireEvent
	var errBody errorRespBody
	resp, err := a.client.R().
		SetContext(ctx).
		SetResult(&wireEvents).
		SetError(&errBody).
		Get("/events")
	if err != nil {
		return nil, fmt.Errorf("(*HTTPAPI).List: %w", err)
	}
	if err := check(resp, &errBody); err != nil {
		return nil, fmt.Errorf("(*HTTPAPI).List: %w", err)
	}

	events := make([]Event, 0, len(wireEvents))
	for _, w := range wireEvents {
		event, err := w.toEvent(a.loc)
		if err != nil {
			return nil, fmt.Errorf("(*HTTPAPI).List: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (a *HTTPAPI) Create(ctx context.Context, event Event) (Event, error) {
	body := toWire(event)
	body.ID = 0

	var created wireEvent
	var errBody errorRespBody
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&created).
		SetError(&errBody).
		Post("/events")
	if err != nil {
		return Event{}, fmt.Errorf("(*HTTPAPI).Create: %w", err)
	}
	if err := check(resp, &errBody); err != nil {
		return Event{}, fmt.Errorf("(*HTTPAPI).Create: %w", err)
	}

	confirmed, err := created.toEvent(a.loc)
	if err != nil {
		return Event{}, fmt.Errorf("(*HTTPAPI).Create: %w", err)
	}
	return confirmed, nil
}

func (a *HTTPAPI) Update(ctx context.Context, event Event) error {
	var errBody errorRespBody
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(toWire(event)).
		SetError(&errBody).
		Put("/events/" + strconv.FormatInt(event.ID, 10))
	if err != nil {
		return fmt.Errorf("(*HTTPAPI).Update: %w", err)
	}
	if err := check(resp, &errBody); err != nil {
		return fmt.Errorf("(*HTTPAPI).Update: %w", err)
	}
	return nil
}

func (a *HTTPAPI) Delete(ctx context.Context, id int64) error {
	var errBody errorRespBody
	resp, err := a.client.R().
		SetContext(ctx).
		SetError(&errBody).
		Delete("/events/" + strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("(*HTTPAPI).Delete: %w", err)
	}
	if err := check(resp, &errBody); err != nil {
		return fmt.Errorf("(*HTTPAPI).Delete: %w", err)
	}
	return nil
}
