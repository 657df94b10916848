package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/olebedev/when"
)

var (
	ErrIncompleteDraft = errors.New("title, start and end are required")
	ErrInvalidTime     = errors.New("can't understand time")
	ErrNotFound        = errors.New("event not found")
	ErrModalHidden     = errors.New("the creation form is not open")
)

// Draft is the event being composed in the creation form, fields hold what
// the user typed.
type Draft struct {
	Title  string
	Start  string
	End    string
	AllDay bool
}

// State is the calendar as the user sees it. Every mutation is applied
// locally before the server confirms it and rolled back when the call fails.
// Calls never block other user actions, overlapping mutations of the same
// event are resolved by the server (last write wins).
type State struct {
	api    API
	notify Notifier
	now    func() time.Time
	parser *when.Parser

	mu           sync.Mutex
	events       []Event
	modalVisible bool
	draft        Draft
}

type Option func(*State)

func WithNotifier(notify Notifier) Option {
	return func(s *State) {
		s.notify = notify
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

func NewState(api API, opts ...Option) *State {
	s := &State{
		api:    api,
		notify: func(Notice) {},
		now:    time.Now,
		parser: newWhenParser(),
		events: make([]Event, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *State) fail(msg string, err error, args ...any) {
	slog.Error(msg, append([]any{"error", err}, args...)...)
	s.notify(Notice{Level: NoticeError, Message: msg + ": " + err.Error()})
}

// Load replaces the local events with the full list from the server.
func (s *State) Load(ctx context.Context) error {
	events, err := s.api.List(ctx)
	if err != nil {
		s.fail("Can't load events", err)
		return err
	}

	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
	return nil
}

func (s *State) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

func (s *State) Find(id int64) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.events[i], true
	}
	return Event{}, false
}

// Today returns the events starting on the current day, whatever the time.
func (s *State) Today() []Event {
	now := s.now()
	year, month, day := now.Date()

	s.mu.Lock()
	defer s.mu.Unlock()
	today := make([]Event, 0)
	for _, event := range s.events {
		y, m, d := event.Start.In(now.Location()).Date()
		if y == year && m == month && d == day {
			today = append(today, event)
		}
	}
	return today
}

// must hold s.mu
func (s *State) indexOf(id int64) int {
	return slices.IndexFunc(s.events, func(e Event) bool { return e.ID == id })
}

// #region - creation form

func (s *State) OpenModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalVisible = true
}

// CloseModal hides the form, the draft is kept for the next time.
func (s *State) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalVisible = false
}

func (s *State) ModalVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modalVisible
}

func (s *State) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SetDraftField sets one field of the draft by its form name: title, start,
// end or all_day.
func (s *State) SetDraftField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.modalVisible {
		return ErrModalHidden
	}
	switch name {
	case "title":
		s.draft.Title = value
	case "start":
		s.draft.Start = value
	case "end":
		s.draft.End = value
	case "all_day":
		allDay, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("all_day: %w", err)
		}
		s.draft.AllDay = allDay
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// SubmitCreation sends the draft to the server. Nothing is sent when a field
// is empty. The confirmed event, with its id, is appended to the local list.
func (s *State) SubmitCreation(ctx context.Context) (Event, error) {
	draft := s.Draft()
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Start) == "" || strings.TrimSpace(draft.End) == "" {
		s.notify(Notice{Level: NoticeError, Message: "Please fill out all fields!"})
		return Event{}, ErrIncompleteDraft
	}

	start, err := s.ParseTime(draft.Start)
	if err != nil {
		s.notify(Notice{Level: NoticeError, Message: "Start: " + err.Error()})
		return Event{}, err
	}
	end, err := s.ParseTime(draft.End)
	if err != nil {
		s.notify(Notice{Level: NoticeError, Message: "End: " + err.Error()})
		return Event{}, err
	}

	created, err := s.api.Create(ctx, Event{
		Title:  draft.Title,
		Start:  start,
		End:    end,
		AllDay: draft.AllDay,
	})
	if err != nil {
		s.fail("Can't create event", err, "title", draft.Title)
		return Event{}, err
	}

	s.mu.Lock()
	s.events = append(s.events, created)
	s.draft = Draft{}
	s.modalVisible = false
	s.mu.Unlock()

	s.notify(Notice{Level: NoticeInfo, Message: fmt.Sprintf("Created %q", created.Title)})
	return created, nil
}

// #endregion

// Reschedule moves an event, the local copy changes before the server is
// called and is restored if the update fails and nothing changed it since.
func (s *State) Reschedule(ctx context.Context, id int64, start, end time.Time, allDay bool) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrNotFound
	}
	previous := s.events[i]
	updated := previous
	updated.Start = start
	updated.End = end
	updated.AllDay = allDay
	s.events[i] = updated
	s.mu.Unlock()

	if err := s.api.Update(ctx, updated); err != nil {
		s.mu.Lock()
		if j := s.indexOf(id); j >= 0 && s.events[j] == updated {
			s.events[j] = previous
		}
		s.mu.Unlock()
		s.fail("Can't reschedule event", err, "id", id)
		return err
	}
	return nil
}

// Delete asks confirm first, a nil confirm deletes right away. The event
// leaves the local list before the server is called and comes back at its
// old position if the call fails. Reports whether the event was deleted.
func (s *State) Delete(ctx context.Context, id int64, confirm func(Event) bool) (bool, error) {
	event, ok := s.Find(id)
	if !ok {
		return false, ErrNotFound
	}
	if confirm != nil && !confirm(event) {
		return false, nil
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		// removed while the user was confirming
		s.mu.Unlock()
		return false, nil
	}
	event = s.events[i]
	s.events = slices.Delete(s.events, i, i+1)
	s.mu.Unlock()

	if err := s.api.Delete(ctx, id); err != nil {
		s.mu.Lock()
		if s.indexOf(id) < 0 {
			s.events = slices.Insert(s.events, min(i, len(s.events)), event)
		}
		s.mu.Unlock()
		s.fail("Can't delete event", err, "id", id)
		return false, err
	}
	return true, nil
}
