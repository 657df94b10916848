package calendar_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"eventcal/src-client/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI keeps events in memory and counts the calls it received.
type fakeAPI struct {
	mu      sync.Mutex
	nextID  int64
	events  []calendar.Event
	calls   map[string]int
	failing map[string]error
}

func newFakeAPI(events ...calendar.Event) *fakeAPI {
	api := &fakeAPI{
		nextID:  100,
		events:  events,
		calls:   make(map[string]int),
		failing: make(map[string]error),
	}
	return api
}

func (f *fakeAPI) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[call]++
	return f.failing[call]
}

func (f *fakeAPI) failOn(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[call] = err
}

func (f *fakeAPI) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

func (f *fakeAPI) List(context.Context) ([]calendar.Event, error) {
	if err := f.record("list"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]calendar.Event(nil), f.events...), nil
}

func (f *fakeAPI) Create(_ context.Context, event calendar.Event) (calendar.Event, error) {
	if err := f.record("create"); err != nil {
		return calendar.Event{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	event.ID = f.nextID
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeAPI) Update(_ context.Context, event calendar.Event) error {
	return f.record("update")
}

func (f *fakeAPI) Delete(_ context.Context, id int64) error {
	return f.record("delete")
}

var (
	loc = time.FixedZone("UTC+7", 7*60*60)
	now = time.Date(2024, 3, 4, 13, 30, 0, 0, loc)
)

func at(day, hour, min int) time.Time {
	return time.Date(2024, 3, day, hour, min, 0, 0, loc)
}

type noticeLog struct {
	mu      sync.Mutex
	notices []calendar.Notice
}

func (n *noticeLog) notify(notice calendar.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *noticeLog) errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	msgs := make([]string, 0)
	for _, notice := range n.notices {
		if notice.Level == calendar.NoticeError {
			msgs = append(msgs, notice.Message)
		}
	}
	return msgs
}

func newState(t *testing.T, api calendar.API) (*calendar.State, *noticeLog) {
	t.Helper()
	notices := &noticeLog{}
	s := calendar.NewState(api,
		calendar.WithClock(func() time.Time { return now }),
		calendar.WithNotifier(notices.notify),
	)
	return s, notices
}

func TestLoad(t *testing.T) {
	api := newFakeAPI(
		calendar.Event{ID: 1, Title: "Standup", Start: at(4, 9, 0), End: at(4, 9, 15)},
		calendar.Event{ID: 2, Title: "Retro", Start: at(5, 16, 0), End: at(5, 17, 0)},
	)
	s, notices := newState(t, api)

	require.NoError(t, s.Load(context.Background()))
	assert.Len(t, s.Events(), 2)
	assert.Empty(t, notices.errors())
}

func TestLoadFailureIsNotified(t *testing.T) {
	api := newFakeAPI()
	api.failOn("list", errors.New("connection refused"))
	s, notices := newState(t, api)

	require.Error(t, s.Load(context.Background()))
	assert.Empty(t, s.Events())
	assert.Equal(t, []string{"Can't load events: connection refused"}, notices.errors())
}

func TestToday(t *testing.T) {
	api := newFakeAPI(
		calendar.Event{ID: 1, Title: "Early", Start: at(4, 0, 0), End: at(4, 1, 0)},
		calendar.Event{ID: 2, Title: "Late", Start: at(4, 23, 59), End: at(5, 0, 30)},
		calendar.Event{ID: 3, Title: "Yesterday", Start: at(3, 23, 59), End: at(4, 0, 30)},
		calendar.Event{ID: 4, Title: "Tomorrow", Start: at(5, 0, 0), End: at(5, 1, 0)},
		// 2024-03-04 02:00 UTC is 09:00 in UTC+7
		calendar.Event{ID: 5, Title: "Other zone", Start: time.Date(2024, 3, 4, 2, 0, 0, 0, time.UTC), End: at(4, 10, 0)},
		// 2024-03-04 20:00 UTC is already the 5th in UTC+7
		calendar.Event{ID: 6, Title: "Other zone tomorrow", Start: time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC), End: at(5, 4, 0)},
	)
	s, _ := newState(t, api)
	require.NoError(t, s.Load(context.Background()))

	titles := make([]string, 0)
	for _, event := range s.Today() {
		titles = append(titles, event.Title)
	}
	assert.Equal(t, []string{"Early", "Late", "Other zone"}, titles)
}

func TestSubmitCreationRequiresEveryField(t *testing.T) {
	for name, draft := range map[string]calendar.Draft{
		"empty title": {Start: "2024-03-04T10:00", End: "2024-03-04T11:00"},
		"blank title": {Title: "   ", Start: "2024-03-04T10:00", End: "2024-03-04T11:00"},
		"empty start": {Title: "Lunch", End: "2024-03-04T11:00"},
		"empty end":   {Title: "Lunch", Start: "2024-03-04T10:00"},
	} {
		t.Run(name, func(t *testing.T) {
			api := newFakeAPI()
			s, notices := newState(t, api)
			s.OpenModal()
			require.NoError(t, s.SetDraftField("title", draft.Title))
			require.NoError(t, s.SetDraftField("start", draft.Start))
			require.NoError(t, s.SetDraftField("end", draft.End))

			_, err := s.SubmitCreation(context.Background())
			assert.ErrorIs(t, err, calendar.ErrIncompleteDraft)
			assert.Equal(t, 0, api.count("create"), "no network call expected")
			assert.Equal(t, []string{"Please fill out all fields!"}, notices.errors())
			assert.True(t, s.ModalVisible())
		})
	}
}

func TestSubmitCreation(t *testing.T) {
	api := newFakeAPI()
	s, _ := newState(t, api)

	s.OpenModal()
	require.NoError(t, s.SetDraftField("title", "Lunch"))
	require.NoError(t, s.SetDraftField("start", "2024-03-04T12:00"))
	require.NoError(t, s.SetDraftField("end", "2024-03-04T13:00"))

	created, err := s.SubmitCreation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(101), created.ID)
	assert.True(t, created.Start.Equal(at(4, 12, 0)))

	assert.Equal(t, []calendar.Event{created}, s.Events())
	assert.Equal(t, calendar.Draft{}, s.Draft())
	assert.False(t, s.ModalVisible())
	assert.Equal(t, 0, api.count("list"), "creating must not re-fetch")
}

func TestSubmitCreationNaturalLanguage(t *testing.T) {
	api := newFakeAPI()
	s, _ := newState(t, api)

	s.OpenModal()
	require.NoError(t, s.SetDraftField("title", "Dentist"))
	require.NoError(t, s.SetDraftField("start", "tomorrow at 3pm"))
	require.NoError(t, s.SetDraftField("end", "tomorrow at 4pm"))

	created, err := s.SubmitCreation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, created.Start.Day())
	assert.Equal(t, 15, created.Start.Hour())
	assert.Equal(t, 16, created.End.Hour())
}

func TestSubmitCreationFailureKeepsDraft(t *testing.T) {
	api := newFakeAPI()
	api.failOn("create", errors.New("boom"))
	s, notices := newState(t, api)

	s.OpenModal()
	require.NoError(t, s.SetDraftField("title", "Lunch"))
	require.NoError(t, s.SetDraftField("start", "2024-03-04T12:00"))
	require.NoError(t, s.SetDraftField("end", "2024-03-04T13:00"))

	_, err := s.SubmitCreation(context.Background())
	require.Error(t, err)
	assert.Empty(t, s.Events())
	assert.Equal(t, "Lunch", s.Draft().Title)
	assert.True(t, s.ModalVisible())
	assert.Equal(t, []string{"Can't create event: boom"}, notices.errors())
}

func TestSubmitCreationUnparsableTime(t *testing.T) {
	api := newFakeAPI()
	s, _ := newState(t, api)

	s.OpenModal()
	require.NoError(t, s.SetDraftField("title", "Lunch"))
	require.NoError(t, s.SetDraftField("start", "qwerty"))
	require.NoError(t, s.SetDraftField("end", "2024-03-04T13:00"))

	_, err := s.SubmitCreation(context.Background())
	assert.ErrorIs(t, err, calendar.ErrInvalidTime)
	assert.Equal(t, 0, api.count("create"))
}

func TestDraftFields(t *testing.T) {
	s, _ := newState(t, newFakeAPI())

	assert.ErrorIs(t, s.SetDraftField("title", "x"), calendar.ErrModalHidden)

	s.OpenModal()
	require.NoError(t, s.SetDraftField("all_day", "true"))
	assert.True(t, s.Draft().AllDay)
	assert.Error(t, s.SetDraftField("all_day", "maybe"))
	assert.Error(t, s.SetDraftField("location", "x"))

	require.NoError(t, s.SetDraftField("title", "kept"))
	s.CloseModal()
	assert.False(t, s.ModalVisible())
	assert.Equal(t, "kept", s.Draft().Title)
}

func TestReschedule(t *testing.T) {
	api := newFakeAPI(calendar.Event{ID: 1, Title: "Standup", Start: at(4, 9, 0), End: at(4, 9, 15)})
	s, _ := newState(t, api)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Reschedule(context.Background(), 1, at(6, 0, 0), at(7, 0, 0), true))

	event, ok := s.Find(1)
	require.True(t, ok)
	assert.Equal(t, at(6, 0, 0), event.Start)
	assert.Equal(t, at(7, 0, 0), event.End)
	assert.True(t, event.AllDay)
	assert.Equal(t, 1, api.count("update"))

	assert.ErrorIs(t, s.Reschedule(context.Background(), 42, at(6, 0, 0), at(7, 0, 0), false), calendar.ErrNotFound)
}

// blockingAPI holds Update and Delete until released so the local state can
// be checked while the call is in flight.
type blockingAPI struct {
	*fakeAPI
	calls chan blockedCall
}

type blockedCall struct {
	event   calendar.Event
	release chan error
}

func newBlockingAPI(events ...calendar.Event) *blockingAPI {
	return &blockingAPI{
		fakeAPI: newFakeAPI(events...),
		calls:   make(chan blockedCall),
	}
}

func (b *blockingAPI) block(event calendar.Event) error {
	call := blockedCall{event: event, release: make(chan error)}
	b.calls <- call
	return <-call.release
}

func (b *blockingAPI) Update(_ context.Context, event calendar.Event) error {
	return b.block(event)
}

func (b *blockingAPI) Delete(_ context.Context, id int64) error {
	return b.block(calendar.Event{ID: id})
}

func TestRescheduleIsOptimisticAndRollsBack(t *testing.T) {
	original := calendar.Event{ID: 1, Title: "Standup", Start: at(4, 9, 0), End: at(4, 9, 15)}
	api := newBlockingAPI(original)
	s, notices := newState(t, api)
	require.NoError(t, s.Load(context.Background()))

	done := make(chan error)
	go func() {
		done <- s.Reschedule(context.Background(), 1, at(4, 10, 0), at(4, 10, 15), false)
	}()

	call := <-api.calls
	moved, _ := s.Find(1)
	assert.Equal(t, at(4, 10, 0), moved.Start, "local copy must move before the server answers")
	assert.Equal(t, moved, call.event)

	call.release <- errors.New("timeout")
	require.Error(t, <-done)

	restored, _ := s.Find(1)
	assert.Equal(t, original, restored)
	assert.Equal(t, []string{"Can't reschedule event: timeout"}, notices.errors())
}

func TestRescheduleRollbackKeepsNewerChange(t *testing.T) {
	api := newBlockingAPI(calendar.Event{ID: 1, Title: "Standup", Start: at(4, 9, 0), End: at(4, 9, 15)})
	s, _ := newState(t, api)
	require.NoError(t, s.Load(context.Background()))

	first := make(chan error)
	go func() { first <- s.Reschedule(context.Background(), 1, at(4, 10, 0), at(4, 10, 15), false) }()
	firstCall := <-api.calls

	second := make(chan error)
	go func() { second <- s.Reschedule(context.Background(), 1, at(4, 11, 0), at(4, 11, 15), false) }()
	secondCall := <-api.calls

	firstCall.release <- errors.New("lost")
	require.Error(t, <-first)
	secondCall.release <- nil
	require.NoError(t, <-second)

	event, _ := s.Find(1)
	assert.Equal(t, at(4, 11, 0), event.Start)
}

func TestDelete(t *testing.T) {
	api := newFakeAPI(
		calendar.Event{ID: 1, Title: "Standup", Start: at(4, 9, 0), End: at(4, 9, 15)},
		calendar.Event{ID: 2, Title: "Retro", Start: at(4, 16, 0), End: at(4, 17, 0)},
	)
	s, _ := newState(t, api)
	require.NoError(t, s.Load(context.Background()))

	var asked calendar.Event
	deleted, err := s.Delete(context.Background(), 1, func(e calendar.Event) bool {
		asked = e
		return false
	})
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Equal(t, "Standup", asked.Title)
	assert.Len(t, s.Events(), 2)
	assert.Equal(t, 0, api.count("delete"))

	deleted, err = s.Delete(context.Background(), 1, func(calendar.Event) bool { return true })
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []calendar.Event{{ID: 2, Title: "Retro", Start: at(4, 16, 0), End: at(4, 17, 0)}}, s.Events())
	assert.Equal(t, 1, api.count("delete"))

	_, err = s.Delete(context.Background(), 1, nil)
	assert.ErrorIs(t, err, calendar.ErrNotFound)
}

func TestDeleteIsOptimisticAndRollsBack(t *testing.T) {
	api := newBlockingAPI(
		calendar.Event{ID: 1, Title: "Standup", Start: at(4, 9, 0), End: at(4, 9, 15)},
		calendar.Event{ID: 2, Title: "Lunch", Start: at(4, 12, 0), End: at(4, 13, 0)},
		calendar.Event{ID: 3, Title: "Retro", Start: at(4, 16, 0), End: at(4, 17, 0)},
	)
	s, notices := newState(t, api)
	require.NoError(t, s.Load(context.Background()))
	before := s.Events()

	done := make(chan error)
	go func() {
		_, err := s.Delete(context.Background(), 2, nil)
		done <- err
	}()

	call := <-api.calls
	_, ok := s.Find(2)
	assert.False(t, ok, "event must leave the list before the server answers")

	call.release <- errors.New("server gone")
	require.Error(t, <-done)

	assert.Equal(t, before, s.Events(), "event must come back at its old position")
	assert.Equal(t, []string{"Can't delete event: server gone"}, notices.errors())
}
