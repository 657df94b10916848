package store

import (
	"context"
	"fmt"
	"time"

	"eventcal/src-server/model"

	"github.com/uptrace/bun"
)

// EventStore runs the CRUD queries of the events table on an injected
// connection. Concurrent writes to the same row are last-write-wins.
type EventStore struct {
	db      bun.IDB
	onRead  func(time.Duration)
	onWrite func(time.Duration)
}

type Option func(*EventStore)

// WithLatencyObserver reports how long each read and write query took.
func WithLatencyObserver(onRead, onWrite func(time.Duration)) Option {
	return func(s *EventStore) {
		s.onRead = onRead
		s.onWrite = onWrite
	}
}

func NewEventStore(db bun.IDB, opts ...Option) *EventStore {
	s := &EventStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *EventStore) observe(observer func(time.Duration), start time.Time) {
	if observer != nil {
		observer(time.Since(start))
	}
}

func (s *EventStore) List(ctx context.Context) ([]model.Event, error) {
	defer s.observe(s.onRead, time.Now())

	eventModels := make([]model.Event, 0)
	if err := s.db.NewSelect().
		Model(&eventModels).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*EventStore).List: %w", err)
	}
	return eventModels, nil
}

// Get returns sql.ErrNoRows (wrapped) when the id doesn't exist.
func (s *EventStore) Get(ctx context.Context, id int64) (*model.Event, error) {
	defer s.observe(s.onRead, time.Now())

	eventModel := new(model.Event)
	if err := s.db.NewSelect().
		Model(eventModel).
		Where("id = ?", id).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("(*EventStore).Get: %w", err)
	}
	return eventModel, nil
}

func (s *EventStore) Count(ctx context.Context) (int, error) {
	defer s.observe(s.onRead, time.Now())

	count, err := s.db.NewSelect().
		Model((*model.Event)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("(*EventStore).Count: %w", err)
	}
	return count, nil
}

// Timestamps are written in UTC, the zone they are read back in, so a
// created event reads the same as its listed copy.
func inUTC(event model.Event) model.Event {
	event.Start = event.Start.UTC()
	event.End = event.End.UTC()
	return event
}

// Create inserts the event and fills in the generated id.
func (s *EventStore) Create(ctx context.Context, event model.Event) (model.Event, error) {
	defer s.observe(s.onWrite, time.Now())

	event = inUTC(event)
	event.ID = 0
	if _, err := s.db.NewInsert().
		Model(&event).
		Returning("id").
		Exec(ctx); err != nil {
		return model.Event{}, fmt.Errorf("(*EventStore).Create: %w", err)
	}
	return event, nil
}

// Update replaces title, start, end and all_day of the row. An unknown id
// matches no row and is not an error.
func (s *EventStore) Update(ctx context.Context, id int64, event model.Event) error {
	defer s.observe(s.onWrite, time.Now())

	event = inUTC(event)
	event.ID = id
	if _, err := s.db.NewUpdate().
		Model(&event).
		Column("title", "start", "end", "all_day").
		WherePK().
		Exec(ctx); err != nil {
		return fmt.Errorf("(*EventStore).Update: %w", err)
	}
	return nil
}

// Delete removes the row, an unknown id is not an error.
func (s *EventStore) Delete(ctx context.Context, id int64) error {
	defer s.observe(s.onWrite, time.Now())

	if _, err := s.db.NewDelete().
		Model((*model.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*EventStore).Delete: %w", err)
	}
	return nil
}

// Ping is an empty read used to measure the round trip to the database.
func (s *EventStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := s.db.NewSelect().
		Model((*model.Event)(nil)).
		Where("id = ?", 0).
		Exists(ctx); err != nil {
		return 0, fmt.Errorf("(*EventStore).Ping: %w", err)
	}
	return time.Since(start), nil
}
