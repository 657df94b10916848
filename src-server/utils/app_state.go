package utils

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"eventcal/src-server/model"
	"eventcal/src-server/store"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config      *Config
	RawDB       *sql.DB
	BunDB       *bun.DB
	Events      *store.EventStore
	MetricChans *Metric

	AppCloseSignalChan chan os.Signal

	gracefulShutdownMu    sync.Mutex
	gracefulShutdownChans []chan struct{}
	shutdownOnce          sync.Once
}

// OpenDatabase opens the SQLite file at path, creating it when missing.
func OpenDatabase(path string) (*sql.DB, error) {
	rawDB, err := sql.Open(sqliteshim.ShimName, "file:"+path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("OpenDatabase: %w", err)
	}
	// SQLite allows a single writer, requests queue up here
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)
	return rawDB, nil
}

// NewAppState takes ownership of rawDB, it's closed by GracefulShutdown.
func NewAppState(ctx context.Context, cfg *Config, rawDB *sql.DB) (*AppState, error) {
	as := &AppState{
		Config:             cfg,
		RawDB:              rawDB,
		MetricChans:        NewMetric(),
		AppCloseSignalChan: make(chan os.Signal, 1),
	}

	as.BunDB = bun.NewDB(rawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	if err := model.CreateSchema(ctx, as.BunDB); err != nil {
		return nil, fmt.Errorf("NewAppState: %w", err)
	}

	as.Events = store.NewEventStore(as.BunDB, store.WithLatencyObserver(
		as.MetricChans.ObserveRead,
		as.MetricChans.ObserveWrite,
	))

	return as, nil
}

// CreateGracefulShutdownChan returns a channel closed once GracefulShutdown
// runs.
func (as *AppState) CreateGracefulShutdownChan() <-chan struct{} {
	as.gracefulShutdownMu.Lock()
	defer as.gracefulShutdownMu.Unlock()
	ch := make(chan struct{})
	as.gracefulShutdownChans = append(as.gracefulShutdownChans, ch)
	return ch
}

func (as *AppState) GracefulShutdown() {
	as.shutdownOnce.Do(func() {
		as.gracefulShutdownMu.Lock()
		for _, ch := range as.gracefulShutdownChans {
			close(ch)
		}
		as.gracefulShutdownChans = nil
		as.gracefulShutdownMu.Unlock()

		if err := as.BunDB.Close(); err != nil {
			slog.Warn("can't close database", "error", err)
		}
	})
}
