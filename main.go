package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventcal/src-client/cli"
	"eventcal/src-server/metric"
	"eventcal/src-server/route"
	"eventcal/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	setLogger(slog.LevelDebug)
}

func setLogger(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	cfg := utils.NewConfig()
	setLogger(cfg.GetLogLevel())

	// `eventcal client` runs the terminal calendar against CALENDAR_API_URL
	if len(os.Args) > 1 && os.Args[1] == "client" {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := cli.Run(ctx, cfg.GetCalendarAPIURL(), os.Stdin, os.Stdout); err != nil {
			slog.Error("client stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	rawDB, err := utils.OpenDatabase(cfg.GetDatabasePath())
	if err != nil {
		slog.Error("can't open database", "error", err)
		os.Exit(1)
	}
	as, err := utils.NewAppState(context.Background(), cfg, rawDB)
	if err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	metric.Init(as)

	// http server
	httpSrv := &http.Server{
		Addr:              ":" + cfg.GetPort(),
		Handler:           route.Handler(as),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("server running", "url", "http://localhost:"+cfg.GetPort())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	slog.Info("Gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Warn("can't shut down HTTP server", "error", err)
	}
	as.GracefulShutdown()
}
