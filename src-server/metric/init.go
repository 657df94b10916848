package metric

import (
	"context"
	"log/slog"
	"time"

	"eventcal/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
)

// register returns nil when the collector couldn't be registered, an
// already registered collector is reused.
func register(name string, collector prometheus.Collector) prometheus.Collector {
	if err := prometheus.Register(collector); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			slog.Error("can't register metric", "metric", name, "error", err)
			return nil
		}
		return are.ExistingCollector
	}
	slog.Debug("metric registered", "metric", name)
	return collector
}

func unregister(name string, collector prometheus.Collector) {
	switch prometheus.Unregister(collector) {
	case true:
		slog.Debug("metric unregistered", "metric", name)
	case false:
		slog.Warn("metric not registered", "metric", name)
	}
}

// polled gauges are refreshed every tick by calling probe
func polledGauge(as *utils.AppState, opts prometheus.GaugeOpts, interval time.Duration, probe func() (float64, error)) {
	gauge, ok := register(opts.Name, prometheus.NewGauge(opts)).(prometheus.Gauge)
	if !ok {
		return
	}
	gauge.Set(0)

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-gracefulShutdownCh:
				unregister(opts.Name, gauge)
				return
			case <-ticker.C:
				value, err := probe()
				if err != nil {
					slog.Error("can't probe metric", "metric", opts.Name, "error", err)
					continue
				}
				gauge.Set(value)
			}
		}
	}()
}

// fed gauges take their value from a channel and fall back to 0 when
// nothing arrived for clearInterval
func fedGauge(as *utils.AppState, opts prometheus.GaugeOpts, clearInterval time.Duration, samples <-chan float64) {
	gauge, ok := register(opts.Name, prometheus.NewGauge(opts)).(prometheus.Gauge)
	if !ok {
		return
	}
	gauge.Set(0)

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		clearTicker := time.NewTicker(clearInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-gracefulShutdownCh:
				unregister(opts.Name, gauge)
				return
			case latency := <-samples:
				gauge.Set(latency)
				clearTicker.Reset(clearInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := tickerInterval * 2

	polledGauge(as, prometheus.GaugeOpts{
		Name: "eventcal_database_empty_read_microsec",
		Help: "The latency of an empty database read in microseconds",
	}, tickerInterval, func() (float64, error) {
		latency, err := as.Events.Ping(context.Background())
		return float64(latency.Microseconds()), err
	})

	polledGauge(as, prometheus.GaugeOpts{
		Name: "eventcal_events_total",
		Help: "The number of events stored",
	}, tickerInterval, func() (float64, error) {
		count, err := as.Events.Count(context.Background())
		return float64(count), err
	})

	fedGauge(as, prometheus.GaugeOpts{
		Name: "eventcal_database_read_microsec",
		Help: "The latency of a database read in microseconds",
	}, clearTickerInterval, as.MetricChans.DatabaseRead)

	fedGauge(as, prometheus.GaugeOpts{
		Name: "eventcal_database_write_microsec",
		Help: "The latency of a database write in microseconds",
	}, clearTickerInterval, as.MetricChans.DatabaseWrite)
}
