package utils

import "time"

// Latencies in microseconds, drained by the metric collectors.
type Metric struct {
	DatabaseRead  chan float64
	DatabaseWrite chan float64
}

func NewMetric() *Metric {
	return &Metric{
		DatabaseRead:  make(chan float64, 64),
		DatabaseWrite: make(chan float64, 64),
	}
}

// Send drops the sample when nobody is collecting.
func (m *Metric) Send(ch chan float64, latency time.Duration) {
	select {
	case ch <- float64(latency.Microseconds()):
	default:
	}
}

func (m *Metric) ObserveRead(latency time.Duration) {
	m.Send(m.DatabaseRead, latency)
}

func (m *Metric) ObserveWrite(latency time.Duration) {
	m.Send(m.DatabaseWrite, latency)
}
