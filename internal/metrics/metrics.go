// Package metrics records per-operation counters and latencies for the
// filesystem facade.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nativefs"

// Status label values
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Recorder holds the facade's Prometheus collectors.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	OpsTotal    *prometheus.CounterVec
	OpDuration  *prometheus.HistogramVec
	BytesCopied prometheus.Counter
}

// NewRecorder creates the collectors and registers them on reg. Collectors
// already registered by another Recorder on the same registry are reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	opsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of filesystem operations",
		},
		[]string{"op", "status"},
	)
	opDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Filesystem operation duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"op"},
	)
	bytesCopied := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copied_bytes_total",
			Help:      "Total bytes written by copy and move",
		},
	)

	var err error
	r := &Recorder{}
	if r.OpsTotal, err = register(reg, opsTotal); err != nil {
		return nil, err
	}
	if r.OpDuration, err = register(reg, opDuration); err != nil {
		return nil, err
	}
	if r.BytesCopied, err = register(reg, bytesCopied); err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// Observe records one completed operation
func (r *Recorder) Observe(op string, start time.Time, err error) {
	if r == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.OpsTotal.WithLabelValues(op, status).Inc()
	r.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// AddCopied adds n to the copied bytes counter
func (r *Recorder) AddCopied(n int64) {
	if r == nil || n <= 0 {
		return
	}
	r.BytesCopied.Add(float64(n))
}
