// Package metrics counts engine outcomes in a private Prometheus registry.
// Nothing is served over the network; the CLI prints a snapshot on demand.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "shield"

// Outcome labels.
const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Recorder counts engine operations in a private Prometheus registry.
// It is safe for concurrent use.
type Recorder struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	customers  *prometheus.CounterVec
	toggles    *prometheus.CounterVec
	accounts   prometheus.Gauge
}

// New creates a Recorder with its own registry, so several engines in one
// process (tests) never collide.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "operations_total",
				Help:      "Authentication operations by outcome and mode",
			},
			[]string{"operation", "result", "mode"},
		),
		customers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "customers",
				Name:      "added_total",
				Help:      "Customer records stored, by mode at write time",
			},
			[]string{"mode"},
		),
		toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mode",
				Name:      "toggles_total",
				Help:      "Mode switches, by the mode switched to",
			},
			[]string{"mode"},
		),
		accounts: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "accounts",
				Help:      "Accounts currently stored",
			},
		),
	}

	r.registry.MustRegister(r.operations, r.customers, r.toggles, r.accounts)
	return r
}

func result(ok bool) string {
	if ok {
		return ResultOK
	}
	return ResultFailed
}

// Operation counts one attempt of op under mode, split by outcome.
func (r *Recorder) Operation(op string, ok bool, mode string) {
	r.operations.WithLabelValues(op, result(ok), mode).Inc()
}

// CustomerAdded counts a stored customer record under mode.
func (r *Recorder) CustomerAdded(mode string) {
	r.customers.WithLabelValues(mode).Inc()
}

// ModeToggled counts a switch into mode.
func (r *Recorder) ModeToggled(mode string) {
	r.toggles.WithLabelValues(mode).Inc()
}

// SetAccounts sets the stored account gauge.
func (r *Recorder) SetAccounts(n int) {
	r.accounts.Set(float64(n))
}

// Sample is one gathered series. Labels are rendered "k=v,k=v" in name order.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

func (s Sample) String() string {
	if s.Labels == "" {
		return fmt.Sprintf("%s %g", s.Name, s.Value)
	}
	return fmt.Sprintf("%s{%s} %g", s.Name, s.Labels, s.Value)
}

// Snapshot gathers every series that has been touched at least once.
func (r *Recorder) Snapshot() ([]Sample, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: labels(m.GetLabel()),
				Value:  value(mf.GetType(), m),
			})
		}
	}
	return out, nil
}

// Value returns the current value of the series name{labels}, or 0.
func (r *Recorder) Value(name, labels string) float64 {
	samples, err := r.Snapshot()
	if err != nil {
		return 0
	}
	for _, s := range samples {
		if s.Name == name && s.Labels == labels {
			return s.Value
		}
	}
	return 0
}

func labels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func value(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	default:
		return m.GetUntyped().GetValue()
	}
}
