// Package metrics instruments the orchestrator with Prometheus collectors
// for model invocations and tool dispatches. The Collector interface keeps
// the control loop decoupled from the metrics backend; Nop disables
// instrumentation entirely.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector receives timing observations from the orchestration loop and the
// tool dispatcher. Implementations must be safe for concurrent use.
type Collector interface {
	// ObserveModelCall records one model invocation with its outcome.
	ObserveModelCall(provider string, dur time.Duration, failed bool)
	// ObserveToolCall records one tool dispatch; code is "" on success or
	// the tool error code on failure.
	ObserveToolCall(name string, dur time.Duration, code string)
	// SessionStarted / SessionClosed track the live session gauge.
	SessionStarted()
	SessionClosed()
}

// Prometheus is a Collector backed by prometheus client vectors.
type Prometheus struct {
	modelCalls    *prometheus.CounterVec
	modelDuration *prometheus.HistogramVec
	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	sessions      prometheus.Gauge
}

// NewPrometheus constructs the collector and registers its vectors with reg
// (use prometheus.DefaultRegisterer for the process-wide registry).
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	c := &Prometheus{
		modelCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finchat_model_calls_total",
				Help: "Total number of model invocations",
			},
			[]string{"provider", "outcome"},
		),
		modelDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "finchat_model_call_duration_seconds",
				Help: "Duration of model invocations",
			},
			[]string{"provider"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finchat_tool_calls_total",
				Help: "Total number of tool dispatches",
			},
			[]string{"tool", "outcome"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "finchat_tool_duration_seconds",
				Help: "Duration of tool executions",
			},
			[]string{"tool"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "finchat_active_sessions",
			Help: "Number of live conversation sessions",
		}),
	}

	reg.MustRegister(c.modelCalls, c.modelDuration, c.toolCalls, c.toolDuration, c.sessions)

	return c
}

// ObserveModelCall implements Collector.
func (c *Prometheus) ObserveModelCall(provider string, dur time.Duration, failed bool) {
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	c.modelCalls.WithLabelValues(provider, outcome).Inc()
	c.modelDuration.WithLabelValues(provider).Observe(dur.Seconds())
}

// ObserveToolCall implements Collector.
func (c *Prometheus) ObserveToolCall(name string, dur time.Duration, code string) {
	outcome := "ok"
	if code != "" {
		outcome = code
	}
	c.toolCalls.WithLabelValues(name, outcome).Inc()
	c.toolDuration.WithLabelValues(name).Observe(dur.Seconds())
}

// SessionStarted implements Collector.
func (c *Prometheus) SessionStarted() { c.sessions.Inc() }

// SessionClosed implements Collector.
func (c *Prometheus) SessionClosed() { c.sessions.Dec() }

// Nop is a Collector that discards all observations.
type Nop struct{}

// ObserveModelCall implements Collector.
func (Nop) ObserveModelCall(string, time.Duration, bool) {}

// ObserveToolCall implements Collector.
func (Nop) ObserveToolCall(string, time.Duration, string) {}

// SessionStarted implements Collector.
func (Nop) SessionStarted() {}

// SessionClosed implements Collector.
func (Nop) SessionClosed() {}
