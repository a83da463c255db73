// Copyright (c) Microsoft. All rights reserved.

package alltools

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts routing and tool-execution outcomes. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	routed    *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	finishes  prometheus.Counter
	toolCalls *prometheus.CounterVec
}

// NewMetrics registers the pipeline counters on registry. It returns nil when
// registry is nil.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		return nil
	}

	m := &Metrics{
		routed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alltools_invocations_routed_total",
				Help: "Total number of tool invocations produced by the router, by tool family",
			},
			[]string{"family"},
		),
		dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alltools_tool_calls_dropped_total",
				Help: "Total number of tool calls or families dropped because they could not be parsed",
			},
			[]string{"family"},
		),
		finishes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "alltools_finishes_total",
				Help: "Total number of messages routed to a final answer",
			},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alltools_tool_executions_total",
				Help: "Total number of tool executions by family and outcome",
			},
			[]string{"family", "outcome"},
		),
	}

	registry.MustRegister(m.routed, m.dropped, m.finishes, m.toolCalls)
	return m
}

func (m *Metrics) incRouted(f Family) {
	if m != nil {
		m.routed.WithLabelValues(f.String()).Inc()
	}
}

func (m *Metrics) incDropped(f Family) {
	if m != nil {
		m.dropped.WithLabelValues(f.String()).Inc()
	}
}

func (m *Metrics) incFinish() {
	if m != nil {
		m.finishes.Inc()
	}
}

func (m *Metrics) incToolCall(f Family, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.toolCalls.WithLabelValues(f.String(), outcome).Inc()
}
