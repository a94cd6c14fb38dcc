package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AgentMetrics struct {
	registry *prometheus.Registry

	toolCallsTotal   *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
	toolCallInFlight prometheus.Gauge
}

func NewAgentMetrics(service string) *AgentMetrics {
	registry := prometheus.NewRegistry()

	toolCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cra",
			Subsystem: "agent",
			Name:      "tool_calls_total",
			Help:      "Total agent tool invocations by tool and status.",
		},
		[]string{"service", "tool", "status"},
	)
	toolCallDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cra",
			Subsystem: "agent",
			Name:      "tool_call_duration_seconds",
			Help:      "Tool invocation duration in seconds by tool.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "tool"},
	)
	toolCallInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cra",
			Subsystem: "agent",
			Name:      "tool_calls_in_flight",
			Help:      "Number of in-flight tool invocations.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(toolCallsTotal, toolCallDuration, toolCallInFlight)

	return &AgentMetrics{
		registry:         registry,
		toolCallsTotal:   toolCallsTotal,
		toolCallDuration: toolCallDuration,
		toolCallInFlight: toolCallInFlight,
	}
}

func (m *AgentMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *AgentMetrics) StartToolCall() {
	m.toolCallInFlight.Inc()
}

func (m *AgentMetrics) FinishToolCall(service, tool string, duration time.Duration, err error) {
	m.toolCallInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}

	m.toolCallsTotal.WithLabelValues(service, tool, status).Inc()
	m.toolCallDuration.WithLabelValues(service, tool).Observe(duration.Seconds())
}
