package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector tracks pipeline-level metrics: how often parses run, how often the
// LLM path falls back to the regex extractor, and how long each stage takes.
// All methods are nil-safe so tests can pass a nil collector.
type Collector struct {
	parseRequests      *prometheus.CounterVec
	parseFallbacks     prometheus.Counter
	extractionFailures *prometheus.CounterVec
	stageLatency       *prometheus.HistogramVec
	agentRuns          *prometheus.CounterVec
}

func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		parseRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_requests_total",
				Help:      "Total number of parse requests per input modality",
			},
			[]string{"modality"},
		),
		parseFallbacks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_fallbacks_total",
				Help:      "Total number of parses that used the regex fallback path",
			},
		),
		extractionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extraction_failures_total",
				Help:      "Total number of OCR/transcription failures per modality",
			},
			[]string{"modality"},
		),
		stageLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each pipeline stage",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"stage"},
		),
		agentRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "agent_runs_total",
				Help:      "Total number of agent executions per agent and outcome",
			},
			[]string{"agent", "outcome"},
		),
	}

	reg.MustRegister(c.parseRequests, c.parseFallbacks, c.extractionFailures, c.stageLatency, c.agentRuns)
	return c
}

func (c *Collector) ParseRequest(modality string) {
	if c == nil {
		return
	}
	c.parseRequests.WithLabelValues(modality).Inc()
}

func (c *Collector) ParseFallback() {
	if c == nil {
		return
	}
	c.parseFallbacks.Inc()
}

func (c *Collector) ExtractionFailure(modality string) {
	if c == nil {
		return
	}
	c.extractionFailures.WithLabelValues(modality).Inc()
}

func (c *Collector) ObserveStage(stage string, d time.Duration) {
	if c == nil {
		return
	}
	c.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}

func (c *Collector) AgentRun(agent, outcome string) {
	if c == nil {
		return
	}
	c.agentRuns.WithLabelValues(agent, outcome).Inc()
}
