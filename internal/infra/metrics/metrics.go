package metrics

import (
	"net/http"
	"time"

	"qrcard/internal/domain/issuance"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus records issuance and redemption telemetry on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	tokensMinted     prometheus.Counter
	chunksWritten    prometheus.Counter
	artifactsSkipped prometheus.Counter
	progressMinted   prometheus.Gauge
	progressTotal    prometheus.Gauge
	progressRate     prometheus.Gauge
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	redemptions      *prometheus.CounterVec

	now func() time.Time
}

func NewPrometheus(namespace string) *Prometheus {
	m := &Prometheus{
		registry: prometheus.NewRegistry(),
		tokensMinted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "issuance", Name: "tokens_minted_total",
			Help: "Tokens committed to the store.",
		}),
		chunksWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "issuance", Name: "chunks_written_total",
			Help: "Chunk transactions committed.",
		}),
		artifactsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "issuance", Name: "artifacts_skipped_total",
			Help: "Tokens whose image could not be rendered or saved.",
		}),
		progressMinted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "issuance", Name: "progress_minted",
			Help: "Tokens minted so far by the latest run.",
		}),
		progressTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "issuance", Name: "progress_total",
			Help: "Tokens requested by the latest run.",
		}),
		progressRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "issuance", Name: "progress_rate_per_second",
			Help: "Minting rate of the latest run.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "issuance", Name: "runs_total",
			Help: "Finished issuance runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "issuance", Name: "run_duration_seconds",
			Help:    "Wall time of issuance runs.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "redemption", Name: "decisions_total",
			Help: "Redemption decisions by status.",
		}, []string{"status"}),
		now: time.Now,
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.tokensMinted,
		m.chunksWritten,
		m.artifactsSkipped,
		m.progressMinted,
		m.progressTotal,
		m.progressRate,
		m.runs,
		m.runDuration,
		m.redemptions,
	)
	return m
}

func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Prometheus) ObserveChunk(written int) {
	m.chunksWritten.Inc()
	m.tokensMinted.Add(float64(written))
}

func (m *Prometheus) ObserveSkipped(n int) {
	m.artifactsSkipped.Add(float64(n))
}

func (m *Prometheus) ObserveProgress(p issuance.Progress) {
	m.progressMinted.Set(float64(p.Minted))
	m.progressTotal.Set(float64(p.Total))
	if r := p.Report(m.now()); r.RateAvailable {
		m.progressRate.Set(r.Rate)
	}
}

func (m *Prometheus) ObserveRun(outcome string, elapsed time.Duration) {
	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(elapsed.Seconds())
}

func (m *Prometheus) ObserveRedemption(status string) {
	m.redemptions.WithLabelValues(status).Inc()
}
