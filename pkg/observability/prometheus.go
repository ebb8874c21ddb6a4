package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface on top of Prometheus
// collectors.
type Prometheus struct {
	runs          *prometheus.CounterVec
	patterns      prometheus.Histogram
	mineDuration  prometheus.Histogram
	condTrees     prometheus.Counter
	condNodes     prometheus.Histogram
	loaded        prometheus.Counter
	loadErrors    prometheus.Counter
	treeNodes     prometheus.Gauge
	cacheEvents   *prometheus.CounterVec
	cacheBytes    prometheus.Counter
	requests      *prometheus.CounterVec
	requestTiming *prometheus.HistogramVec
}

var (
	_ MiningHooks   = (*Prometheus)(nil)
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ ServerHooks   = (*Prometheus)(nil)
)

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	const ns = "sppgrowth"
	p := &Prometheus{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "mine_runs_total",
			Help: "Mining runs by outcome.",
		}, []string{"outcome"}),
		patterns: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "mine_patterns",
			Help:    "Patterns emitted per run.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		mineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "mine_duration_seconds",
			Help:    "Wall time of mining runs.",
			Buckets: prometheus.DefBuckets,
		}),
		condTrees: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "conditional_trees_total",
			Help: "Conditional trees built.",
		}),
		condNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "conditional_tree_nodes",
			Help:    "Node count of conditional trees.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		loaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "transactions_loaded_total",
			Help: "Transactions parsed from input.",
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "load_errors_total",
			Help: "Inputs rejected by the loader.",
		}),
		treeNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns, Name: "tree_nodes",
			Help: "Node count of the last top-level tree.",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "cache_events_total",
			Help: "Cache hits, misses and writes.",
		}, []string{"event", "type"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		requestTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		p.runs, p.patterns, p.mineDuration, p.condTrees, p.condNodes,
		p.loaded, p.loadErrors, p.treeNodes,
		p.cacheEvents, p.cacheBytes, p.requests, p.requestTiming,
	)
	return p
}

func (p *Prometheus) OnMineStart(context.Context, int) {}

func (p *Prometheus) OnConditionalTree(_ context.Context, _ int, nodes int) {
	p.condTrees.Inc()
	p.condNodes.Observe(float64(nodes))
}

func (p *Prometheus) OnMineComplete(_ context.Context, patterns int, d time.Duration, err error) {
	if err != nil {
		p.runs.WithLabelValues("error").Inc()
		return
	}
	p.runs.WithLabelValues("ok").Inc()
	p.patterns.Observe(float64(patterns))
	p.mineDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnLoadComplete(_ context.Context, transactions int, _ time.Duration, err error) {
	if err != nil {
		p.loadErrors.Inc()
		return
	}
	p.loaded.Add(float64(transactions))
}

func (p *Prometheus) OnBuildComplete(_ context.Context, _ int, nodes int, _ time.Duration) {
	p.treeNodes.Set(float64(nodes))
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues("hit", keyType).Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheEvents.WithLabelValues("miss", keyType).Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheEvents.WithLabelValues("set", keyType).Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *Prometheus) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.requestTiming.WithLabelValues(method, route).Observe(d.Seconds())
}
