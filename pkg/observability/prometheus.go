package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks records layout and HTTP events as Prometheus metrics.
// It implements both [LayoutHooks] and [HTTPHooks].
type PrometheusHooks struct {
	Operations      *prometheus.CounterVec
	Faults          *prometheus.CounterVec
	CollapsedGroups prometheus.Counter
	RecalcDuration  prometheus.Histogram
	TiledWindows    *prometheus.GaugeVec

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewPrometheusHooks creates the tiletree collectors and registers them with
// reg. Pass prometheus.NewRegistry() in tests to keep them isolated.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		Operations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tiletree_operations_total",
				Help: "Total number of layout operations by kind",
			},
			[]string{"op"},
		),
		Faults: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tiletree_faults_total",
				Help: "Total number of logged layout faults by error code",
			},
			[]string{"code"},
		),
		CollapsedGroups: f.NewCounter(
			prometheus.CounterOpts{
				Name: "tiletree_collapsed_groups_total",
				Help: "Total number of groups pruned or collapsed by removals",
			},
		),
		RecalcDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tiletree_recalc_duration_seconds",
				Help:    "Duration of outermost geometry passes in seconds",
				Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
			},
		),
		TiledWindows: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tiletree_tiled_windows",
				Help: "Number of tiled windows per workspace",
			},
			[]string{"workspace"},
		),
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tiletree_http_requests_total",
				Help: "Total number of debug API requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tiletree_http_request_duration_seconds",
				Help:    "Debug API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		),
	}
}

func (p *PrometheusHooks) OnInsert(workspace int, _ string) {
	p.Operations.WithLabelValues("insert").Inc()
	p.TiledWindows.WithLabelValues(strconv.Itoa(workspace)).Inc()
}

func (p *PrometheusHooks) OnRemove(workspace int, _ string, collapsed int) {
	p.Operations.WithLabelValues("remove").Inc()
	p.TiledWindows.WithLabelValues(strconv.Itoa(workspace)).Dec()
	if collapsed > 0 {
		p.CollapsedGroups.Add(float64(collapsed))
	}
}

func (p *PrometheusHooks) OnSplit(string, string) {
	p.Operations.WithLabelValues("split").Inc()
}

func (p *PrometheusHooks) OnRecalc(_ int, duration time.Duration) {
	p.Operations.WithLabelValues("recalc").Inc()
	p.RecalcDuration.Observe(duration.Seconds())
}

func (p *PrometheusHooks) OnFault(code string) {
	p.Faults.WithLabelValues(code).Inc()
}

func (p *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	p.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	p.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
