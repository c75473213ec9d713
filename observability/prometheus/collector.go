// Package prometheus exports vecstore operation metrics to Prometheus.
package prometheus

import (
	"time"

	"github.com/hupe1980/vecstore"
	"github.com/prometheus/client_golang/prometheus"
)

var _ vecstore.MetricsCollector = (*Collector)(nil)

// Collector implements vecstore.MetricsCollector with Prometheus
// histograms and counters.
type Collector struct {
	opLatency    *prometheus.HistogramVec
	batchItems   *prometheus.CounterVec
	searchK      prometheus.Histogram
	persistBytes prometheus.Histogram
}

// NewCollector creates a collector and registers its metrics with reg. A
// nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vecstore_operation_latency_seconds",
			Help:    "Latency of collection operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		batchItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vecstore_batch_insert_items_total",
			Help: "Items submitted through batch inserts",
		}, []string{"status"}),
		searchK: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecstore_search_k",
			Help:    "Requested result count per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 6),
		}),
		persistBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "vecstore_persist_bytes",
			Help:    "Encoded size of persisted collections",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),
	}

	for _, m := range []prometheus.Collector{c.opLatency, c.batchItems, c.searchK, c.persistBytes} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) RecordInsert(d time.Duration, err error) {
	c.opLatency.WithLabelValues("insert", status(err)).Observe(d.Seconds())
}

func (c *Collector) RecordBatchInsert(count, failed int, d time.Duration) {
	st := "success"
	if failed > 0 {
		st = "error"
	}
	c.opLatency.WithLabelValues("batch_insert", st).Observe(d.Seconds())
	c.batchItems.WithLabelValues("success").Add(float64(count - failed))
	c.batchItems.WithLabelValues("error").Add(float64(failed))
}

func (c *Collector) RecordSearch(k int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("search", status(err)).Observe(d.Seconds())
	c.searchK.Observe(float64(k))
}

func (c *Collector) RecordDelete(d time.Duration, err error) {
	c.opLatency.WithLabelValues("delete", status(err)).Observe(d.Seconds())
}

func (c *Collector) RecordUpdate(d time.Duration, err error) {
	c.opLatency.WithLabelValues("update", status(err)).Observe(d.Seconds())
}

func (c *Collector) RecordPersist(bytes int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("persist", status(err)).Observe(d.Seconds())
	if err == nil {
		c.persistBytes.Observe(float64(bytes))
	}
}
