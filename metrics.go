// Metrics exporters for DeviceMaster publish/overflow/grow counters.
//
// Provides:
//   - PrometheusCollector implementing prometheus.Collector
//   - DatadogStatsdExporter for periodic flush to DogStatsD / StatsD
//
// Design goals (carried from the teacher's metrics_exporters.go):
//   - Lock-free hot path: exporters pull via DeviceMaster.AllStats(),
//     which only takes locks already required for other reads; the
//     publish path only bumps a counter under the node mutex it
//     already holds.
//   - Safe concurrent usage: each scrape/flush takes its own snapshot.
package orbus

import (
	"context"
	"fmt"
	"time"

	statsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	errNilMaster       = fmt.Errorf("orbus: nil DeviceMaster supplied")
	errInvalidInterval = fmt.Errorf("orbus: interval must be > 0")
)

// ----- Prometheus Collector -----

// PrometheusCollector implements prometheus.Collector over a
// DeviceMaster's per-node stats. It exposes three cumulative counters,
// each labeled by topic and instance:
//
//	orbus_publishes_total{topic="...",instance="..."}
//	orbus_overflows_total{topic="...",instance="..."}
//	orbus_grows_total{topic="...",instance="..."}
type PrometheusCollector struct {
	master *DeviceMaster

	publishesDesc *prometheus.Desc
	overflowsDesc *prometheus.Desc
	growsDesc     *prometheus.Desc
}

// NewPrometheusCollector creates a collector for master. namespace
// defaults to "orbus" if empty.
func NewPrometheusCollector(master *DeviceMaster, namespace string) *PrometheusCollector {
	if namespace == "" {
		namespace = "orbus"
	}
	labels := []string{"topic", "instance"}
	return &PrometheusCollector{
		master: master,
		publishesDesc: prometheus.NewDesc(
			fmt.Sprintf("%s_publishes_total", namespace),
			"Total successful publishes per node (cumulative)",
			labels, nil,
		),
		overflowsDesc: prometheus.NewDesc(
			fmt.Sprintf("%s_overflows_total", namespace),
			"Total subscriber-overflow skips per node (cumulative)",
			labels, nil,
		),
		growsDesc: prometheus.NewDesc(
			fmt.Sprintf("%s_grows_total", namespace),
			"Total queue-depth reallocations per node (cumulative)",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *PrometheusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.publishesDesc
	ch <- c.overflowsDesc
	ch <- c.growsDesc
}

// Collect implements prometheus.Collector.
func (c *PrometheusCollector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.master.AllStats() {
		instance := fmt.Sprintf("%d", s.Instance)
		ch <- prometheus.MustNewConstMetric(c.publishesDesc, prometheus.CounterValue, float64(s.Publishes), s.Topic, instance)
		ch <- prometheus.MustNewConstMetric(c.overflowsDesc, prometheus.CounterValue, float64(s.Overflows), s.Topic, instance)
		ch <- prometheus.MustNewConstMetric(c.growsDesc, prometheus.CounterValue, float64(s.Grows), s.Topic, instance)
	}
}

// ----- Datadog / StatsD Exporter -----

// DatadogStatsdExporter periodically flushes each node's cumulative
// counters as gauges to DogStatsD / StatsD.
type DatadogStatsdExporter struct {
	master   *DeviceMaster
	client   *statsd.Client
	prefix   string
	interval time.Duration
	baseTags []string
}

// NewDatadogStatsdExporter creates a new exporter. addr example:
// "127.0.0.1:8125". prefix defaults to "orbus" if empty. interval must
// be > 0.
func NewDatadogStatsdExporter(master *DeviceMaster, prefix, addr string, interval time.Duration, baseTags []string) (*DatadogStatsdExporter, error) {
	if master == nil {
		return nil, errNilMaster
	}
	if interval <= 0 {
		return nil, errInvalidInterval
	}
	if prefix == "" {
		prefix = "orbus"
	}
	client, err := statsd.New(addr, statsd.WithNamespace(prefix+"."))
	if err != nil {
		return nil, fmt.Errorf("orbus: creating statsd client: %w", err)
	}
	return &DatadogStatsdExporter{
		master:   master,
		client:   client,
		prefix:   prefix,
		interval: interval,
		baseTags: baseTags,
	}, nil
}

// Run starts the export loop until ctx is cancelled.
func (e *DatadogStatsdExporter) Run(ctx context.Context) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.flush()
		}
	}
}

func (e *DatadogStatsdExporter) flush() {
	for _, s := range e.master.AllStats() {
		tags := append(append([]string{}, e.baseTags...), "topic:"+s.Topic, fmt.Sprintf("instance:%d", s.Instance))
		_ = e.client.Gauge("publishes_total", float64(s.Publishes), tags, 1)
		_ = e.client.Gauge("overflows_total", float64(s.Overflows), tags, 1)
		_ = e.client.Gauge("grows_total", float64(s.Grows), tags, 1)
	}
}

// Close closes the underlying statsd client.
func (e *DatadogStatsdExporter) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	if err := e.client.Close(); err != nil {
		return fmt.Errorf("orbus: closing statsd client: %w", err)
	}
	return nil
}
