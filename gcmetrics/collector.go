// Package gcmetrics exports gcptr registry statistics as Prometheus metrics.
package gcmetrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pavanmanishd/gcptr"
)

const namespace = "gcptr"

// StatsSource is anything that can report registry statistics,
// typically a *gcptr.Context.
type StatsSource interface {
	Stats() []gcptr.Stats
}

// Collector is a prometheus.Collector over every registry of a source.
// Statistics are read at scrape time.
type Collector struct {
	src StatsSource

	records     *prometheus.Desc
	refs        *prometheus.Desc
	ops         *prometheus.Desc
	collections *prometheus.Desc
	freed       *prometheus.Desc
	faults      *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for src.
func NewCollector(src StatsSource) *Collector {
	label := []string{"registry"}
	return &Collector{
		src: src,
		records: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "records"),
			"Tracked allocations currently in the registry.", label, nil),
		refs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "references"),
			"Sum of reference counts over all records.", label, nil),
		ops: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "pointer", "operations_total"),
			"Pointer lifecycle operations by kind.", []string{"registry", "op"}, nil),
		collections: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "collections_total"),
			"Sweeps run.", label, nil),
		freed: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "freed_total"),
			"Allocations freed by kind.", []string{"registry", "kind"}, nil),
		faults: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "faults_total"),
			"Lifecycle faults absorbed.", label, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.records
	ch <- c.refs
	ch <- c.ops
	ch <- c.collections
	ch <- c.freed
	ch <- c.faults
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, s := range c.src.Stats() {
		ch <- prometheus.MustNewConstMetric(c.records, prometheus.GaugeValue, float64(s.Records), s.Name)
		ch <- prometheus.MustNewConstMetric(c.refs, prometheus.GaugeValue, float64(s.Refs), s.Name)

		for op, v := range map[string]uint64{
			"construct": s.Constructed,
			"copy":      s.Copied,
			"assign":    s.Assigned,
			"release":   s.Released,
		} {
			ch <- prometheus.MustNewConstMetric(c.ops, prometheus.CounterValue, float64(v), s.Name, op)
		}

		ch <- prometheus.MustNewConstMetric(c.collections, prometheus.CounterValue, float64(s.Collections), s.Name)
		ch <- prometheus.MustNewConstMetric(c.freed, prometheus.CounterValue, float64(s.FreedScalars), s.Name, "scalar")
		ch <- prometheus.MustNewConstMetric(c.freed, prometheus.CounterValue, float64(s.FreedArrays), s.Name, "array")
		ch <- prometheus.MustNewConstMetric(c.faults, prometheus.CounterValue, float64(s.Faults), s.Name)
	}
}
