// Package metrics adapts a chm.Map's statistics to the
// prometheus.Collector interface, so a caller can register it into
// their own prometheus.Registry without chm itself depending on a
// metrics library.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Emanem/ehmap/chm"
)

var (
	bucketOccupancyDesc = prometheus.NewDesc(
		"ehmap_bucket_occupancy",
		"Number of primary buckets whose head node holds exactly this many entries.",
		[]string{"depth"}, nil,
	)
	claimedPairsDesc = prometheus.NewDesc(
		"ehmap_claimed_pairs",
		"Number of slab slots ever claimed by an insert.",
		nil, nil,
	)
	unusedPairsDesc = prometheus.NewDesc(
		"ehmap_unused_pairs",
		"Number of claimed slab slots abandoned by a losing duplicate-key insert.",
		nil, nil,
	)
	primaryBytesDesc = prometheus.NewDesc(
		"ehmap_primary_bytes",
		"Fixed primary storage footprint of the map in bytes (bucket array plus slab).",
		nil, nil,
	)
)

// statsSource is the part of chm.Map that Collector needs, named so
// Collector doesn't have to carry chm.Map's K/V type parameters.
type statsSource interface {
	GetStats() chm.Stats
	MemSize() uintptr
}

// Collector wraps a *chm.Map[K, V] and exposes its statistics as
// Prometheus gauges. It holds no lock of its own: chm.Map.GetStats
// and MemSize are already safe to call concurrently with any other
// Map operation.
type Collector struct {
	m statsSource
}

// NewCollector wraps m for registration into a prometheus.Registry.
func NewCollector[K comparable, V any](m *chm.Map[K, V]) *Collector {
	return &Collector{m: m}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- bucketOccupancyDesc
	ch <- claimedPairsDesc
	ch <- unusedPairsDesc
	ch <- primaryBytesDesc
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.m.GetStats()
	for depth, count := range stats.ElsPerBucket {
		ch <- prometheus.MustNewConstMetric(bucketOccupancyDesc, prometheus.GaugeValue,
			float64(count), fmt.Sprintf("%d", depth))
	}
	ch <- prometheus.MustNewConstMetric(claimedPairsDesc, prometheus.GaugeValue, float64(stats.ClaimedPairs))
	ch <- prometheus.MustNewConstMetric(unusedPairsDesc, prometheus.GaugeValue, float64(stats.UnusedPairs))
	ch <- prometheus.MustNewConstMetric(primaryBytesDesc, prometheus.GaugeValue, float64(c.m.MemSize()))
}
