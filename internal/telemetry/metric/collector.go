package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/kvplay-go/internal/core/domain"
)

// StoreCollector reports the live keys of the current store, by type.
// It reads the store on every scrape instead of tracking a gauge.
type StoreCollector struct {
	snapshot func() *domain.Store
	now      func() time.Time

	keys     *prometheus.Desc
	volatile *prometheus.Desc
}

// NewStoreCollector creates a collector over snapshot. now defaults to time.Now.
func NewStoreCollector(snapshot func() *domain.Store, now func() time.Time) *StoreCollector {
	if now == nil {
		now = time.Now
	}
	return &StoreCollector{
		snapshot: snapshot,
		now:      now,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Live keys in the store, by type",
			[]string{"type"}, nil,
		),
		volatile: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "volatile_keys"),
			"Live keys that carry an expiration",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *StoreCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.volatile
}

// Collect implements prometheus.Collector.
func (c *StoreCollector) Collect(ch chan<- prometheus.Metric) {
	store := c.snapshot()
	now := c.now()

	var counts [domain.KindHash + 1]int
	store.Range(func(_ string, e domain.Entry) bool {
		if !e.IsExpiredAt(now) {
			counts[e.Kind()]++
		}
		return true
	})
	for k := domain.KindString; k <= domain.KindHash; k++ {
		ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(counts[k]), k.String())
	}
	ch <- prometheus.MustNewConstMetric(c.volatile, prometheus.GaugeValue, float64(store.VolatileCount(now)))
}
