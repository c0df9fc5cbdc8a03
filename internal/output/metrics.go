package output

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the gauges exported for a run.
type Metrics struct {
	AccessNs       *prometheus.GaugeVec
	AccessDevNs    *prometheus.GaugeVec
	FillFactor     *prometheus.GaugeVec
	AvgProbes      *prometheus.GaugeVec
	ChecksumErrors *prometheus.GaugeVec
	LoadNs         *prometheus.GaugeVec
	MemoryBytes    *prometheus.GaugeVec
}

// NewMetrics creates and registers all metrics with the provided registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "hashmark",
			Name:      name,
			Help:      help,
		}, []string{"cache"})
	}

	m := &Metrics{
		AccessNs:       gauge("access_ns_per_item", "Mean lookup time per accessed id over stable passes"),
		AccessDevNs:    gauge("access_ns_per_item_stddev", "Standard deviation of the lookup time per accessed id"),
		FillFactor:     gauge("fill_factor", "Mean fill factor after loading, for caches that report it"),
		AvgProbes:      gauge("access_probes", "Mean slots visited per lookup, for caches that report it"),
		ChecksumErrors: gauge("checksum_mismatches", "Passes whose checksum differed from the first pass on the same workload"),
		LoadNs:         gauge("load_ns_per_record", "Time to bulk-load one record, growth included"),
		MemoryBytes:    gauge("memory_bytes", "Heap bytes held by a cache loaded with the workload"),
	}
	reg.MustRegister(m.AccessNs, m.AccessDevNs, m.FillFactor, m.AvgProbes, m.ChecksumErrors, m.LoadNs, m.MemoryBytes)
	return m
}

// Observe sets the gauges from results.
func (m *Metrics) Observe(results Results) {
	for _, r := range results.Access {
		m.AccessNs.WithLabelValues(r.Name).Set(r.MeanNs)
		m.AccessDevNs.WithLabelValues(r.Name).Set(r.DevNs)
		m.ChecksumErrors.WithLabelValues(r.Name).Set(float64(r.ChecksumMismatches))
		if r.StatSamples > 0 {
			m.FillFactor.WithLabelValues(r.Name).Set(r.FillFactor)
			m.AvgProbes.WithLabelValues(r.Name).Set(r.AvgProbes)
		}
	}
	for _, r := range results.Load {
		m.LoadNs.WithLabelValues(r.Name).Set(r.NsPerRecord)
	}
	for _, r := range results.Memory {
		m.MemoryBytes.WithLabelValues(r.Name).Set(float64(r.Bytes))
	}
}

// WriteMetrics writes results in the Prometheus text format to filename,
// for pickup by a node exporter textfile collector.
func WriteMetrics(filename string, results Results) error {
	reg := prometheus.NewRegistry()
	NewMetrics(reg).Observe(results)
	return prometheus.WriteToTextfile(filename, reg)
}
