package swr

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	lookups       *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	revalidators  prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dex_data",
			Subsystem: "swr",
			Name:      "lookups_total",
			Help:      "Cache lookups by key kind and result (fresh, stale, miss, skipped).",
		}, []string{"kind", "result"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dex_data",
			Subsystem: "swr",
			Name:      "fetches_total",
			Help:      "Remote fetches by key kind and outcome.",
		}, []string{"kind", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dex_data",
			Subsystem: "swr",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of remote fetches by key kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		revalidators: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dex_data",
			Subsystem: "swr",
			Name:      "revalidators",
			Help:      "Keys currently revalidated in the background.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.fetches, m.fetchDuration, m.revalidators)
	}
	return m
}
