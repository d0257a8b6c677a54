package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/whaeuser/healthterm/internal/model"
)

const prefix = "healthterm"

type recorder struct {
	providerQueryDuration *prometheus.HistogramVec
	fetches               *prometheus.CounterVec
	registryUpserts       *prometheus.CounterVec
	snapshots             prometheus.Counter
	snapshotRecords       prometheus.Gauge
	cacheLookups          *prometheus.CounterVec
}

// NewPrometheus returns a Recorder that registers its metrics on reg.
func NewPrometheus(reg prometheus.Registerer) Recorder {
	r := &recorder{
		providerQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: prefix,
			Subsystem: "provider",
			Name:      "query_duration_seconds",
			Help:      "The duration of the queries made to the health data provider.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider", "sample_type", "operation", "success"}),

		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Subsystem: "query",
			Name:      "fetches_total",
			Help:      "The total number of metric fetches by outcome.",
		}, []string{"metric", "outcome"}),

		registryUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Subsystem: "registry",
			Name:      "upserts_total",
			Help:      "The total number of writes on the aggregation registry.",
		}, []string{"metric", "changed"}),

		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: prefix,
			Subsystem: "publisher",
			Name:      "snapshots_total",
			Help:      "The total number of snapshots delivered to the subscriber.",
		}),

		snapshotRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: prefix,
			Subsystem: "publisher",
			Name:      "snapshot_records",
			Help:      "The number of records of the last delivered snapshot.",
		}),

		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: prefix,
			Subsystem: "provider",
			Name:      "cache_lookups_total",
			Help:      "The total number of lookups on the provider query cache.",
		}, []string{"provider", "hit"}),
	}

	reg.MustRegister(
		r.providerQueryDuration,
		r.fetches,
		r.registryUpserts,
		r.snapshots,
		r.snapshotRecords,
		r.cacheLookups,
	)

	return r
}

func (r *recorder) ObserveProviderQuery(providerID string, st model.SampleType, op string, success bool, duration time.Duration) {
	r.providerQueryDuration.WithLabelValues(providerID, string(st), op, strconv.FormatBool(success)).Observe(duration.Seconds())
}

func (r *recorder) IncFetch(mt model.MetricType, outcome string) {
	r.fetches.WithLabelValues(string(mt), outcome).Inc()
}

func (r *recorder) IncRegistryUpsert(mt model.MetricType, changed bool) {
	r.registryUpserts.WithLabelValues(string(mt), strconv.FormatBool(changed)).Inc()
}

func (r *recorder) IncSnapshotPublished(records int) {
	r.snapshots.Inc()
	r.snapshotRecords.Set(float64(records))
}

func (r *recorder) IncProviderCacheLookup(providerID string, hit bool) {
	r.cacheLookups.WithLabelValues(providerID, strconv.FormatBool(hit)).Inc()
}
