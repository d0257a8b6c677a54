package metrics

import (
	"time"

	"github.com/whaeuser/healthterm/internal/model"
)

// Recorder knows how to record the metrics of the aggregation layer.
type Recorder interface {
	// ObserveProviderQuery records a query made against a health data provider.
	ObserveProviderQuery(providerID string, st model.SampleType, op string, success bool, duration time.Duration)
	// IncFetch records the outcome of a metric fetch.
	IncFetch(mt model.MetricType, outcome string)
	// IncRegistryUpsert records a write on the aggregation registry.
	IncRegistryUpsert(mt model.MetricType, changed bool)
	// IncSnapshotPublished records a snapshot delivered to the subscriber.
	IncSnapshotPublished(records int)
	// IncProviderCacheLookup records a lookup on the provider query cache.
	IncProviderCacheLookup(providerID string, hit bool)
}

// Dummy is a dummy recorder.
var Dummy = &dummy{}

type dummy struct{}

func (dummy) ObserveProviderQuery(string, model.SampleType, string, bool, time.Duration) {}
func (dummy) IncFetch(model.MetricType, string)                                         {}
func (dummy) IncRegistryUpsert(model.MetricType, bool)                                  {}
func (dummy) IncSnapshotPublished(int)                                                  {}
func (dummy) IncProviderCacheLookup(string, bool)                                       {}
