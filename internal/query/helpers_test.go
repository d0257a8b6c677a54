package query_test

import (
	"context"
	"sync"
	"time"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

var t0 = time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return t0 }

type statisticFunc func(ctx context.Context, w model.TimeWindow, kind model.AggregationKind) (float64, error)

// fakeController answers the queries with the configured functions.
type fakeController struct {
	unsupported map[model.SampleType]bool
	statistics  map[model.SampleType]statisticFunc
	categories  map[model.SampleType][]model.CategorySample

	mu      sync.Mutex
	queried []model.SampleType
}

func (f *fakeController) Supports(st model.SampleType) bool { return !f.unsupported[st] }

func (f *fakeController) Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error) {
	f.mu.Lock()
	f.queried = append(f.queried, st)
	f.mu.Unlock()

	fn, ok := f.statistics[st]
	if !ok {
		return 0, healthstore.ErrNoData
	}
	return fn(ctx, w, kind)
}

func (f *fakeController) CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error) {
	f.mu.Lock()
	f.queried = append(f.queried, st)
	f.mu.Unlock()
	return f.categories[st], nil
}

func value(v float64) statisticFunc {
	return func(context.Context, model.TimeWindow, model.AggregationKind) (float64, error) { return v, nil }
}

func failure(err error) statisticFunc {
	return func(context.Context, model.TimeWindow, model.AggregationKind) (float64, error) { return 0, err }
}

// released returns the value once the channel is closed or the context is done.
func released(v float64, release <-chan struct{}) statisticFunc {
	return func(ctx context.Context, _ model.TimeWindow, _ model.AggregationKind) (float64, error) {
		select {
		case <-release:
			return v, nil
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
}

// allowAll grants everything except the denied types.
type allowAll struct {
	denied map[model.SampleType]bool
}

func (a allowAll) Allowed(types ...model.SampleType) bool {
	for _, st := range types {
		if a.denied[st] {
			return false
		}
	}
	return true
}

// fakeRecorder records the fetch outcomes.
type fakeRecorder struct {
	mu       sync.Mutex
	outcomes map[model.MetricType][]string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{outcomes: map[model.MetricType][]string{}}
}

func (f *fakeRecorder) ObserveProviderQuery(string, model.SampleType, string, bool, time.Duration) {}
func (f *fakeRecorder) IncRegistryUpsert(model.MetricType, bool)                                  {}
func (f *fakeRecorder) IncSnapshotPublished(int)                                                  {}
func (f *fakeRecorder) IncProviderCacheLookup(string, bool)                                       {}
func (f *fakeRecorder) IncFetch(mt model.MetricType, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes[mt] = append(f.outcomes[mt], outcome)
}

func (f *fakeRecorder) Outcomes(mt model.MetricType) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.outcomes[mt]...)
}
