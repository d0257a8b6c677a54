package healthstore_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
	"github.com/whaeuser/healthterm/internal/service/healthstore/memory"
	"github.com/whaeuser/healthterm/internal/service/metrics"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time { return f.now }

// lookupRecorder counts the cache lookups.
type lookupRecorder struct {
	metrics.Recorder

	mu     sync.Mutex
	hits   int
	misses int
}

func newLookupRecorder() *lookupRecorder {
	return &lookupRecorder{Recorder: metrics.Dummy}
}

func (l *lookupRecorder) IncProviderCacheLookup(_ string, hit bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if hit {
		l.hits++
		return
	}
	l.misses++
}

func TestCacheStatistic(t *testing.T) {
	t0 := time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: t0}

	p := memory.New(memory.Config{})
	p.AddQuantities(model.QuantitySample{Type: model.SampleStepCount, Value: 100, Start: t0.Add(-time.Hour)})
	rec := newLookupRecorder()
	c := healthstore.NewCache(healthstore.CacheConfig{TTL: time.Minute, Now: clock.Now, MetricsRecorder: rec}, p)

	ctx := context.Background()
	v, err := c.Statistic(ctx, model.SampleStepCount, model.Today(t0), model.AggregationSum)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	// New data inside the TTL is hidden by the cache, even if the window moved.
	p.AddQuantities(model.QuantitySample{Type: model.SampleStepCount, Value: 50, Start: t0.Add(time.Second)})
	clock.now = t0.Add(30 * time.Second)
	v, err = c.Statistic(ctx, model.SampleStepCount, model.Today(clock.now), model.AggregationSum)
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	// After the TTL the provider is queried again.
	clock.now = t0.Add(2 * time.Minute)
	v, err = c.Statistic(ctx, model.SampleStepCount, model.Today(clock.now), model.AggregationSum)
	require.NoError(t, err)
	assert.Equal(t, 150.0, v)

	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 2, rec.misses)
}

func TestCacheSameStartDifferentEnd(t *testing.T) {
	// Monday, the day and the ISO week start at the same instant.
	monday := time.Date(2024, 1, 22, 12, 0, 0, 0, time.UTC)
	p := memory.New(memory.Config{})
	p.AddQuantities(
		model.QuantitySample{Type: model.SampleDistanceWalkingRunning, Value: 5, Start: monday.Add(-4 * time.Hour)},
		model.QuantitySample{Type: model.SampleDistanceWalkingRunning, Value: 3, Start: monday.Add(time.Hour)},
	)
	rec := newLookupRecorder()
	c := healthstore.NewCache(healthstore.CacheConfig{TTL: time.Hour, MetricsRecorder: rec}, p)

	ctx := context.Background()
	day, err := c.Statistic(ctx, model.SampleDistanceWalkingRunning, model.Today(monday), model.AggregationSum)
	require.NoError(t, err)
	week, err := c.Statistic(ctx, model.SampleDistanceWalkingRunning, model.ISOWeek(monday), model.AggregationSum)
	require.NoError(t, err)

	assert.Equal(t, 5.0, day)
	assert.Equal(t, 8.0, week)
	assert.Equal(t, 0, rec.hits)
	assert.Equal(t, 2, rec.misses)
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	t0 := time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)
	p := memory.New(memory.Config{})
	c := healthstore.NewCache(healthstore.CacheConfig{TTL: time.Hour}, p)

	ctx := context.Background()
	_, err := c.Statistic(ctx, model.SampleStepCount, model.Today(t0), model.AggregationSum)
	assert.ErrorIs(t, err, healthstore.ErrNoData)

	p.AddQuantities(model.QuantitySample{Type: model.SampleStepCount, Value: 10, Start: t0.Add(-time.Minute)})
	v, err := c.Statistic(ctx, model.SampleStepCount, model.Today(t0), model.AggregationSum)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestCacheEviction(t *testing.T) {
	t0 := time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: t0}
	p := memory.New(memory.Config{})
	for _, st := range []model.SampleType{model.SampleStepCount, model.SampleHeartRate, model.SampleBodyMass} {
		p.AddQuantities(model.QuantitySample{Type: st, Value: 1, Start: t0.Add(-time.Minute)})
	}
	rec := newLookupRecorder()
	c := healthstore.NewCache(healthstore.CacheConfig{TTL: time.Hour, MaxSize: 2, Now: clock.Now, MetricsRecorder: rec}, p)

	ctx := context.Background()
	for _, st := range []model.SampleType{model.SampleStepCount, model.SampleHeartRate, model.SampleBodyMass} {
		clock.now = clock.now.Add(time.Second)
		_, err := c.Statistic(ctx, st, model.Today(t0), model.AggregationAverage)
		require.NoError(t, err)
	}

	// The oldest entry was evicted, the newest ones are still cached.
	for _, st := range []model.SampleType{model.SampleBodyMass, model.SampleStepCount} {
		_, err := c.Statistic(ctx, st, model.Today(t0), model.AggregationAverage)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 4, rec.misses)
}

func TestNewProviderError(t *testing.T) {
	assert.NoError(t, healthstore.NewProviderError("p", "op", model.SampleStepCount, nil))
	assert.Equal(t, healthstore.ErrNoData, healthstore.NewProviderError("p", "op", model.SampleStepCount, healthstore.ErrNoData))

	err := healthstore.NewProviderError("p", "statistic", model.SampleStepCount, context.DeadlineExceeded)
	var perr *healthstore.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "provider p: statistic step-count: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
