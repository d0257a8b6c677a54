package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
	"github.com/whaeuser/healthterm/internal/service/healthstore/memory"
)

var (
	t0     = time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)
	window = model.Today(t0)
)

func TestProviderStatistic(t *testing.T) {
	tests := []struct {
		name     string
		cfg      memory.Config
		samples  []model.QuantitySample
		st       model.SampleType
		kind     model.AggregationKind
		expValue float64
		expErr   error
	}{
		{
			name: "Sum should add the samples inside the window.",
			samples: []model.QuantitySample{
				{Type: model.SampleStepCount, Value: 100, Start: t0.Add(-2 * time.Hour)},
				{Type: model.SampleStepCount, Value: 50.5, Start: t0.Add(-1 * time.Hour)},
				{Type: model.SampleStepCount, Value: 1000, Start: t0.Add(-24 * time.Hour)},
				{Type: model.SampleHeartRate, Value: 70, Start: t0.Add(-1 * time.Hour)},
			},
			st:       model.SampleStepCount,
			kind:     model.AggregationSum,
			expValue: 150.5,
		},
		{
			name: "Average should average the samples inside the window.",
			samples: []model.QuantitySample{
				{Type: model.SampleHeartRate, Value: 60, Start: t0.Add(-2 * time.Hour)},
				{Type: model.SampleHeartRate, Value: 80, Start: t0.Add(-1 * time.Hour)},
			},
			st:       model.SampleHeartRate,
			kind:     model.AggregationAverage,
			expValue: 70,
		},
		{
			name:   "No samples should return no data.",
			st:     model.SampleStepCount,
			kind:   model.AggregationSum,
			expErr: healthstore.ErrNoData,
		},
		{
			name:   "Unsupported types should return unsupported.",
			cfg:    memory.Config{Unsupported: []model.SampleType{model.SampleStepCount}},
			st:     model.SampleStepCount,
			kind:   model.AggregationSum,
			expErr: healthstore.ErrUnsupported,
		},
		{
			name:   "Denied types should return permission denied.",
			cfg:    memory.Config{Denied: []model.SampleType{model.SampleStepCount}},
			st:     model.SampleStepCount,
			kind:   model.AggregationSum,
			expErr: healthstore.ErrPermissionDenied,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := memory.New(test.cfg)
			p.AddQuantities(test.samples...)

			got, err := p.Statistic(context.Background(), test.st, window, test.kind)

			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, test.expValue, got, 1e-9)
		})
	}
}

func TestProviderCategorySamples(t *testing.T) {
	p := memory.New(memory.Config{})
	p.AddCategories(
		model.CategorySample{Type: model.SampleSleepAnalysis, Value: model.SleepAsleep, Start: t0.Add(-1 * time.Hour)},
		model.CategorySample{Type: model.SampleSleepAnalysis, Value: model.SleepInBed, Start: t0.Add(-3 * time.Hour)},
	)

	got, err := p.CategorySamples(context.Background(), model.SampleSleepAnalysis, window)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.SleepInBed, got[0].Value)
	assert.Equal(t, model.SleepAsleep, got[1].Value)
}

func TestProviderRequestAuthorization(t *testing.T) {
	p := memory.New(memory.Config{
		Denied:      []model.SampleType{model.SampleHeartRate},
		Unsupported: []model.SampleType{model.SampleHeight},
	})

	got, err := p.RequestAuthorization(context.Background(), []model.SampleType{
		model.SampleStepCount,
		model.SampleHeartRate,
		model.SampleHeight,
	})
	require.NoError(t, err)

	exp := map[model.SampleType]bool{
		model.SampleStepCount: true,
		model.SampleHeartRate: false,
		model.SampleHeight:    false,
	}
	assert.Equal(t, exp, got)
}

func TestNewDemo(t *testing.T) {
	p := memory.NewDemo(t0, 42)

	steps, err := p.Statistic(context.Background(), model.SampleStepCount, window, model.AggregationSum)
	require.NoError(t, err)
	assert.Greater(t, steps, 0.0)

	samples, err := p.CategorySamples(context.Background(), model.SampleSleepAnalysis, window)
	require.NoError(t, err)
	assert.NotEmpty(t, samples)

	weekly, err := p.Statistic(context.Background(), model.SampleDistanceWalkingRunning, model.ISOWeek(t0), model.AggregationSum)
	require.NoError(t, err)
	daily, err := p.Statistic(context.Background(), model.SampleDistanceWalkingRunning, window, model.AggregationSum)
	require.NoError(t, err)
	assert.Greater(t, weekly, daily)
}
