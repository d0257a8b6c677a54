package registry_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/registry"
)

func record(key model.MetricType, amount string) model.DisplayRecord {
	return model.DisplayRecord{Key: key, Title: string(key), Amount: amount}
}

func TestRegistryUpsert(t *testing.T) {
	tests := []struct {
		name        string
		upserts     []model.DisplayRecord
		expChanged  []bool
		expSnapshot []model.DisplayRecord
	}{
		{
			name:        "An empty registry should have an empty snapshot.",
			expSnapshot: []model.DisplayRecord{},
		},
		{
			name:        "A new record should be added.",
			upserts:     []model.DisplayRecord{record(model.MetricSteps, "10")},
			expChanged:  []bool{true},
			expSnapshot: []model.DisplayRecord{record(model.MetricSteps, "10")},
		},
		{
			name:        "A record of the same metric should replace the previous one.",
			upserts:     []model.DisplayRecord{record(model.MetricSteps, "10"), record(model.MetricSteps, "20")},
			expChanged:  []bool{true, true},
			expSnapshot: []model.DisplayRecord{record(model.MetricSteps, "20")},
		},
		{
			name:        "The same record twice should not change the registry.",
			upserts:     []model.DisplayRecord{record(model.MetricSteps, "10"), record(model.MetricSteps, "10")},
			expChanged:  []bool{true, false},
			expSnapshot: []model.DisplayRecord{record(model.MetricSteps, "10")},
		},
		{
			name: "The snapshot should be in display order.",
			upserts: []model.DisplayRecord{
				record(model.MetricDietaryEnergy, "1"),
				record(model.MetricHeartRate, "2"),
				record(model.MetricSteps, "3"),
			},
			expChanged: []bool{true, true, true},
			expSnapshot: []model.DisplayRecord{
				record(model.MetricSteps, "3"),
				record(model.MetricHeartRate, "2"),
				record(model.MetricDietaryEnergy, "1"),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := registry.New(registry.Config{})

			var changed []bool
			for _, rec := range test.upserts {
				changed = append(changed, r.Upsert(rec))
			}

			assert.Equal(t, test.expChanged, changed)
			assert.Equal(t, test.expSnapshot, r.Snapshot())
		})
	}
}

func TestRegistryGet(t *testing.T) {
	r := registry.New(registry.Config{})

	_, ok := r.Get(model.MetricSteps)
	assert.False(t, ok)

	r.Upsert(record(model.MetricSteps, "6450"))
	got, ok := r.Get(model.MetricSteps)
	require.True(t, ok)
	assert.Equal(t, "6450", got.Amount)
}

func TestRegistryChangesCoalesce(t *testing.T) {
	r := registry.New(registry.Config{})

	r.Upsert(record(model.MetricSteps, "1"))
	r.Upsert(record(model.MetricSteps, "2"))
	r.Upsert(record(model.MetricHeartRate, "3"))

	select {
	case <-r.Changes():
	default:
		t.Fatal("a change should have been signaled")
	}

	select {
	case <-r.Changes():
		t.Fatal("changes should have been coalesced")
	default:
	}

	// Unchanged upserts don't signal.
	r.Upsert(record(model.MetricSteps, "2"))
	select {
	case <-r.Changes():
		t.Fatal("an unchanged upsert should not signal")
	default:
	}
}

func TestRegistryConcurrentUpserts(t *testing.T) {
	r := registry.New(registry.Config{})

	var wg sync.WaitGroup
	for _, mt := range model.MetricTypes() {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(mt model.MetricType, i int) {
				defer wg.Done()
				r.Upsert(record(mt, fmt.Sprintf("%d", i)))
			}(mt, i)
		}
	}
	wg.Wait()

	snap := r.Snapshot()
	require.Len(t, snap, len(model.MetricTypes()))
	for i, mt := range model.MetricTypes() {
		assert.Equal(t, mt, snap[i].Key)
	}
}
