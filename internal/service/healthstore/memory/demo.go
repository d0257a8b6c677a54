package memory

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/whaeuser/healthterm/internal/model"
)

func errUnknownAggregation(kind model.AggregationKind) error {
	return errors.Errorf("unknown aggregation kind %q", kind)
}

// NewDemo returns a memory provider seeded with a simulated day of data
// until now, and the running sessions of the current ISO week.
func NewDemo(now time.Time, seed int64) *Provider {
	r := rand.New(rand.NewSource(seed))
	p := New(Config{ID: "demo"})

	day := model.Today(now)
	hours := int(day.Duration() / time.Hour)
	for h := 0; h <= hours; h++ {
		start := day.Start.Add(time.Duration(h) * time.Hour)
		if !day.Contains(start) {
			break
		}
		end := start.Add(time.Hour)

		steps := 200 + r.Float64()*800
		p.AddQuantities(
			model.QuantitySample{Type: model.SampleStepCount, Value: steps, Start: start, End: end},
			model.QuantitySample{Type: model.SampleDistanceWalkingRunning, Value: steps * 0.75, Start: start, End: end},
			model.QuantitySample{Type: model.SampleActiveEnergyBurned, Value: steps * 0.04, Start: start, End: end},
			model.QuantitySample{Type: model.SampleHeartRate, Value: 60 + r.Float64()*40, Start: start, End: end},
		)
	}

	first := day.Start.Add(time.Minute)
	if !day.Contains(first) {
		return p
	}

	p.AddQuantities(
		model.QuantitySample{Type: model.SampleBloodPressureSystolic, Value: 110 + r.Float64()*20, Start: first, End: first},
		model.QuantitySample{Type: model.SampleBloodPressureDiastolic, Value: 70 + r.Float64()*15, Start: first, End: first},
		model.QuantitySample{Type: model.SampleBodyMass, Value: 65 + r.Float64()*20, Start: first, End: first},
		model.QuantitySample{Type: model.SampleHeight, Value: 1.65 + r.Float64()*0.25, Start: first, End: first},
		model.QuantitySample{Type: model.SampleDietaryEnergyConsumed, Value: 1500 + r.Float64()*1000, Start: first, End: first},
	)
	p.AddCategories(
		model.CategorySample{Type: model.SampleSleepAnalysis, Value: model.SleepInBed, Start: first, End: first.Add(20 * time.Minute)},
		model.CategorySample{Type: model.SampleSleepAnalysis, Value: model.SleepAsleep, Start: first.Add(20 * time.Minute), End: first.Add(6 * time.Hour)},
	)

	week := model.ISOWeek(now)
	for d := week.Start; d.Before(day.Start); d = d.AddDate(0, 0, 2) {
		run := d.Add(7 * time.Hour)
		p.AddQuantities(model.QuantitySample{
			Type:  model.SampleDistanceWalkingRunning,
			Value: 3000 + r.Float64()*5000,
			Start: run,
			End:   run.Add(40 * time.Minute),
		})
	}

	return p
}
