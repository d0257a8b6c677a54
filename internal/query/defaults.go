package query

import (
	"fmt"

	"github.com/whaeuser/healthterm/internal/controller"
	"github.com/whaeuser/healthterm/internal/model"
)

// DefaultUnits returns the units of all the metric types, in display order.
// If metrics are passed only the units of those metrics are returned.
func DefaultUnits(c controller.Controller, metrics ...model.MetricType) ([]Unit, error) {
	enabled := map[model.MetricType]bool{}
	for _, mt := range metrics {
		if !mt.Valid() {
			return nil, fmt.Errorf("unknown metric %q", mt)
		}
		enabled[mt] = true
	}

	builders := map[model.MetricType]func() (Unit, error){
		model.MetricSteps: func() (Unit, error) {
			return NewStatistic(StatisticConfig{Key: model.MetricSteps, SampleType: model.SampleStepCount, Kind: model.AggregationSum, Format: FormatSteps}, c)
		},
		model.MetricActiveEnergy: func() (Unit, error) {
			return NewStatistic(StatisticConfig{Key: model.MetricActiveEnergy, SampleType: model.SampleActiveEnergyBurned, Kind: model.AggregationSum, Format: FormatActiveEnergy}, c)
		},
		model.MetricDistance: func() (Unit, error) {
			return NewStatistic(StatisticConfig{Key: model.MetricDistance, SampleType: model.SampleDistanceWalkingRunning, Kind: model.AggregationSum, Format: FormatDistance}, c)
		},
		model.MetricWeeklyRunningDistance: func() (Unit, error) {
			return NewStatistic(StatisticConfig{
				Key:        model.MetricWeeklyRunningDistance,
				SampleType: model.SampleDistanceWalkingRunning,
				Kind:       model.AggregationSum,
				Window:     model.ISOWeek,
				Format:     FormatWeeklyRunningDistance,
			}, c)
		},
		model.MetricHeartRate: func() (Unit, error) {
			return NewStatistic(StatisticConfig{Key: model.MetricHeartRate, SampleType: model.SampleHeartRate, Kind: model.AggregationAverage, Format: FormatHeartRate}, c)
		},
		model.MetricBloodPressure: func() (Unit, error) {
			return NewJoined(JoinedConfig{
				Key:    model.MetricBloodPressure,
				First:  SubQuery{SampleType: model.SampleBloodPressureSystolic, Kind: model.AggregationAverage},
				Second: SubQuery{SampleType: model.SampleBloodPressureDiastolic, Kind: model.AggregationAverage},
				Format: FormatBloodPressure,
			}, c)
		},
		model.MetricSleepState: func() (Unit, error) {
			return NewCategory(CategoryConfig{Key: model.MetricSleepState, SampleType: model.SampleSleepAnalysis, Format: FormatSleep}, c)
		},
		model.MetricBodyMassIndex: func() (Unit, error) {
			return NewJoined(JoinedConfig{
				Key:    model.MetricBodyMassIndex,
				First:  SubQuery{SampleType: model.SampleBodyMass, Kind: model.AggregationAverage},
				Second: SubQuery{SampleType: model.SampleHeight, Kind: model.AggregationAverage},
				Format: FormatBodyMassIndex,
			}, c)
		},
		model.MetricDietaryEnergy: func() (Unit, error) {
			return NewStatistic(StatisticConfig{Key: model.MetricDietaryEnergy, SampleType: model.SampleDietaryEnergyConsumed, Kind: model.AggregationSum, Format: FormatDietaryEnergy}, c)
		},
	}

	units := []Unit{}
	for _, mt := range model.MetricTypes() {
		if len(enabled) > 0 && !enabled[mt] {
			continue
		}
		u, err := builders[mt]()
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}

	return units, nil
}
