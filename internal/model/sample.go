package model

import "time"

// SampleType is the identifier of a quantity or category stored by a
// health data provider.
type SampleType string

// Sample types known by the providers.
const (
	SampleStepCount              SampleType = "step-count"
	SampleActiveEnergyBurned     SampleType = "active-energy-burned"
	SampleDistanceWalkingRunning SampleType = "distance-walking-running"
	SampleBloodPressureSystolic  SampleType = "blood-pressure-systolic"
	SampleBloodPressureDiastolic SampleType = "blood-pressure-diastolic"
	SampleHeartRate              SampleType = "heart-rate"
	SampleSleepAnalysis          SampleType = "sleep-analysis"
	SampleBodyMass               SampleType = "body-mass"
	SampleHeight                 SampleType = "height"
	SampleDietaryEnergyConsumed  SampleType = "dietary-energy-consumed"
)

// Unit is the canonical unit a sample type is stored in. Providers must
// return values in this unit.
type Unit string

// Canonical units.
const (
	UnitCount          Unit = "count"
	UnitKilocalorie    Unit = "kcal"
	UnitMeter          Unit = "m"
	UnitKilogram       Unit = "kg"
	UnitMillimeterHg   Unit = "mmHg"
	UnitCountPerMinute Unit = "count/min"
	UnitCategory       Unit = "category"
)

var sampleUnits = map[SampleType]Unit{
	SampleStepCount:              UnitCount,
	SampleActiveEnergyBurned:     UnitKilocalorie,
	SampleDistanceWalkingRunning: UnitMeter,
	SampleBloodPressureSystolic:  UnitMillimeterHg,
	SampleBloodPressureDiastolic: UnitMillimeterHg,
	SampleHeartRate:              UnitCountPerMinute,
	SampleSleepAnalysis:          UnitCategory,
	SampleBodyMass:               UnitKilogram,
	SampleHeight:                 UnitMeter,
	SampleDietaryEnergyConsumed:  UnitKilocalorie,
}

// SampleTypes returns all the known sample types.
func SampleTypes() []SampleType {
	return []SampleType{
		SampleStepCount,
		SampleActiveEnergyBurned,
		SampleDistanceWalkingRunning,
		SampleBloodPressureSystolic,
		SampleBloodPressureDiastolic,
		SampleHeartRate,
		SampleSleepAnalysis,
		SampleBodyMass,
		SampleHeight,
		SampleDietaryEnergyConsumed,
	}
}

// Unit returns the canonical unit of the sample type, empty if unknown.
func (s SampleType) Unit() Unit {
	return sampleUnits[s]
}

// Categorical returns true if the samples of this type are labeled
// categories instead of quantities.
func (s SampleType) Categorical() bool {
	return s.Unit() == UnitCategory
}

// AggregationKind is the statistic a provider computes over the samples
// of a time window.
type AggregationKind string

// Aggregation kinds.
const (
	AggregationSum     AggregationKind = "sum"
	AggregationAverage AggregationKind = "average"
)

// Sleep analysis category values.
const (
	SleepInBed  = 0
	SleepAsleep = 1
)

// CategorySample is a labeled sample of a categorical sample type.
type CategorySample struct {
	Type  SampleType
	Value int
	Start time.Time
	End   time.Time
}

// QuantitySample is a numeric sample of a quantity sample type, in the
// canonical unit of the type.
type QuantitySample struct {
	Type  SampleType
	Value float64
	Start time.Time
	End   time.Time
}
