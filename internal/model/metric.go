package model

// MetricType identifies one card of the dashboard. It is the identity of a
// DisplayRecord.
type MetricType string

// Metric types, in display order.
const (
	MetricSteps                 MetricType = "steps"
	MetricActiveEnergy          MetricType = "active-energy"
	MetricDistance              MetricType = "distance"
	MetricWeeklyRunningDistance MetricType = "weekly-running-distance"
	MetricHeartRate             MetricType = "heart-rate"
	MetricBloodPressure         MetricType = "blood-pressure"
	MetricSleepState            MetricType = "sleep-state"
	MetricBodyMassIndex         MetricType = "body-mass-index"
	MetricDietaryEnergy         MetricType = "dietary-energy"
)

var metricTypes = []MetricType{
	MetricSteps,
	MetricActiveEnergy,
	MetricDistance,
	MetricWeeklyRunningDistance,
	MetricHeartRate,
	MetricBloodPressure,
	MetricSleepState,
	MetricBodyMassIndex,
	MetricDietaryEnergy,
}

// MetricTypes returns all the metric types in display order.
func MetricTypes() []MetricType {
	mts := make([]MetricType, len(metricTypes))
	copy(mts, metricTypes)
	return mts
}

// Order returns the display position of the metric type. Unknown types
// are placed after the known ones.
func (m MetricType) Order() int {
	for i, mt := range metricTypes {
		if mt == m {
			return i
		}
	}
	return len(metricTypes)
}

// Valid returns true if the metric type is a known one.
func (m MetricType) Valid() bool {
	return m.Order() < len(metricTypes)
}

// DisplayRecord is the normalized, human readable representation of the
// latest value of a metric. Its identity is the Key.
type DisplayRecord struct {
	Key      MetricType
	Title    string
	Subtitle string
	Icon     string
	Amount   string
}
