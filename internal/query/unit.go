package query

import (
	"context"
	"time"

	"github.com/whaeuser/healthterm/internal/model"
)

// Unit knows how to get the display record of one metric.
type Unit interface {
	// Key returns the metric of the unit.
	Key() model.MetricType
	// SampleTypes returns the sample types the unit reads.
	SampleTypes() []model.SampleType
	// Query returns the display record of the metric at now. An error means
	// there is no record, healthstore.ErrNoData when there is nothing yet.
	Query(ctx context.Context, now time.Time) (model.DisplayRecord, error)
}

// WindowFunc returns the time window of a query made at now.
type WindowFunc func(now time.Time) model.TimeWindow

// RequiredSampleTypes returns the union of the sample types the units read,
// without duplicates and in first seen order.
func RequiredSampleTypes(units ...Unit) []model.SampleType {
	seen := map[model.SampleType]bool{}
	res := []model.SampleType{}
	for _, u := range units {
		for _, st := range u.SampleTypes() {
			if seen[st] {
				continue
			}
			seen[st] = true
			res = append(res, st)
		}
	}
	return res
}
