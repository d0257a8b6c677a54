package healthstore

import (
	"context"

	"github.com/whaeuser/healthterm/internal/model"
)

// Authorizer knows how to ask a health data provider for read access.
type Authorizer interface {
	// RequestAuthorization asks for read access to the sample types. The
	// result says per type if the access was granted. An error means the
	// provider could not answer at all.
	RequestAuthorization(ctx context.Context, types []model.SampleType) (map[model.SampleType]bool, error)
}

// Querier knows how to query health samples from a health data provider.
type Querier interface {
	// Statistic returns the aggregation of the quantity samples of a type in
	// the window, in the canonical unit of the sample type. ErrNoData is
	// returned when there are no samples.
	Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error)
	// CategorySamples returns the categorical samples of a type in the window,
	// ordered by start time.
	CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error)
}

// Provider is a health data store.
type Provider interface {
	Authorizer
	Querier
	// ID returns the identifier of the provider.
	ID() string
	// Supports returns true if the sample type is available on the provider.
	Supports(st model.SampleType) bool
}
