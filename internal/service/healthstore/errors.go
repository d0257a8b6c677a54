package healthstore

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/whaeuser/healthterm/internal/model"
)

var (
	// ErrUnsupported is returned when the sample type is not available on
	// the provider.
	ErrUnsupported = errors.New("sample type not supported")
	// ErrPermissionDenied is returned when the read access was not granted.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNoData is returned when the query succeeded without results.
	ErrNoData = errors.New("no data")
	// ErrUnavailable is returned when the provider can't be reached.
	ErrUnavailable = errors.New("provider unavailable")
)

// ProviderError wraps a failure of a provider backend.
type ProviderError struct {
	ProviderID string
	Op         string
	SampleType model.SampleType
	Err        error
}

// NewProviderError returns a new provider error. Errors of the taxonomy
// (unsupported, no data...) are returned as they are.
func NewProviderError(providerID, op string, st model.SampleType, err error) error {
	if err == nil {
		return nil
	}
	if IsTaxonomy(err) {
		return err
	}
	return &ProviderError{
		ProviderID: providerID,
		Op:         op,
		SampleType: st,
		Err:        err,
	}
}

func (p *ProviderError) Error() string {
	if p.SampleType == "" {
		return fmt.Sprintf("provider %s: %s: %v", p.ProviderID, p.Op, p.Err)
	}
	return fmt.Sprintf("provider %s: %s %s: %v", p.ProviderID, p.Op, p.SampleType, p.Err)
}

func (p *ProviderError) Unwrap() error { return p.Err }

// IsTaxonomy returns true if the error is one of the known provider
// outcomes that are not backend failures.
func IsTaxonomy(err error) bool {
	return errors.Is(err, ErrUnsupported) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrNoData) ||
		errors.Is(err, ErrUnavailable)
}
