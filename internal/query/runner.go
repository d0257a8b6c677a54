package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
	"github.com/whaeuser/healthterm/internal/service/log"
	"github.com/whaeuser/healthterm/internal/service/metrics"
)

// Fetch outcomes.
const (
	OutcomeUpdated          = "updated"
	OutcomeUnchanged        = "unchanged"
	OutcomeUnsupported      = "unsupported"
	OutcomePermissionDenied = "permission_denied"
	OutcomeNoData           = "no_data"
	OutcomeError            = "error"
	OutcomeSkipped          = "skipped"
)

// Upserter knows how to store a display record.
type Upserter interface {
	Upsert(record model.DisplayRecord) bool
}

// AccessChecker knows if read access was granted to sample types.
type AccessChecker interface {
	Allowed(types ...model.SampleType) bool
}

// RunnerConfig is the configuration of the Runner.
type RunnerConfig struct {
	Unit     Unit
	Registry Upserter
	Access   AccessChecker
	// Now is the clock, used for testing.
	Now             func() time.Time
	MetricsRecorder metrics.Recorder
	Logger          log.Logger
}

func (c *RunnerConfig) defaults() error {
	if c.Unit == nil {
		return errors.New("unit is required")
	}
	if c.Registry == nil {
		return errors.New("registry is required")
	}
	if c.Access == nil {
		return errors.New("access checker is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}
	if c.Logger == nil {
		c.Logger = log.Dummy
	}
	return nil
}

// Runner fetches the record of a unit and stores it on the registry.
// Failures never leave the runner, a failed fetch only means the registry
// is not updated.
type Runner struct {
	cfg      RunnerConfig
	logger   log.Logger
	syncLock syncingFlag

	mu     sync.Mutex
	logged map[string]bool
}

// NewRunner returns a new Runner.
func NewRunner(cfg RunnerConfig) (*Runner, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}

	return &Runner{
		cfg:    cfg,
		logger: cfg.Logger.WithValues(log.Kv{"metric": cfg.Unit.Key()}),
		logged: map[string]bool{},
	}, nil
}

// Key returns the metric of the runner unit.
func (r *Runner) Key() model.MetricType { return r.cfg.Unit.Key() }

// Fetch queries the unit and upserts the record on success. A fetch that
// starts while a previous one of the same runner is in flight is ignored.
func (r *Runner) Fetch(ctx context.Context) {
	// If already fetching ignore the call.
	if r.syncLock.Get() {
		r.cfg.MetricsRecorder.IncFetch(r.Key(), OutcomeSkipped)
		return
	}
	if !r.syncLock.Set(true) {
		r.cfg.MetricsRecorder.IncFetch(r.Key(), OutcomeSkipped)
		return
	}
	defer r.syncLock.Set(false)

	r.cfg.MetricsRecorder.IncFetch(r.Key(), r.fetch(ctx))
}

func (r *Runner) fetch(ctx context.Context) string {
	logger := r.logger
	if v, ok := ctx.Value(correlationIDKey{}).(string); ok {
		logger = logger.WithValues(log.Kv{"sync-id": v})
	}

	if !r.cfg.Access.Allowed(r.cfg.Unit.SampleTypes()...) {
		r.logOnce(OutcomePermissionDenied, func() {
			logger.Warningf("read access not granted to %v, metric won't be fetched", r.cfg.Unit.SampleTypes())
		})
		return OutcomePermissionDenied
	}

	rec, err := r.cfg.Unit.Query(ctx, r.cfg.Now())
	switch {
	case err == nil:
	case errors.Is(err, healthstore.ErrUnsupported):
		r.logOnce(OutcomeUnsupported, func() {
			logger.Warningf("metric not supported by the provider")
		})
		return OutcomeUnsupported
	case errors.Is(err, healthstore.ErrPermissionDenied):
		r.logOnce(OutcomePermissionDenied, func() {
			logger.Warningf("provider denied read access: %s", err)
		})
		return OutcomePermissionDenied
	case errors.Is(err, healthstore.ErrNoData):
		logger.Debugf("no data yet")
		return OutcomeNoData
	default:
		logger.Errorf("error fetching metric: %s", err)
		return OutcomeError
	}

	if !r.cfg.Registry.Upsert(rec) {
		logger.Debugf("metric unchanged: %s", rec.Amount)
		return OutcomeUnchanged
	}
	logger.Debugf("metric updated: %s", rec.Amount)

	return OutcomeUpdated
}

func (r *Runner) logOnce(reason string, logf func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.logged[reason] {
		return
	}
	r.logged[reason] = true
	logf()
}

type correlationIDKey struct{}

// WithCorrelationID returns a context that makes the fetches log the
// correlation id of the sync cycle.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// syncingFlag is a flag that tells if a fetch is in flight.
type syncingFlag struct {
	mu    sync.Mutex
	value bool
}

// Get returns the current value.
func (s *syncingFlag) Get() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set sets the value and returns true if it changed.
func (s *syncingFlag) Set(v bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == v {
		return false
	}
	s.value = v
	return true
}
