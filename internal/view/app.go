package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/whaeuser/healthterm/internal/authorization"
	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/query"
	"github.com/whaeuser/healthterm/internal/registry"
	"github.com/whaeuser/healthterm/internal/service/log"
	"github.com/whaeuser/healthterm/internal/service/metrics"
)

// AccessRequester knows how to request read access to the health data.
type AccessRequester interface {
	RequestAccess(ctx context.Context, types []model.SampleType) (authorization.Grant, error)
}

// AppConfig are the options to run the app.
type AppConfig struct {
	// RefreshInterval is the interval the metrics are fetched again, 0
	// fetches them only once.
	RefreshInterval time.Duration
	// Now is the clock used by the queries, used for testing.
	Now             func() time.Time
	MetricsRecorder metrics.Recorder
}

func (a *AppConfig) defaults() error {
	if a.RefreshInterval < 0 {
		return errors.New("refresh interval can't be negative")
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.MetricsRecorder == nil {
		a.MetricsRecorder = metrics.Dummy
	}
	return nil
}

// App coordinates the aggregation: it requests the access, triggers the
// metric fetches and owns the registry where the results are stored.
type App struct {
	cfg      AppConfig
	gate     AccessRequester
	units    []query.Unit
	registry *registry.Registry
	logger   log.Logger

	running bool
	mu      sync.Mutex
}

// NewApp returns a new App.
func NewApp(cfg AppConfig, gate AccessRequester, units []query.Unit, logger log.Logger) (*App, error) {
	if err := cfg.defaults(); err != nil {
		return nil, errors.Wrap(err, "invalid app configuration")
	}
	if gate == nil {
		return nil, errors.New("access requester is required")
	}
	if logger == nil {
		logger = log.Dummy
	}

	return &App{
		cfg:      cfg,
		gate:     gate,
		units:    units,
		registry: registry.New(registry.Config{MetricsRecorder: cfg.MetricsRecorder}),
		logger:   logger,
	}, nil
}

// Registry returns the registry of the app.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run will start running the application. It blocks until the context is
// done.
func (a *App) Run(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return errors.New("already running")
	}
	a.running = true
	a.mu.Unlock()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	runners, err := a.runners(ctx)
	if err != nil {
		return err
	}

	a.sync(ctx, runners)

	if a.cfg.RefreshInterval == 0 {
		<-ctx.Done()
		return nil
	}

	tk := time.NewTicker(a.cfg.RefreshInterval)
	defer tk.Stop()
	for {
		// Check if we already done.
		select {
		case <-ctx.Done():
			return nil
		case <-tk.C:
		}

		a.sync(ctx, runners)
	}
}

// runners requests the access and returns the runners of the units. A
// failed access request doesn't stop the app, the units simply won't be
// allowed to fetch.
func (a *App) runners(ctx context.Context) ([]*query.Runner, error) {
	types := query.RequiredSampleTypes(a.units...)
	grant, err := a.gate.RequestAccess(ctx, types)
	if err != nil {
		a.logger.Warningf("could not get read access, no metric will be shown: %s", err)
	}

	runners := make([]*query.Runner, 0, len(a.units))
	for _, u := range a.units {
		r, err := query.NewRunner(query.RunnerConfig{
			Unit:            u,
			Registry:        a.registry,
			Access:          grant,
			Now:             a.cfg.Now,
			MetricsRecorder: a.cfg.MetricsRecorder,
			Logger:          a.logger,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "could not create %s runner", u.Key())
		}
		runners = append(runners, r)
	}

	return runners, nil
}

// sync triggers the fetch of all the runners without waiting for them,
// runners still fetching from the previous sync ignore the trigger.
func (a *App) sync(ctx context.Context, runners []*query.Runner) {
	id := uuid.New().String()
	a.logger.WithValues(log.Kv{"sync-id": id}).Debugf("syncing %d metrics", len(runners))

	ctx = query.WithCorrelationID(ctx, id)
	for _, r := range runners {
		go func(r *query.Runner) {
			defer func() {
				if rec := recover(); rec != nil {
					a.logger.Errorf("%s fetch panic recovered: %v", r.Key(), rec)
				}
			}()
			r.Fetch(ctx)
		}(r)
	}
}
