package controller

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// Controller is the layer the metric query units use to query the health
// data provider.
type Controller interface {
	// Supports returns true if the sample type is available.
	Supports(st model.SampleType) bool
	// Statistic returns the aggregation of a sample type in a window.
	Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error)
	// CategorySamples returns the category samples of a sample type in a window.
	CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error)
}

type controller struct {
	cfg       Config
	provider  healthstore.Provider
	semaphore chan struct{}
	limiter   *rate.Limiter
}

// New returns a new controller.
func New(cfg Config) (Controller, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid controller configuration: %w", err)
	}

	c := &controller{
		cfg:      cfg,
		provider: cfg.Provider,
	}

	if cfg.EnableCaching {
		c.provider = healthstore.NewCache(healthstore.CacheConfig{
			TTL:             cfg.CacheTTL,
			MaxSize:         cfg.CacheSize,
			MetricsRecorder: cfg.MetricsRecorder,
		}, cfg.Provider)
	}
	if cfg.MaxConcurrentQueries > 0 {
		c.semaphore = make(chan struct{}, cfg.MaxConcurrentQueries)
	}
	if cfg.QueriesPerSecond > 0 {
		burst := int(cfg.QueriesPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.QueriesPerSecond), burst)
	}

	return c, nil
}

func (c *controller) Supports(st model.SampleType) bool {
	return c.provider.Supports(st)
}

func (c *controller) Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error) {
	var v float64
	err := c.execute(ctx, st, "statistic", func(ctx context.Context) error {
		var err error
		v, err = c.provider.Statistic(ctx, st, w, kind)
		return err
	})
	return v, err
}

func (c *controller) CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error) {
	var samples []model.CategorySample
	err := c.execute(ctx, st, "category", func(ctx context.Context) error {
		var err error
		samples, err = c.provider.CategorySamples(ctx, st, w)
		return err
	})
	return samples, err
}

// execute runs a provider query honoring the rate limit, the concurrency
// limit and the query timeout.
func (c *controller) execute(ctx context.Context, st model.SampleType, op string, query func(ctx context.Context) error) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return healthstore.NewProviderError(c.provider.ID(), op, st, fmt.Errorf("waiting for rate limit: %w", err))
		}
	}

	if c.semaphore != nil {
		select {
		case c.semaphore <- struct{}{}:
			defer func() { <-c.semaphore }()
		case <-ctx.Done():
			return healthstore.NewProviderError(c.provider.ID(), op, st, fmt.Errorf("waiting for a query slot: %w", ctx.Err()))
		}
	}

	if c.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	err := query(ctx)
	c.cfg.MetricsRecorder.ObserveProviderQuery(c.provider.ID(), st, op, err == nil, time.Since(start))
	if err != nil {
		c.cfg.Logger.Debugf("%s query of %s failed: %s", op, st, err)
		return healthstore.NewProviderError(c.provider.ID(), op, st, err)
	}

	return nil
}
