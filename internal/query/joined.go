package query

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/whaeuser/healthterm/internal/controller"
	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// SubQuery is one of the aggregations a joined unit needs.
type SubQuery struct {
	SampleType model.SampleType
	Kind       model.AggregationKind
}

// JoinedConfig is the configuration of a unit that needs two
// aggregations to form its record.
type JoinedConfig struct {
	Key    model.MetricType
	First  SubQuery
	Second SubQuery
	Window WindowFunc
	// Format returns the record from both aggregated values. An error means
	// the values can't form a record.
	Format func(first, second float64) (model.DisplayRecord, error)
}

func (c *JoinedConfig) defaults() error {
	if c.Key == "" {
		return fmt.Errorf("metric key is required")
	}
	if c.First.SampleType == "" || c.Second.SampleType == "" {
		return fmt.Errorf("both sub query sample types are required")
	}
	if c.Format == nil {
		return fmt.Errorf("format is required")
	}
	if c.First.Kind == "" {
		c.First.Kind = model.AggregationAverage
	}
	if c.Second.Kind == "" {
		c.Second.Kind = model.AggregationAverage
	}
	if c.Window == nil {
		c.Window = model.Today
	}
	return nil
}

type joined struct {
	cfg        JoinedConfig
	controller controller.Controller
}

// NewJoined returns a unit that runs two aggregations concurrently and only
// forms a record when both succeed.
func NewJoined(cfg JoinedConfig, c controller.Controller) (Unit, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid %s unit configuration: %w", cfg.Key, err)
	}
	return &joined{cfg: cfg, controller: c}, nil
}

func (j *joined) Key() model.MetricType { return j.cfg.Key }

func (j *joined) SampleTypes() []model.SampleType {
	return []model.SampleType{j.cfg.First.SampleType, j.cfg.Second.SampleType}
}

func (j *joined) Query(ctx context.Context, now time.Time) (model.DisplayRecord, error) {
	for _, st := range j.SampleTypes() {
		if !j.controller.Supports(st) {
			return model.DisplayRecord{}, healthstore.ErrUnsupported
		}
	}

	w := j.cfg.Window(now)
	var first, second float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := j.controller.Statistic(gctx, j.cfg.First.SampleType, w, j.cfg.First.Kind)
		if err != nil {
			return err
		}
		first = v
		return nil
	})
	g.Go(func() error {
		v, err := j.controller.Statistic(gctx, j.cfg.Second.SampleType, w, j.cfg.Second.Kind)
		if err != nil {
			return err
		}
		second = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.DisplayRecord{}, err
	}

	rec, err := j.cfg.Format(first, second)
	if err != nil {
		return model.DisplayRecord{}, err
	}
	rec.Key = j.cfg.Key
	return rec, nil
}
