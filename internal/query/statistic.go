package query

import (
	"context"
	"fmt"
	"time"

	"github.com/whaeuser/healthterm/internal/controller"
	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// StatisticConfig is the configuration of a unit that aggregates a single
// sample type.
type StatisticConfig struct {
	Key        model.MetricType
	SampleType model.SampleType
	Kind       model.AggregationKind
	Window     WindowFunc
	// Format returns the record from the aggregated value.
	Format func(v float64) model.DisplayRecord
}

func (c *StatisticConfig) defaults() error {
	if c.Key == "" {
		return fmt.Errorf("metric key is required")
	}
	if c.SampleType == "" {
		return fmt.Errorf("sample type is required")
	}
	if c.Format == nil {
		return fmt.Errorf("format is required")
	}
	if c.Kind == "" {
		c.Kind = model.AggregationSum
	}
	if c.Window == nil {
		c.Window = model.Today
	}
	return nil
}

type statistic struct {
	cfg        StatisticConfig
	controller controller.Controller
}

// NewStatistic returns a unit that aggregates one sample type.
func NewStatistic(cfg StatisticConfig, c controller.Controller) (Unit, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid %s unit configuration: %w", cfg.Key, err)
	}
	return &statistic{cfg: cfg, controller: c}, nil
}

func (s *statistic) Key() model.MetricType { return s.cfg.Key }

func (s *statistic) SampleTypes() []model.SampleType { return []model.SampleType{s.cfg.SampleType} }

func (s *statistic) Query(ctx context.Context, now time.Time) (model.DisplayRecord, error) {
	if !s.controller.Supports(s.cfg.SampleType) {
		return model.DisplayRecord{}, healthstore.ErrUnsupported
	}

	v, err := s.controller.Statistic(ctx, s.cfg.SampleType, s.cfg.Window(now), s.cfg.Kind)
	if err != nil {
		return model.DisplayRecord{}, err
	}

	rec := s.cfg.Format(v)
	rec.Key = s.cfg.Key
	return rec, nil
}
