package query

import (
	"context"
	"fmt"
	"time"

	"github.com/whaeuser/healthterm/internal/controller"
	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// CategoryConfig is the configuration of a unit that shows a category
// sample.
type CategoryConfig struct {
	Key        model.MetricType
	SampleType model.SampleType
	Window     WindowFunc
	// Format returns the record of the first sample of the window.
	Format func(s model.CategorySample) model.DisplayRecord
}

func (c *CategoryConfig) defaults() error {
	if c.Key == "" {
		return fmt.Errorf("metric key is required")
	}
	if c.SampleType == "" {
		return fmt.Errorf("sample type is required")
	}
	if c.Format == nil {
		return fmt.Errorf("format is required")
	}
	if c.Window == nil {
		c.Window = model.Today
	}
	return nil
}

type category struct {
	cfg        CategoryConfig
	controller controller.Controller
}

// NewCategory returns a unit that shows the first category sample of the
// window.
func NewCategory(cfg CategoryConfig, c controller.Controller) (Unit, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid %s unit configuration: %w", cfg.Key, err)
	}
	return &category{cfg: cfg, controller: c}, nil
}

func (c *category) Key() model.MetricType { return c.cfg.Key }

func (c *category) SampleTypes() []model.SampleType { return []model.SampleType{c.cfg.SampleType} }

func (c *category) Query(ctx context.Context, now time.Time) (model.DisplayRecord, error) {
	if !c.controller.Supports(c.cfg.SampleType) {
		return model.DisplayRecord{}, healthstore.ErrUnsupported
	}

	samples, err := c.controller.CategorySamples(ctx, c.cfg.SampleType, c.cfg.Window(now))
	if err != nil {
		return model.DisplayRecord{}, err
	}
	if len(samples) == 0 {
		return model.DisplayRecord{}, healthstore.ErrNoData
	}

	rec := c.cfg.Format(samples[0])
	rec.Key = c.cfg.Key
	return rec, nil
}
