package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// Config is the configuration of the memory provider.
type Config struct {
	// ID of the provider.
	ID string
	// Unsupported sample types will return ErrUnsupported.
	Unsupported []model.SampleType
	// Denied sample types will not be granted on authorization.
	Denied []model.SampleType
	// AuthorizationErr if set will be returned when requesting authorization.
	AuthorizationErr error
}

func (c *Config) defaults() {
	if c.ID == "" {
		c.ID = "memory"
	}
}

// Provider is an in memory health data provider.
type Provider struct {
	cfg         Config
	unsupported map[model.SampleType]bool
	denied      map[model.SampleType]bool

	mu         sync.RWMutex
	quantities []model.QuantitySample
	categories []model.CategorySample
}

var _ healthstore.Provider = &Provider{}

// New returns a new in memory provider.
func New(cfg Config) *Provider {
	cfg.defaults()

	p := &Provider{
		cfg:         cfg,
		unsupported: map[model.SampleType]bool{},
		denied:      map[model.SampleType]bool{},
	}
	for _, st := range cfg.Unsupported {
		p.unsupported[st] = true
	}
	for _, st := range cfg.Denied {
		p.denied[st] = true
	}

	return p
}

// AddQuantities stores quantity samples.
func (p *Provider) AddQuantities(samples ...model.QuantitySample) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quantities = append(p.quantities, samples...)
}

// AddCategories stores category samples.
func (p *Provider) AddCategories(samples ...model.CategorySample) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.categories = append(p.categories, samples...)
}

// ID satisfies healthstore.Provider interface.
func (p *Provider) ID() string { return p.cfg.ID }

// Supports satisfies healthstore.Provider interface.
func (p *Provider) Supports(st model.SampleType) bool {
	return st.Unit() != "" && !p.unsupported[st]
}

// RequestAuthorization satisfies healthstore.Authorizer interface.
func (p *Provider) RequestAuthorization(_ context.Context, types []model.SampleType) (map[model.SampleType]bool, error) {
	if p.cfg.AuthorizationErr != nil {
		return nil, p.cfg.AuthorizationErr
	}

	res := map[model.SampleType]bool{}
	for _, st := range types {
		res[st] = p.Supports(st) && !p.denied[st]
	}
	return res, nil
}

// Statistic satisfies healthstore.Querier interface.
func (p *Provider) Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error) {
	if err := p.check(ctx, st); err != nil {
		return 0, err
	}
	if st.Categorical() {
		return 0, healthstore.ErrUnsupported
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var sum float64
	var count int
	for _, s := range p.quantities {
		if s.Type != st || !w.Contains(s.Start) {
			continue
		}
		sum += s.Value
		count++
	}

	if count == 0 {
		return 0, healthstore.ErrNoData
	}

	switch kind {
	case model.AggregationSum:
		return sum, nil
	case model.AggregationAverage:
		return sum / float64(count), nil
	default:
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, errUnknownAggregation(kind))
	}
}

// CategorySamples satisfies healthstore.Querier interface.
func (p *Provider) CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error) {
	if err := p.check(ctx, st); err != nil {
		return nil, err
	}
	if !st.Categorical() {
		return nil, healthstore.ErrUnsupported
	}

	p.mu.RLock()
	var res []model.CategorySample
	for _, s := range p.categories {
		if s.Type == st && w.Contains(s.Start) {
			res = append(res, s)
		}
	}
	p.mu.RUnlock()

	sort.SliceStable(res, func(i, j int) bool { return res[i].Start.Before(res[j].Start) })

	return res, nil
}

func (p *Provider) check(ctx context.Context, st model.SampleType) error {
	if err := ctx.Err(); err != nil {
		return healthstore.NewProviderError(p.cfg.ID, "query", st, err)
	}
	if !p.Supports(st) {
		return healthstore.ErrUnsupported
	}
	if p.denied[st] {
		return healthstore.ErrPermissionDenied
	}
	return nil
}

// Samples returns a copy of all the stored samples.
func (p *Provider) Samples() ([]model.QuantitySample, []model.CategorySample) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	qs := make([]model.QuantitySample, len(p.quantities))
	copy(qs, p.quantities)
	cs := make([]model.CategorySample, len(p.categories))
	copy(cs, p.categories)

	return qs, cs
}
