package graphite

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	graphiteclient "github.com/JensRantil/graphite-client"
	"github.com/pkg/errors"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// Client is the Graphite API used by the provider, *graphiteclient.Client
// satisfies it.
type Client interface {
	QueryMulti(targets []string, interval graphiteclient.TimeInterval) (graphiteclient.MultiDatapoints, error)
	Find(query string, opts *graphiteclient.FindOpts) ([]graphiteclient.FindResultItem, error)
}

// ConfigProvider is the configuration of the Graphite provider.
type ConfigProvider struct {
	// ID of the provider.
	ID string
	// Client is the Graphite render and find API client.
	Client Client
	// Prefix is the path prefix of the health series.
	Prefix string
	// Paths overrides the series path of a sample type, by default it's
	// the prefix and the sample type with dashes replaced by underscores.
	Paths map[model.SampleType]string
}

func (c *ConfigProvider) defaults() error {
	if c.Client == nil {
		return errors.New("graphite client is required")
	}
	if c.ID == "" {
		c.ID = "graphite"
	}
	if c.Prefix == "" {
		c.Prefix = "health"
	}
	return nil
}

type provider struct {
	cfg ConfigProvider
}

// NewProvider returns a health data provider backed by the Graphite render
// API, one series per sample type with a datapoint per sample.
func NewProvider(cfg ConfigProvider) (healthstore.Provider, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}
	return &provider{cfg: cfg}, nil
}

func (p *provider) ID() string { return p.cfg.ID }

func (p *provider) Supports(st model.SampleType) bool {
	return p.path(st) != ""
}

func (p *provider) RequestAuthorization(ctx context.Context, types []model.SampleType) (map[model.SampleType]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, err := p.cfg.Client.Find(p.cfg.Prefix+".*", nil)
	if err != nil {
		return nil, errors.Wrapf(healthstore.ErrUnavailable, "graphite find: %v", err)
	}

	res := map[model.SampleType]bool{}
	for _, st := range types {
		res[st] = p.Supports(st)
	}
	return res, nil
}

func (p *provider) Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error) {
	path := p.path(st)
	if path == "" || st.Categorical() {
		return 0, healthstore.ErrUnsupported
	}

	var target string
	switch kind {
	case model.AggregationSum:
		// A single bucket as long as the window.
		mins := int(math.Ceil(w.Duration().Minutes()))
		if mins < 1 {
			mins = 1
		}
		target = fmt.Sprintf(`summarize(%s,"%dmin","sum",true)`, path, mins)
	case model.AggregationAverage:
		target = path
	default:
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, errors.Errorf("unknown aggregation kind %q", kind))
	}

	points, err := p.query(ctx, target, w)
	if err != nil {
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, err)
	}

	sum, count := 0.0, 0
	for _, dp := range points {
		if dp.Value == nil {
			continue
		}
		sum += *dp.Value
		count++
	}

	if count == 0 {
		return 0, healthstore.ErrNoData
	}

	if kind == model.AggregationAverage {
		return sum / float64(count), nil
	}
	return sum, nil
}

func (p *provider) CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error) {
	path := p.path(st)
	if path == "" || !st.Categorical() {
		return nil, healthstore.ErrUnsupported
	}

	points, err := p.query(ctx, path, w)
	if err != nil {
		return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, err)
	}

	res := make([]model.CategorySample, 0, len(points))
	for _, dp := range points {
		if dp.Value == nil {
			continue
		}
		ts := dp.Time.In(w.Start.Location())
		res = append(res, model.CategorySample{
			Type:  st,
			Value: int(*dp.Value),
			Start: ts,
			End:   ts,
		})
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Start.Before(res[j].Start) })

	return res, nil
}

// query renders the target on the window and returns the datapoints of
// all the returned series.
func (p *provider) query(ctx context.Context, target string, w model.TimeWindow) ([]graphiteclient.FloatDatapoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, err := p.cfg.Client.QueryMulti([]string{target}, graphiteclient.TimeInterval{
		From: w.Start,
		To:   w.End,
	})
	if err != nil {
		return nil, err
	}

	res := []graphiteclient.FloatDatapoint{}
	for _, s := range series {
		points, err := s.AsFloats()
		if err != nil {
			return nil, errors.Wrapf(err, "invalid datapoints on %s", s.Target)
		}
		for _, dp := range points {
			// Graphite has minute resolution, drop what is outside the window.
			if dp.Time.Before(w.Start) || !dp.Time.Before(w.End) {
				continue
			}
			res = append(res, dp)
		}
	}

	return res, nil
}

func (p *provider) path(st model.SampleType) string {
	if path, ok := p.cfg.Paths[st]; ok {
		return path
	}
	if st.Unit() == "" {
		return ""
	}
	return p.cfg.Prefix + "." + strings.ReplaceAll(string(st), "-", "_")
}
