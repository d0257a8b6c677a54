package prometheus

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	prommodel "github.com/prometheus/common/model"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// ConfigProvider is the configuration of the Prometheus provider.
type ConfigProvider struct {
	// ID of the provider.
	ID string
	// Client is the Prometheus API client.
	Client promv1.API
	// MetricPrefix is the prefix of the series that store the samples,
	// the series of a sample type is `<prefix>_<sample type>` with
	// dashes replaced by underscores (e.g. health_step_count).
	MetricPrefix string
	// Series overrides the series name of a sample type.
	Series map[model.SampleType]string
	// Now is the clock, used for testing.
	Now func() time.Time
}

func (c *ConfigProvider) defaults() error {
	if c.Client == nil {
		return errors.New("prometheus client is required")
	}
	if c.ID == "" {
		c.ID = "prometheus"
	}
	if c.MetricPrefix == "" {
		c.MetricPrefix = "health"
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

type provider struct {
	cfg ConfigProvider
}

// NewProvider returns a health data provider backed by Prometheus. The
// samples are expected as series with one point per sample.
func NewProvider(cfg ConfigProvider) (healthstore.Provider, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}
	return &provider{cfg: cfg}, nil
}

func (p *provider) ID() string { return p.cfg.ID }

func (p *provider) Supports(st model.SampleType) bool {
	return p.series(st) != ""
}

func (p *provider) RequestAuthorization(ctx context.Context, types []model.SampleType) (map[model.SampleType]bool, error) {
	// Prometheus doesn't have per series permissions, if the server answers
	// every supported type is readable.
	_, _, err := p.cfg.Client.Query(ctx, "vector(1)", p.cfg.Now())
	if err != nil {
		return nil, errors.Wrapf(healthstore.ErrUnavailable, "prometheus probe: %v", err)
	}

	res := map[model.SampleType]bool{}
	for _, st := range types {
		res[st] = p.Supports(st)
	}
	return res, nil
}

func (p *provider) Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error) {
	series := p.series(st)
	if series == "" || st.Categorical() {
		return 0, healthstore.ErrUnsupported
	}

	end, rng, ok := p.evaluation(w)
	if !ok {
		return 0, healthstore.ErrNoData
	}

	var q string
	switch kind {
	case model.AggregationSum:
		q = fmt.Sprintf("sum(sum_over_time(%s[%s]))", series, rng)
	case model.AggregationAverage:
		q = fmt.Sprintf("sum(sum_over_time(%[1]s[%[2]s])) / sum(count_over_time(%[1]s[%[2]s]))", series, rng)
	default:
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, errors.Errorf("unknown aggregation kind %q", kind))
	}

	val, _, err := p.cfg.Client.Query(ctx, q, end)
	if err != nil {
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, err)
	}

	vector, ok := val.(prommodel.Vector)
	if !ok {
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, errors.Errorf("unexpected result type %s", val.Type()))
	}
	if len(vector) == 0 {
		return 0, healthstore.ErrNoData
	}

	v := float64(vector[0].Value)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, healthstore.ErrNoData
	}

	return v, nil
}

func (p *provider) CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error) {
	series := p.series(st)
	if series == "" || !st.Categorical() {
		return nil, healthstore.ErrUnsupported
	}

	end, rng, ok := p.evaluation(w)
	if !ok {
		return nil, nil
	}

	val, _, err := p.cfg.Client.Query(ctx, fmt.Sprintf("%s[%s]", series, rng), end)
	if err != nil {
		return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, err)
	}

	matrix, ok := val.(prommodel.Matrix)
	if !ok {
		return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, errors.Errorf("unexpected result type %s", val.Type()))
	}

	var res []model.CategorySample
	for _, s := range matrix {
		for _, v := range s.Values {
			ts := v.Timestamp.Time().In(w.Start.Location())
			if !w.Contains(ts) {
				continue
			}
			res = append(res, model.CategorySample{
				Type:  st,
				Value: int(v.Value),
				Start: ts,
				End:   ts,
			})
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Start.Before(res[j].Start) })

	return res, nil
}

// evaluation returns the evaluation time and the range selector of a
// window. Windows ending in the future are evaluated now.
func (p *provider) evaluation(w model.TimeWindow) (time.Time, string, bool) {
	end := w.End
	if now := p.cfg.Now(); end.After(now) {
		end = now
	}

	d := end.Sub(w.Start)
	if d <= 0 {
		return end, "", false
	}

	secs := int64(math.Ceil(d.Seconds()))
	return end, fmt.Sprintf("%ds", secs), true
}

func (p *provider) series(st model.SampleType) string {
	if s, ok := p.cfg.Series[st]; ok {
		return s
	}
	if st.Unit() == "" {
		return ""
	}
	return p.cfg.MetricPrefix + "_" + strings.ReplaceAll(string(st), "-", "_")
}
