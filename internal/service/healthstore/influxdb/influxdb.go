package influxdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	influxdb "github.com/influxdata/influxdb1-client/v2"
	"github.com/pkg/errors"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// ConfigProvider is the configuration of the InfluxDB provider.
type ConfigProvider struct {
	// ID of the provider.
	ID string
	// Client is the InfluxDB 1.x client.
	Client influxdb.Client
	// Database is the database that has the sample measurements.
	Database string
	// Field is the field that has the sample value.
	Field string
	// Measurements overrides the measurement name of a sample type, by
	// default it's the sample type with dashes replaced by underscores.
	Measurements map[model.SampleType]string
	// PingTimeout is the timeout of the availability check.
	PingTimeout time.Duration
}

func (c *ConfigProvider) defaults() error {
	if c.Client == nil {
		return errors.New("influxdb client is required")
	}
	if c.Database == "" {
		return errors.New("influxdb database is required")
	}
	if c.ID == "" {
		c.ID = "influxdb"
	}
	if c.Field == "" {
		c.Field = "value"
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = 5 * time.Second
	}
	return nil
}

type provider struct {
	cfg ConfigProvider
}

// NewProvider returns a health data provider backed by InfluxDB, one
// measurement per sample type with one point per sample.
func NewProvider(cfg ConfigProvider) (healthstore.Provider, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}
	return &provider{cfg: cfg}, nil
}

func (p *provider) ID() string { return p.cfg.ID }

func (p *provider) Supports(st model.SampleType) bool {
	return p.measurement(st) != ""
}

func (p *provider) RequestAuthorization(_ context.Context, types []model.SampleType) (map[model.SampleType]bool, error) {
	_, _, err := p.cfg.Client.Ping(p.cfg.PingTimeout)
	if err != nil {
		return nil, errors.Wrapf(healthstore.ErrUnavailable, "influxdb ping: %v", err)
	}

	res := map[model.SampleType]bool{}
	for _, st := range types {
		res[st] = p.Supports(st)
	}
	return res, nil
}

func (p *provider) Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error) {
	m := p.measurement(st)
	if m == "" || st.Categorical() {
		return 0, healthstore.ErrUnsupported
	}

	var fn string
	switch kind {
	case model.AggregationSum:
		fn = "SUM"
	case model.AggregationAverage:
		fn = "MEAN"
	default:
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, errors.Errorf("unknown aggregation kind %q", kind))
	}

	q := fmt.Sprintf(`SELECT %s(%q) FROM %q WHERE %s`, fn, p.cfg.Field, m, timeCondition(w))
	rows, err := p.query(ctx, q)
	if err != nil {
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, err)
	}

	if len(rows) == 0 || len(rows[0]) < 2 || rows[0][1] == nil {
		return 0, healthstore.ErrNoData
	}

	v, err := toFloat(rows[0][1])
	if err != nil {
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, err)
	}

	return v, nil
}

func (p *provider) CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error) {
	m := p.measurement(st)
	if m == "" || !st.Categorical() {
		return nil, healthstore.ErrUnsupported
	}

	q := fmt.Sprintf(`SELECT %q FROM %q WHERE %s ORDER BY time ASC`, p.cfg.Field, m, timeCondition(w))
	rows, err := p.query(ctx, q)
	if err != nil {
		return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, err)
	}

	res := make([]model.CategorySample, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 || row[1] == nil {
			continue
		}

		ts, err := toTime(row[0])
		if err != nil {
			return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, err)
		}
		v, err := toFloat(row[1])
		if err != nil {
			return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, err)
		}

		res = append(res, model.CategorySample{
			Type:  st,
			Value: int(v),
			Start: ts.In(w.Start.Location()),
			End:   ts.In(w.Start.Location()),
		})
	}

	return res, nil
}

// query runs the query and returns the values of the first series.
func (p *provider) query(ctx context.Context, q string) ([][]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := p.cfg.Client.Query(influxdb.NewQuery(q, p.cfg.Database, ""))
	if err != nil {
		return nil, err
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 || len(resp.Results[0].Series) == 0 {
		return nil, nil
	}

	return resp.Results[0].Series[0].Values, nil
}

func (p *provider) measurement(st model.SampleType) string {
	if m, ok := p.cfg.Measurements[st]; ok {
		return m
	}
	if st.Unit() == "" {
		return ""
	}
	return strings.ReplaceAll(string(st), "-", "_")
}

func timeCondition(w model.TimeWindow) string {
	return fmt.Sprintf("time >= '%s' AND time < '%s'",
		w.Start.UTC().Format(time.RFC3339Nano),
		w.End.UTC().Format(time.RFC3339Nano))
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, errors.Errorf("unexpected value type %T", v)
	}
}

func toTime(v interface{}) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, errors.Errorf("unexpected time type %T", v)
	}
	return time.Parse(time.RFC3339Nano, s)
}
