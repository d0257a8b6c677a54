package influxdb_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	influxdb "github.com/influxdata/influxdb1-client/v2"
	influxmodels "github.com/influxdata/influxdb1-client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
	hsinfluxdb "github.com/whaeuser/healthterm/internal/service/healthstore/influxdb"
)

// fakeClient only implements the query and ping of the InfluxDB client.
type fakeClient struct {
	influxdb.Client

	queries []influxdb.Query
	resp    *influxdb.Response
	err     error
	pingErr error
}

func (f *fakeClient) Query(q influxdb.Query) (*influxdb.Response, error) {
	f.queries = append(f.queries, q)
	return f.resp, f.err
}

func (f *fakeClient) Ping(time.Duration) (time.Duration, string, error) {
	return 0, "1.8", f.pingErr
}

func respWithValues(values ...[]interface{}) *influxdb.Response {
	return &influxdb.Response{
		Results: []influxdb.Result{
			{Series: []influxmodels.Row{{Name: "x", Columns: []string{"time", "value"}, Values: values}}},
		},
	}
}

var t0 = time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC)

func newProvider(t *testing.T, cli *fakeClient) healthstore.Provider {
	p, err := hsinfluxdb.NewProvider(hsinfluxdb.ConfigProvider{Client: cli, Database: "health"})
	require.NoError(t, err)
	return p
}

func TestProviderStatistic(t *testing.T) {
	tests := []struct {
		name     string
		st       model.SampleType
		kind     model.AggregationKind
		resp     *influxdb.Response
		err      error
		expQuery string
		expValue float64
		expErr   bool
		expNoDat bool
	}{
		{
			name:     "Sum should select the sum of the measurement.",
			st:       model.SampleStepCount,
			kind:     model.AggregationSum,
			resp:     respWithValues([]interface{}{"2024-01-24T00:00:00Z", json.Number("6450.7")}),
			expQuery: `SELECT SUM("value") FROM "step_count" WHERE time >= '2024-01-24T00:00:00Z' AND time < '2024-01-24T12:00:00Z'`,
			expValue: 6450.7,
		},
		{
			name:     "Average should select the mean of the measurement.",
			st:       model.SampleBodyMass,
			kind:     model.AggregationAverage,
			resp:     respWithValues([]interface{}{"2024-01-24T00:00:00Z", json.Number("72.5")}),
			expQuery: `SELECT MEAN("value") FROM "body_mass" WHERE time >= '2024-01-24T00:00:00Z' AND time < '2024-01-24T12:00:00Z'`,
			expValue: 72.5,
		},
		{
			name:     "No series should be no data.",
			st:       model.SampleStepCount,
			kind:     model.AggregationSum,
			resp:     &influxdb.Response{Results: []influxdb.Result{{}}},
			expQuery: `SELECT SUM("value") FROM "step_count" WHERE time >= '2024-01-24T00:00:00Z' AND time < '2024-01-24T12:00:00Z'`,
			expNoDat: true,
		},
		{
			name:     "A query error should be a provider error.",
			st:       model.SampleStepCount,
			kind:     model.AggregationSum,
			err:      errors.New("wanted error"),
			expQuery: `SELECT SUM("value") FROM "step_count" WHERE time >= '2024-01-24T00:00:00Z' AND time < '2024-01-24T12:00:00Z'`,
			expErr:   true,
		},
		{
			name:     "A statement error should be a provider error.",
			st:       model.SampleStepCount,
			kind:     model.AggregationSum,
			resp:     &influxdb.Response{Results: []influxdb.Result{{Err: "database not found"}}},
			expQuery: `SELECT SUM("value") FROM "step_count" WHERE time >= '2024-01-24T00:00:00Z' AND time < '2024-01-24T12:00:00Z'`,
			expErr:   true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cli := &fakeClient{resp: test.resp, err: test.err}
			p := newProvider(t, cli)

			got, err := p.Statistic(context.Background(), test.st, model.Today(t0), test.kind)

			require.Len(t, cli.queries, 1)
			assert.Equal(t, test.expQuery, cli.queries[0].Command)
			assert.Equal(t, "health", cli.queries[0].Database)

			switch {
			case test.expErr:
				var perr *healthstore.ProviderError
				assert.ErrorAs(t, err, &perr)
			case test.expNoDat:
				assert.ErrorIs(t, err, healthstore.ErrNoData)
			default:
				require.NoError(t, err)
				assert.Equal(t, test.expValue, got)
			}
		})
	}
}

func TestProviderCategorySamples(t *testing.T) {
	cli := &fakeClient{resp: respWithValues(
		[]interface{}{"2024-01-24T01:00:00Z", json.Number("0")},
		[]interface{}{"2024-01-24T01:20:00Z", json.Number("1")},
	)}
	p := newProvider(t, cli)

	got, err := p.CategorySamples(context.Background(), model.SampleSleepAnalysis, model.Today(t0))
	require.NoError(t, err)

	assert.Equal(t, `SELECT "value" FROM "sleep_analysis" WHERE time >= '2024-01-24T00:00:00Z' AND time < '2024-01-24T12:00:00Z' ORDER BY time ASC`, cli.queries[0].Command)
	exp := []model.CategorySample{
		{Type: model.SampleSleepAnalysis, Value: model.SleepInBed, Start: t0.Add(-11 * time.Hour), End: t0.Add(-11 * time.Hour)},
		{Type: model.SampleSleepAnalysis, Value: model.SleepAsleep, Start: t0.Add(-10*time.Hour - 40*time.Minute), End: t0.Add(-10*time.Hour - 40*time.Minute)},
	}
	assert.Equal(t, exp, got)
}

func TestProviderRequestAuthorization(t *testing.T) {
	t.Run("A reachable server should grant the supported types.", func(t *testing.T) {
		p := newProvider(t, &fakeClient{})

		got, err := p.RequestAuthorization(context.Background(), []model.SampleType{model.SampleHeartRate})
		require.NoError(t, err)
		assert.Equal(t, map[model.SampleType]bool{model.SampleHeartRate: true}, got)
	})

	t.Run("A failed ping should be unavailable.", func(t *testing.T) {
		p := newProvider(t, &fakeClient{pingErr: errors.New("connection refused")})

		_, err := p.RequestAuthorization(context.Background(), []model.SampleType{model.SampleHeartRate})
		assert.ErrorIs(t, err, healthstore.ErrUnavailable)
	})
}

func TestNewProviderValidation(t *testing.T) {
	_, err := hsinfluxdb.NewProvider(hsinfluxdb.ConfigProvider{Database: "health"})
	assert.Error(t, err)

	_, err = hsinfluxdb.NewProvider(hsinfluxdb.ConfigProvider{Client: &fakeClient{}})
	assert.Error(t, err)
}
