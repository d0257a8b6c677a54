package sqlite

import (
	"context"
	"database/sql"
	"time"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
)

// ConfigProvider is the configuration of the SQLite provider.
type ConfigProvider struct {
	// ID of the provider.
	ID string
	// DBPath is the path of the database file.
	DBPath string
}

func (c *ConfigProvider) defaults() error {
	if c.DBPath == "" {
		return errors.New("sqlite database path is required")
	}
	if c.ID == "" {
		c.ID = "sqlite"
	}
	return nil
}

// Provider is a health data provider backed by a SQLite sample store.
// Samples are stored in the `samples` table, timestamps in unix
// milliseconds. The `authorizations` table restricts the readable sample
// types, when it's empty every supported type is readable.
type Provider struct {
	cfg ConfigProvider
	db  *sql.DB
}

var _ healthstore.Provider = &Provider{}

// NewProvider opens (and creates if missing) the sample store.
func NewProvider(ctx context.Context, cfg ConfigProvider) (*Provider, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not open database")
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not ping database")
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "could not run migrations")
	}

	return &Provider{cfg: cfg, db: db}, nil
}

// Close closes the database.
func (p *Provider) Close() error {
	return p.db.Close()
}

// WriteQuantities stores quantity samples.
func (p *Provider) WriteQuantities(ctx context.Context, samples ...model.QuantitySample) error {
	return p.write(ctx, len(samples), func(i int) (model.SampleType, float64, time.Time, time.Time) {
		s := samples[i]
		return s.Type, s.Value, s.Start, s.End
	})
}

// WriteCategories stores category samples.
func (p *Provider) WriteCategories(ctx context.Context, samples ...model.CategorySample) error {
	return p.write(ctx, len(samples), func(i int) (model.SampleType, float64, time.Time, time.Time) {
		s := samples[i]
		return s.Type, float64(s.Value), s.Start, s.End
	})
}

// SetAuthorization sets if a sample type is readable.
func (p *Provider) SetAuthorization(ctx context.Context, st model.SampleType, granted bool) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO authorizations (sample_type, granted) VALUES (?, ?)
		ON CONFLICT(sample_type) DO UPDATE SET granted = excluded.granted`,
		string(st), granted)
	return err
}

func (p *Provider) write(ctx context.Context, n int, get func(i int) (model.SampleType, float64, time.Time, time.Time)) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (sample_type, value, start_time, end_time) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		st, v, start, end := get(i)
		if _, err := stmt.ExecContext(ctx, string(st), v, start.UnixMilli(), end.UnixMilli()); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "could not write %s sample", st)
		}
	}

	return tx.Commit()
}

// ID satisfies healthstore.Provider interface.
func (p *Provider) ID() string { return p.cfg.ID }

// Supports satisfies healthstore.Provider interface.
func (p *Provider) Supports(st model.SampleType) bool {
	return st.Unit() != ""
}

// RequestAuthorization satisfies healthstore.Authorizer interface.
func (p *Provider) RequestAuthorization(ctx context.Context, types []model.SampleType) (map[model.SampleType]bool, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT sample_type, granted FROM authorizations`)
	if err != nil {
		return nil, errors.Wrapf(healthstore.ErrUnavailable, "sqlite authorizations: %v", err)
	}
	defer rows.Close()

	grants := map[model.SampleType]bool{}
	for rows.Next() {
		var st string
		var granted bool
		if err := rows.Scan(&st, &granted); err != nil {
			return nil, errors.Wrapf(healthstore.ErrUnavailable, "sqlite authorizations: %v", err)
		}
		grants[model.SampleType(st)] = granted
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(healthstore.ErrUnavailable, "sqlite authorizations: %v", err)
	}

	res := map[model.SampleType]bool{}
	for _, st := range types {
		if len(grants) == 0 {
			res[st] = p.Supports(st)
			continue
		}
		res[st] = p.Supports(st) && grants[st]
	}

	return res, nil
}

// Statistic satisfies healthstore.Querier interface.
func (p *Provider) Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error) {
	if !p.Supports(st) || st.Categorical() {
		return 0, healthstore.ErrUnsupported
	}

	var count int
	var sum float64
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(value), 0) FROM samples WHERE sample_type = ? AND start_time >= ? AND start_time < ?`,
		string(st), w.Start.UnixMilli(), w.End.UnixMilli()).Scan(&count, &sum)
	if err != nil {
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, err)
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
		return 0, healthstore.NewProviderError(p.cfg.ID, "statistic", st, errors.Errorf("unknown aggregation kind %q", kind))
	}
}

// CategorySamples satisfies healthstore.Querier interface.
func (p *Provider) CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error) {
	if !p.Supports(st) || !st.Categorical() {
		return nil, healthstore.ErrUnsupported
	}

	rows, err := p.db.QueryContext(ctx,
		`SELECT value, start_time, end_time FROM samples WHERE sample_type = ? AND start_time >= ? AND start_time < ? ORDER BY start_time ASC, id ASC`,
		string(st), w.Start.UnixMilli(), w.End.UnixMilli())
	if err != nil {
		return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, err)
	}
	defer rows.Close()

	loc := w.Start.Location()
	var res []model.CategorySample
	for rows.Next() {
		var v float64
		var start, end int64
		if err := rows.Scan(&v, &start, &end); err != nil {
			return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, err)
		}
		res = append(res, model.CategorySample{
			Type:  st,
			Value: int(v),
			Start: time.UnixMilli(start).In(loc),
			End:   time.UnixMilli(end).In(loc),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, healthstore.NewProviderError(p.cfg.ID, "category", st, err)
	}

	return res, nil
}
