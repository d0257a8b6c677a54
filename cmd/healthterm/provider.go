package main

import (
	"context"
	"io"
	"time"

	graphiteclient "github.com/JensRantil/graphite-client"
	influxdb "github.com/influxdata/influxdb1-client/v2"
	"github.com/pkg/errors"
	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"

	"github.com/whaeuser/healthterm/internal/service/healthstore"
	hsgraphite "github.com/whaeuser/healthterm/internal/service/healthstore/graphite"
	hsinfluxdb "github.com/whaeuser/healthterm/internal/service/healthstore/influxdb"
	"github.com/whaeuser/healthterm/internal/service/healthstore/memory"
	hsprometheus "github.com/whaeuser/healthterm/internal/service/healthstore/prometheus"
	"github.com/whaeuser/healthterm/internal/service/healthstore/sqlite"
	"github.com/whaeuser/healthterm/internal/service/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newProvider returns the health data provider selected by the flags and
// the closer of its resources.
func newProvider(ctx context.Context, f *flags, logger log.Logger) (healthstore.Provider, io.Closer, error) {
	switch f.provider {
	case providerDemo:
		logger.Infof("using demo health data")
		return memory.NewDemo(time.Now(), f.demoSeed), nopCloser{}, nil

	case providerPrometheus:
		cli, err := promapi.NewClient(promapi.Config{Address: f.prometheusAddr})
		if err != nil {
			return nil, nil, errors.Wrap(err, "could not create prometheus client")
		}
		p, err := hsprometheus.NewProvider(hsprometheus.ConfigProvider{
			Client:       promv1.NewAPI(cli),
			MetricPrefix: f.prometheusPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using prometheus health data on %s", f.prometheusAddr)
		return p, nopCloser{}, nil

	case providerInfluxDB:
		cli, err := influxdb.NewHTTPClient(influxdb.HTTPConfig{
			Addr:     f.influxdbAddr,
			Username: f.influxdbUser,
			Password: f.influxdbPassword,
		})
		if err != nil {
			return nil, nil, errors.Wrap(err, "could not create influxdb client")
		}
		p, err := hsinfluxdb.NewProvider(hsinfluxdb.ConfigProvider{
			Client:   cli,
			Database: f.influxdbDatabase,
		})
		if err != nil {
			cli.Close()
			return nil, nil, err
		}
		logger.Infof("using influxdb health data on %s/%s", f.influxdbAddr, f.influxdbDatabase)
		return p, cli, nil

	case providerGraphite:
		cli, err := graphiteclient.New(f.graphiteAddr)
		if err != nil {
			return nil, nil, errors.Wrap(err, "could not create graphite client")
		}
		if f.queryTimeout > 0 {
			cli.Client.Timeout = f.queryTimeout
		}
		p, err := hsgraphite.NewProvider(hsgraphite.ConfigProvider{
			Client: cli,
			Prefix: f.graphitePrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Infof("using graphite health data on %s", f.graphiteAddr)
		return p, nopCloser{}, nil

	case providerSQLite:
		p, err := sqlite.NewProvider(ctx, sqlite.ConfigProvider{DBPath: f.sqlitePath})
		if err != nil {
			return nil, nil, err
		}
		if f.sqliteSeedDemo {
			qs, cs := memory.NewDemo(time.Now(), f.demoSeed).Samples()
			if err := p.WriteQuantities(ctx, qs...); err != nil {
				p.Close()
				return nil, nil, errors.Wrap(err, "could not seed demo quantities")
			}
			if err := p.WriteCategories(ctx, cs...); err != nil {
				p.Close()
				return nil, nil, errors.Wrap(err, "could not seed demo categories")
			}
			logger.Infof("seeded %d demo samples", len(qs)+len(cs))
		}
		logger.Infof("using sqlite health data on %s", f.sqlitePath)
		return p, p, nil
	}

	return nil, nil, errors.Errorf("unknown provider %q", f.provider)
}
