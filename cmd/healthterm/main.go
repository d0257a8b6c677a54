package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/whaeuser/healthterm/internal/authorization"
	"github.com/whaeuser/healthterm/internal/controller"
	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/query"
	"github.com/whaeuser/healthterm/internal/service/log"
	"github.com/whaeuser/healthterm/internal/service/metrics"
	"github.com/whaeuser/healthterm/internal/view"
	"github.com/whaeuser/healthterm/internal/view/publish"
	"github.com/whaeuser/healthterm/internal/view/render/plain"
	"github.com/whaeuser/healthterm/internal/view/render/termdash"
)

// Main is the main application.
type Main struct {
	flags  *flags
	logger log.Logger
}

// Run runs the main application.
func (m *Main) Run() error {
	// A missing .env file is not an error, the flags have defaults.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "could not load .env file")
	}

	f, err := newFlags(os.Args[1:])
	if err != nil {
		return err
	}
	m.flags = f

	logw, err := m.logWriter()
	if err != nil {
		return err
	}
	defer logw.Close()
	m.logger = log.NewZerolog(logw, f.debug)
	if f.noTUI && f.logFile == "" {
		m.logger = log.NewZerologConsole(logw, f.debug)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider, closer, err := newProvider(ctx, f, m.logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheus(promReg)

	ctrlCfg := controller.DefaultConfig()
	ctrlCfg.Provider = provider
	ctrlCfg.MaxConcurrentQueries = f.maxConcurrentQueries
	ctrlCfg.QueriesPerSecond = f.queriesPerSecond
	ctrlCfg.QueryTimeout = f.queryTimeout
	ctrlCfg.EnableCaching = f.cacheTTL > 0
	ctrlCfg.CacheTTL = f.cacheTTL
	ctrlCfg.MetricsRecorder = recorder
	ctrlCfg.Logger = m.logger
	ctrl, err := controller.New(ctrlCfg)
	if err != nil {
		return err
	}

	mts := make([]model.MetricType, 0, len(f.metrics))
	for _, mt := range f.metrics {
		mts = append(mts, model.MetricType(mt))
	}
	units, err := query.DefaultUnits(ctrl, mts...)
	if err != nil {
		return err
	}

	gate := authorization.NewGate(authorization.GateConfig{Authorizer: provider, Logger: m.logger})
	app, err := view.NewApp(view.AppConfig{
		RefreshInterval: f.refreshInterval,
		MetricsRecorder: recorder,
	}, gate, units, m.logger)
	if err != nil {
		return err
	}

	var g run.Group

	// Presentation.
	{
		var sub publish.Subscriber
		if f.noTUI {
			r, err := plain.New(plain.Config{Out: os.Stdout})
			if err != nil {
				return err
			}
			sub = r
		} else {
			r, err := termdash.New(termdash.Config{Columns: f.columns, Logger: m.logger})
			if err != nil {
				return err
			}
			defer r.Close()
			sub = r

			tctx, tcancel := context.WithCancel(ctx)
			g.Add(
				func() error {
					return r.Run(tctx)
				},
				func(_ error) {
					tcancel()
				},
			)
		}

		pub, err := publish.NewPublisher(publish.Config{
			Source:          app.Registry(),
			Subscriber:      sub,
			MetricsRecorder: recorder,
			Logger:          m.logger,
		})
		if err != nil {
			return err
		}

		pctx, pcancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				return pub.Run(pctx)
			},
			func(_ error) {
				pcancel()
			},
		)
	}

	// Aggregation.
	{
		actx, acancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				return app.Run(actx)
			},
			func(_ error) {
				acancel()
			},
		)
	}

	// Metrics.
	if f.metricsListenAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: f.metricsListenAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		g.Add(
			func() error {
				m.logger.Infof("serving metrics on %s", f.metricsListenAddr)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			},
			func(_ error) {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				_ = srv.Shutdown(sctx)
			},
		)
	}

	// Signals.
	{
		sigC := make(chan os.Signal, 1)
		exitC := make(chan struct{})
		signal.Notify(sigC, syscall.SIGTERM, syscall.SIGINT)
		g.Add(
			func() error {
				select {
				case s := <-sigC:
					m.logger.Infof("signal %s received", s)
				case <-exitC:
				}
				return nil
			},
			func(_ error) {
				close(exitC)
			},
		)
	}

	return g.Run()
}

// logWriter returns where the logs are written. With the terminal dashboard
// stderr would break the screen so the logs are discarded unless a file is
// set.
func (m *Main) logWriter() (io.WriteCloser, error) {
	if m.flags.logFile != "" {
		f, err := os.OpenFile(m.flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "could not open log file")
		}
		return f, nil
	}
	if m.flags.noTUI {
		return nopWriteCloser{os.Stderr}, nil
	}
	return nopWriteCloser{io.Discard}, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func main() {
	m := &Main{}
	if err := m.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error running app: %s\n", err)
		os.Exit(1)
	}
}
