package publish

import (
	"context"
	"errors"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/log"
	"github.com/whaeuser/healthterm/internal/service/metrics"
)

// Subscriber is the presentation layer, it receives the full snapshot of the
// records every time something changes.
type Subscriber interface {
	Render(ctx context.Context, records []model.DisplayRecord) error
}

// Source is where the snapshots are taken from.
type Source interface {
	Snapshot() []model.DisplayRecord
	Changes() <-chan struct{}
}

// Config is the configuration of the Publisher.
type Config struct {
	Source          Source
	Subscriber      Subscriber
	MetricsRecorder metrics.Recorder
	Logger          log.Logger
}

func (c *Config) defaults() error {
	if c.Source == nil {
		return errors.New("source is required")
	}
	if c.Subscriber == nil {
		return errors.New("subscriber is required")
	}
	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}
	if c.Logger == nil {
		c.Logger = log.Dummy
	}
	return nil
}

// Publisher delivers the snapshots of the source to a single subscriber.
type Publisher struct {
	cfg    Config
	logger log.Logger
}

// NewPublisher returns a new Publisher.
func NewPublisher(cfg Config) (*Publisher, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}
	return &Publisher{
		cfg:    cfg,
		logger: cfg.Logger.WithValues(log.Kv{"component": "publisher"}),
	}, nil
}

// Run renders the current snapshot and then a new snapshot on every change
// until the context is done. It blocks.
func (p *Publisher) Run(ctx context.Context) error {
	p.publish(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-p.cfg.Source.Changes():
			p.publish(ctx)
		}
	}
}

func (p *Publisher) publish(ctx context.Context) {
	records := p.cfg.Source.Snapshot()
	if err := p.cfg.Subscriber.Render(ctx, records); err != nil {
		p.logger.Errorf("error rendering snapshot: %s", err)
		return
	}
	p.cfg.MetricsRecorder.IncSnapshotPublished(len(records))
}
