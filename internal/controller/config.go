package controller

import (
	"time"

	"github.com/pkg/errors"

	"github.com/whaeuser/healthterm/internal/service/healthstore"
	"github.com/whaeuser/healthterm/internal/service/log"
	"github.com/whaeuser/healthterm/internal/service/metrics"
)

// Config configures how the queries to the health data provider are
// executed.
type Config struct {
	// Provider is the health data provider.
	Provider healthstore.Provider

	// MaxConcurrentQueries limits parallel query execution, 0 is no limit.
	MaxConcurrentQueries int

	// QueriesPerSecond limits the rate of queries, 0 is no limit.
	QueriesPerSecond float64

	// QueryTimeout is the timeout for a query, 0 is no timeout.
	QueryTimeout time.Duration

	// EnableCaching enables the query result cache.
	EnableCaching bool

	// CacheSize is the maximum number of cache entries.
	CacheSize int

	// CacheTTL is how long cache entries remain valid.
	CacheTTL time.Duration

	MetricsRecorder metrics.Recorder
	Logger          log.Logger
}

func (c *Config) defaults() error {
	if c.Provider == nil {
		return errors.New("provider is required")
	}
	if c.MaxConcurrentQueries < 0 {
		return errors.New("max concurrent queries can't be negative")
	}
	if c.QueriesPerSecond < 0 {
		return errors.New("queries per second can't be negative")
	}
	if c.QueryTimeout < 0 {
		return errors.New("query timeout can't be negative")
	}
	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}
	if c.Logger == nil {
		c.Logger = log.Dummy
	}
	return nil
}

// DefaultConfig returns the default configuration. Queries never time out
// so a provider that doesn't answer leaves the metric absent.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentQueries: 10,
		QueriesPerSecond:     0,
		QueryTimeout:         0,
		EnableCaching:        false,
		CacheSize:            100,
		CacheTTL:             30 * time.Second,
	}
}
