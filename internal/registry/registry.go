package registry

import (
	"sort"
	"sync"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/metrics"
)

// Config is the configuration of the Registry.
type Config struct {
	MetricsRecorder metrics.Recorder
}

func (c *Config) defaults() {
	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}
}

// Registry has the latest display record of every metric. It's safe to
// write from multiple goroutines.
type Registry struct {
	cfg Config

	mu      sync.RWMutex
	records map[model.MetricType]model.DisplayRecord
	changes chan struct{}
}

// New returns a new empty registry.
func New(cfg Config) *Registry {
	cfg.defaults()
	return &Registry{
		cfg:     cfg,
		records: map[model.MetricType]model.DisplayRecord{},
		changes: make(chan struct{}, 1),
	}
}

// Upsert sets the record of its metric, replacing the previous one. It
// returns true if the registry contents changed.
func (r *Registry) Upsert(record model.DisplayRecord) bool {
	r.mu.Lock()
	old, ok := r.records[record.Key]
	changed := !ok || old != record
	if changed {
		r.records[record.Key] = record
	}
	r.mu.Unlock()

	r.cfg.MetricsRecorder.IncRegistryUpsert(record.Key, changed)
	if changed {
		r.notify()
	}

	return changed
}

// Get returns the record of a metric.
func (r *Registry) Get(key model.MetricType) (model.DisplayRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[key]
	return rec, ok
}

// Snapshot returns all the records in display order.
func (r *Registry) Snapshot() []model.DisplayRecord {
	r.mu.RLock()
	res := make([]model.DisplayRecord, 0, len(r.records))
	for _, rec := range r.records {
		res = append(res, rec)
	}
	r.mu.RUnlock()

	sort.Slice(res, func(i, j int) bool {
		oi, oj := res[i].Key.Order(), res[j].Key.Order()
		if oi != oj {
			return oi < oj
		}
		return res[i].Key < res[j].Key
	})

	return res
}

// Changes returns the channel that is signaled when the registry changes.
// Multiple changes before the channel is read are signaled once.
func (r *Registry) Changes() <-chan struct{} {
	return r.changes
}

func (r *Registry) notify() {
	select {
	case r.changes <- struct{}{}:
	default:
	}
}
