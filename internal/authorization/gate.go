package authorization

import (
	"context"
	"sort"
	"sync"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/healthstore"
	"github.com/whaeuser/healthterm/internal/service/log"
)

// Grant is the result of an access request.
type Grant struct {
	granted map[model.SampleType]bool
}

// Allowed returns true if read access was granted to all the sample types.
func (g Grant) Allowed(types ...model.SampleType) bool {
	for _, st := range types {
		if !g.granted[st] {
			return false
		}
	}
	return true
}

// Granted returns the granted sample types sorted.
func (g Grant) Granted() []model.SampleType {
	res := []model.SampleType{}
	for st, ok := range g.granted {
		if ok {
			res = append(res, st)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}

// GateConfig is the configuration of the Gate.
type GateConfig struct {
	Authorizer healthstore.Authorizer
	Logger     log.Logger
}

func (c *GateConfig) defaults() {
	if c.Logger == nil {
		c.Logger = log.Dummy
	}
}

// Gate asks the health data provider for read access. The provider is
// asked only once per Gate, the next requests get the first result.
type Gate struct {
	cfg GateConfig

	once  sync.Once
	grant Grant
	err   error
}

// NewGate returns a new Gate.
func NewGate(cfg GateConfig) *Gate {
	cfg.defaults()
	return &Gate{cfg: cfg}
}

// RequestAccess requests read access to the sample types. A failure of the
// provider is not fatal, it's returned together with a grant that doesn't
// allow anything.
func (g *Gate) RequestAccess(ctx context.Context, types []model.SampleType) (Grant, error) {
	g.once.Do(func() {
		g.grant, g.err = g.request(ctx, types)
	})
	return g.grant, g.err
}

func (g *Gate) request(ctx context.Context, types []model.SampleType) (Grant, error) {
	logger := g.cfg.Logger.WithValues(log.Kv{"component": "authorization-gate"})

	res, err := g.cfg.Authorizer.RequestAuthorization(ctx, types)
	if err != nil {
		logger.Errorf("health data unavailable, nothing will be fetched: %s", err)
		return Grant{granted: map[model.SampleType]bool{}}, err
	}

	granted := make(map[model.SampleType]bool, len(types))
	for _, st := range types {
		granted[st] = res[st]
		if !res[st] {
			logger.Warningf("read access to %s not granted", st)
		}
	}
	logger.Infof("read access granted to %d of %d sample types", len(Grant{granted: granted}.Granted()), len(types))

	return Grant{granted: granted}, nil
}
