package plain

import (
	"context"
	"fmt"
	"io"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/whaeuser/healthterm/internal/model"
)

// Config is the configuration of the plain renderer.
type Config struct {
	Out io.Writer
	// Now is the clock, used for testing.
	Now func() time.Time
}

func (c *Config) defaults() error {
	if c.Out == nil {
		return fmt.Errorf("output writer is required")
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

// Renderer writes every snapshot as a text table, one row per card.
type Renderer struct {
	cfg Config
	mu  sync.Mutex
}

// New returns a new plain text renderer.
func New(cfg Config) (*Renderer, error) {
	if err := cfg.defaults(); err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg}, nil
}

// Render satisfies publish.Subscriber interface.
func (r *Renderer) Render(_ context.Context, records []model.DisplayRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tw := tabwriter.NewWriter(r.cfg.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s\n", r.cfg.Now().Format(time.RFC3339))
	if len(records) == 0 {
		fmt.Fprintln(tw, "waiting for health data...")
		return tw.Flush()
	}

	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t(%s)\n", rec.Title, rec.Amount, rec.Subtitle, rec.Icon)
	}

	return tw.Flush()
}
