package termdash

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mum4k/termdash"
	"github.com/mum4k/termdash/cell"
	"github.com/mum4k/termdash/container"
	"github.com/mum4k/termdash/container/grid"
	"github.com/mum4k/termdash/keyboard"
	"github.com/mum4k/termdash/linestyle"
	"github.com/mum4k/termdash/terminal/termbox"
	"github.com/mum4k/termdash/terminal/terminalapi"
	"github.com/mum4k/termdash/widgets/text"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/log"
	"github.com/whaeuser/healthterm/internal/view/render"
)

const (
	rootID          = "root"
	defColumns      = 2
	defRedrawPeriod = 250 * time.Millisecond
)

// Config is the configuration of the termdash renderer.
type Config struct {
	// Columns is the number of cards per row.
	Columns int
	// RedrawInterval is the interval the terminal is redrawn.
	RedrawInterval time.Duration
	Logger         log.Logger
}

func (c *Config) defaults() {
	if c.Columns <= 0 {
		c.Columns = defColumns
	}
	if c.RedrawInterval <= 0 {
		c.RedrawInterval = defRedrawPeriod
	}
	if c.Logger == nil {
		c.Logger = log.Dummy
	}
}

// Renderer renders the records as a grid of cards on the terminal using
// termdash.
type Renderer struct {
	cfg  Config
	term *termbox.Terminal
	root *container.Container

	mu sync.Mutex
}

// New returns a new termdash renderer that takes the terminal.
func New(cfg Config) (*Renderer, error) {
	cfg.defaults()

	t, err := termbox.New(termbox.ColorMode(terminalapi.ColorMode256))
	if err != nil {
		return nil, fmt.Errorf("could not create termbox terminal: %w", err)
	}

	root, err := container.New(t,
		container.ID(rootID),
		container.Border(linestyle.Light),
		container.BorderTitle(" healthterm (q to quit) "),
	)
	if err != nil {
		t.Close()
		return nil, fmt.Errorf("could not create root container: %w", err)
	}

	r := &Renderer{
		cfg:  cfg,
		term: t,
		root: root,
	}

	return r, nil
}

// Close restores the terminal.
func (r *Renderer) Close() {
	r.term.Close()
}

// Run draws the terminal until the context is done or the quit key is
// pressed. It blocks.
func (r *Renderer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	quitter := func(k *terminalapi.Keyboard) {
		if k.Key == 'q' || k.Key == 'Q' || k.Key == keyboard.KeyEsc {
			r.cfg.Logger.Infof("quit requested from the terminal")
			cancel()
		}
	}

	return termdash.Run(ctx, r.term, r.root,
		termdash.KeyboardSubscriber(quitter),
		termdash.RedrawInterval(r.cfg.RedrawInterval),
	)
}

// Render satisfies publish.Subscriber interface.
func (r *Renderer) Render(_ context.Context, records []model.DisplayRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(records) == 0 {
		w, err := text.New()
		if err != nil {
			return err
		}
		if err := w.Write("waiting for health data..."); err != nil {
			return err
		}
		return r.root.Update(rootID, container.PlaceWidget(w))
	}

	opts, err := r.gridOpts(records)
	if err != nil {
		return err
	}

	return r.root.Update(rootID, opts...)
}

func (r *Renderer) gridOpts(records []model.DisplayRecord) ([]container.Option, error) {
	cols := r.cfg.Columns
	rows := splitRows(records, cols)

	builder := grid.New()
	for _, row := range rows {
		rowElems := []grid.Element{}
		for _, rec := range row {
			el, err := card(rec)
			if err != nil {
				return nil, err
			}
			if cols == 1 {
				rowElems = append(rowElems, el)
				continue
			}
			rowElems = append(rowElems, grid.ColWidthPerc(100/cols, el))
		}

		if len(rows) == 1 {
			builder.Add(rowElems...)
			continue
		}
		builder.Add(grid.RowHeightPerc(100/len(rows), rowElems...))
	}

	return builder.Build()
}

// splitRows splits the records in rows of cols records, the last row can
// have less.
func splitRows(records []model.DisplayRecord, cols int) [][]model.DisplayRecord {
	rows := [][]model.DisplayRecord{}
	for start := 0; start < len(records); start += cols {
		end := start + cols
		if end > len(records) {
			end = len(records)
		}
		rows = append(rows, records[start:end])
	}
	return rows
}

// card returns the grid element of a record.
func card(rec model.DisplayRecord) (grid.Element, error) {
	r, g, b := render.AccentColor(rec.Key)
	color := cell.ColorRGB24(int(r), int(g), int(b))

	w, err := text.New()
	if err != nil {
		return nil, err
	}

	writes := []struct {
		txt  string
		opts []text.WriteOption
	}{
		{txt: rec.Icon + "\n\n", opts: []text.WriteOption{text.WriteCellOpts(cell.FgColor(color))}},
		{txt: rec.Amount + "\n", opts: []text.WriteOption{text.WriteCellOpts(cell.FgColor(cell.ColorWhite))}},
		{txt: rec.Subtitle},
	}
	for _, wr := range writes {
		if err := w.Write(wr.txt, wr.opts...); err != nil {
			return nil, err
		}
	}

	return grid.Widget(w,
		container.Border(linestyle.Light),
		container.BorderColor(color),
		container.BorderTitle(" "+rec.Title+" "),
	), nil
}
