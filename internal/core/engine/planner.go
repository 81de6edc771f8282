package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"go.uber.org/zap"

	"github.com/pixlens/pixlens/internal/core"
)

// ScanOrder controls the traversal order of plan cells.
type ScanOrder int

const (
	// ColumnMajor scans top-to-bottom within each column, left to right.
	ColumnMajor ScanOrder = iota
	// RowMajor scans left-to-right within each row, top to bottom.
	RowMajor
)

// ParseScanOrder maps the config/flag value to a ScanOrder.
func ParseScanOrder(value string) (ScanOrder, error) {
	switch value {
	case "", "column", "column-major":
		return ColumnMajor, nil
	case "row", "row-major":
		return RowMajor, nil
	default:
		return ColumnMajor, fmt.Errorf("unknown scan order %q", value)
	}
}

// CanvasClient is the subset of the API client the planner needs.
type CanvasClient interface {
	Canvas(ctx context.Context) (*core.Canvas, error)
	PutPixel(ctx context.Context, x, y int, colour core.Pixel) (string, error)
}

// DefaultLoopInterval is the pause between convergence checks when
// DrawAndFix runs in persistent mode.
const DefaultLoopInterval = time.Second

// Planner converges a region of the remote canvas toward a fixed draw plan
// with the minimum number of writes. Pixel writes are strictly sequential:
// each depends on up-to-date rate limit and canvas state.
type Planner struct {
	Client CanvasClient
	Plan   *core.DrawPlan
	Order  ScanOrder
	// LoopInterval overrides DefaultLoopInterval in persistent mode.
	LoopInterval time.Duration
	Logger       *logging.Logger
	// Sleep replaces the persistent-mode pause, for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Draw runs a single pass over the plan, attempting each opaque cell at most
// once: cells already matching the cached snapshot are skipped, mismatching
// cells get exactly one write. It aborts on the first write error.
func (p *Planner) Draw(ctx context.Context) error {
	canvas := p.snapshot(ctx)

	for x, y := range p.coords() {
		if err := ctx.Err(); err != nil {
			return err
		}

		wrote, err := p.fixCell(ctx, canvas, x, y)
		if err != nil {
			return err
		}
		if wrote {
			canvas = p.snapshot(ctx)
		}
	}
	return nil
}

// DrawAndFix repeatedly re-fetches the canvas and re-scans the plan, writing
// the first mismatching opaque cell it finds and restarting the scan, so
// that externally overwritten pixels are re-fixed before the pass continues.
// A scan with zero mismatches finishes one-shot mode; with forever set, the
// planner sleeps for LoopInterval and keeps re-asserting the image.
func (p *Planner) DrawAndFix(ctx context.Context, forever bool) error {
	for {
		canvas := p.snapshot(ctx)

		wrote, err := p.fixFirst(ctx, canvas)
		if err != nil {
			var serverErr *core.ServerError
			if forever && errors.As(err, &serverErr) {
				// Transient by contract; the persistent loop retries at
				// scan granularity.
				if p.Logger != nil {
					p.Logger.Warn("Write failed, retrying next scan", zap.Error(err))
				}
				if err := p.pause(ctx); err != nil {
					return err
				}
				continue
			}
			return err
		}

		if wrote {
			continue
		}

		if !forever {
			return nil
		}
		if p.Logger != nil {
			p.Logger.Info("Entire image is correct, pausing before next scan")
		}
		if err := p.pause(ctx); err != nil {
			return err
		}
	}
}

// fixFirst scans the plan and writes the first mismatching opaque cell.
func (p *Planner) fixFirst(ctx context.Context, canvas *core.Canvas) (bool, error) {
	for x, y := range p.coords() {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		wrote, err := p.fixCell(ctx, canvas, x, y)
		if err != nil || wrote {
			return wrote, err
		}
	}
	return false, nil
}

// fixCell writes the plan colour at (x, y) unless the cell is non-opaque or
// the snapshot already shows the right colour. Without a snapshot it cannot
// tell, so it writes.
func (p *Planner) fixCell(ctx context.Context, canvas *core.Canvas, x, y int) (bool, error) {
	cell := p.Plan.CellAt(x, y)
	if !cell.Opaque {
		return false, nil
	}

	if canvas != nil && canvas.Contains(x, y) && canvas.At(x, y) == cell.Colour {
		if p.Logger != nil {
			p.Logger.Debug("Skipping already correct pixel",
				zap.Int("x", x), zap.Int("y", y))
		}
		return false, nil
	}

	if _, err := p.Client.PutPixel(ctx, x, y, cell.Colour); err != nil {
		return false, err
	}
	return true, nil
}

// snapshot fetches the canvas best-effort. When the read endpoint is
// unavailable the planner degrades to always-write rather than failing.
func (p *Planner) snapshot(ctx context.Context) *core.Canvas {
	canvas, err := p.Client.Canvas(ctx)
	if err != nil {
		if p.Logger != nil {
			p.Logger.Warn("Canvas fetch failed, drawing without a snapshot", zap.Error(err))
		}
		return nil
	}
	return canvas
}

// coords iterates plan coordinates in the configured scan order.
func (p *Planner) coords() func(yield func(x, y int) bool) {
	x1, y1 := p.Plan.Bounds()
	return func(yield func(x, y int) bool) {
		if p.Order == RowMajor {
			for y := p.Plan.Y; y < y1; y++ {
				for x := p.Plan.X; x < x1; x++ {
					if !yield(x, y) {
						return
					}
				}
			}
			return
		}
		for x := p.Plan.X; x < x1; x++ {
			for y := p.Plan.Y; y < y1; y++ {
				if !yield(x, y) {
					return
				}
			}
		}
	}
}

func (p *Planner) pause(ctx context.Context) error {
	interval := p.LoopInterval
	if interval <= 0 {
		interval = DefaultLoopInterval
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return sleep(ctx, interval)
}
