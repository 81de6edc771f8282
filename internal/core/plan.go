package core

import "errors"

// PlanCell is one target cell of a draw plan. Non-opaque cells are never
// written, whatever the canvas holds; they support irregular image shapes.
type PlanCell struct {
	Colour Pixel
	Opaque bool
}

// DrawPlan is a target image anchored at an origin on the canvas: a
// rectangular grid of cells with (X, Y) as its top-left corner. Immutable
// once constructed.
type DrawPlan struct {
	X     int
	Y     int
	cells [][]PlanCell
}

// NewDrawPlan validates that the cell grid is non-empty and rectangular.
func NewDrawPlan(x, y int, cells [][]PlanCell) (*DrawPlan, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, errors.New("draw plan has no cells")
	}

	width := len(cells[0])
	for _, row := range cells {
		if len(row) != width {
			return nil, errors.New("draw plan rows have uneven widths")
		}
	}

	return &DrawPlan{X: x, Y: y, cells: cells}, nil
}

// Width returns the plan width in cells.
func (p *DrawPlan) Width() int {
	return len(p.cells[0])
}

// Height returns the plan height in cells.
func (p *DrawPlan) Height() int {
	return len(p.cells)
}

// Bounds returns the exclusive bottom-right corner of the plan on the canvas.
func (p *DrawPlan) Bounds() (x1, y1 int) {
	return p.X + p.Width(), p.Y + p.Height()
}

// CellAt returns the cell covering canvas coordinate (x, y), which must lie
// inside the plan bounds.
func (p *DrawPlan) CellAt(x, y int) PlanCell {
	return p.cells[y-p.Y][x-p.X]
}
