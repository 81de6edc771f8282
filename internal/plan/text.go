package plan

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pixlens/pixlens/internal/core"
)

// FromTextFile reads the textual plan format from a file.
func FromTextFile(path string) (*core.DrawPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plan: %w", err)
	}
	defer f.Close() // nolint:errcheck // read-only file

	p, err := FromText(f)
	if err != nil {
		return nil, fmt.Errorf("parse plan %s: %w", path, err)
	}
	return p, nil
}

// FromText parses the textual plan format: four header lines holding x, y,
// width, and height, then width*height hex colour lines in row-major order
// (horizontal scanlines, left to right, top to bottom). Every cell is
// opaque.
func FromText(r io.Reader) (*core.DrawPlan, error) {
	scanner := bufio.NewScanner(r)

	header := make([]int, 4)
	names := [4]string{"x", "y", "width", "height"}
	for i, name := range names {
		value, err := nextLine(scanner)
		if err != nil {
			return nil, fmt.Errorf("missing %s header line", name)
		}
		header[i], err = strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s header %q", name, value)
		}
	}

	x, y, width, height := header[0], header[1], header[2], header[3]
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid plan size %dx%d", width, height)
	}

	cells := make([][]core.PlanCell, height)
	for row := 0; row < height; row++ {
		cells[row] = make([]core.PlanCell, width)
		for col := 0; col < width; col++ {
			value, err := nextLine(scanner)
			if err != nil {
				return nil, fmt.Errorf("missing colour for cell (%d, %d)", col, row)
			}
			colour, err := core.PixelFromHex(value)
			if err != nil {
				return nil, err
			}
			cells[row][col] = core.PlanCell{Colour: colour, Opaque: true}
		}
	}

	return core.NewDrawPlan(x, y, cells)
}

func nextLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(scanner.Text()), nil
}
