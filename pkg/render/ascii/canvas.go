package ascii

import (
	"math"
	"strings"

	"github.com/matzehuels/tiletree/pkg/graph"
	"github.com/matzehuels/tiletree/pkg/tree"
)

// Default canvas size in cells.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Largest canvas size in cells. Larger requests are clamped.
const (
	MaxWidth  = 1000
	MaxHeight = 500
)

const (
	topLeft     = '┌'
	topRight    = '┐'
	bottomLeft  = '└'
	bottomRight = '┘'
	horizontal  = '─'
	vertical    = '│'
	solid       = '█'
)

// Options sets the canvas size. Zero values use the defaults; values above
// MaxWidth and MaxHeight are clamped.
type Options struct {
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return min(w, MaxWidth), min(h, MaxHeight)
}

// Box is one labeled rect to draw.
type Box struct {
	Label string
	Rect  tree.Rect
}

// Canvas is a grid of cells covering a rect in layout coordinates.
type Canvas struct {
	bounds tree.Rect
	cells  [][]rune
}

// NewCanvas creates a blank canvas mapping bounds onto the grid.
func NewCanvas(bounds tree.Rect, opts Options) *Canvas {
	w, h := opts.size()
	cells := make([][]rune, h)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", w))
	}
	return &Canvas{bounds: bounds, cells: cells}
}

// Draw frames b and writes its label inside the top-left corner. Boxes
// outside the bounds are clipped. Boxes too small for a frame are filled.
func (c *Canvas) Draw(b Box) {
	x0, y0, x1, y1, ok := c.project(b.Rect)
	if !ok {
		return
	}
	if x1-x0 < 1 || y1-y0 < 1 {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				c.cells[y][x] = solid
			}
		}
		return
	}

	for x := x0 + 1; x < x1; x++ {
		c.cells[y0][x] = horizontal
		c.cells[y1][x] = horizontal
	}
	for y := y0 + 1; y < y1; y++ {
		c.cells[y][x0] = vertical
		c.cells[y][x1] = vertical
		for x := x0 + 1; x < x1; x++ {
			c.cells[y][x] = ' '
		}
	}
	c.cells[y0][x0] = topLeft
	c.cells[y0][x1] = topRight
	c.cells[y1][x0] = bottomLeft
	c.cells[y1][x1] = bottomRight

	if y1-y0 < 2 {
		return
	}
	label := []rune(b.Label)
	if room := x1 - x0 - 1; len(label) > room {
		label = label[:room]
	}
	copy(c.cells[y0+1][x0+1:], label)
}

// project maps r to inclusive cell coordinates, clipped to the grid.
func (c *Canvas) project(r tree.Rect) (x0, y0, x1, y1 int, ok bool) {
	rows := len(c.cells)
	if rows == 0 || c.bounds.Empty() || r.Empty() {
		return 0, 0, 0, 0, false
	}
	cols := len(c.cells[0])
	sx := float64(cols) / c.bounds.Size.X
	sy := float64(rows) / c.bounds.Size.Y

	x0 = int(math.Round((r.Pos.X - c.bounds.Pos.X) * sx))
	y0 = int(math.Round((r.Pos.Y - c.bounds.Pos.Y) * sy))
	x1 = int(math.Round((r.Right()-c.bounds.Pos.X)*sx)) - 1
	y1 = int(math.Round((r.Bottom()-c.bounds.Pos.Y)*sy)) - 1

	x0, x1 = max(x0, 0), min(x1, cols-1)
	y0, y1 = max(y0, 0), min(y1, rows-1)
	return x0, y0, x1, y1, x0 <= x1 && y0 <= y1
}

// String returns the grid with trailing spaces trimmed from each row.
func (c *Canvas) String() string {
	lines := make([]string, len(c.cells))
	for i, row := range c.cells {
		lines[i] = strings.TrimRight(string(row), " ")
	}
	return strings.Join(lines, "\n")
}

// Render draws boxes in order onto a canvas covering bounds.
func Render(bounds tree.Rect, boxes []Box, opts Options) string {
	c := NewCanvas(bounds, opts)
	for _, b := range boxes {
		c.Draw(b)
	}
	return c.String()
}

// Boxes returns the window leaves of ws as boxes, labeled by handle.
func Boxes(s graph.Snapshot, ws int) []Box {
	wins := s.Windows(ws)
	out := make([]Box, len(wins))
	for i, n := range wins {
		out[i] = Box{Label: n.Window, Rect: n.Rect.ToTree()}
	}
	return out
}

// Workspace renders the windows of ws scaled to the workspace root's rect.
// It returns an empty canvas when ws has no root.
func Workspace(s graph.Snapshot, ws int, opts Options) string {
	var bounds tree.Rect
	for _, w := range s.Workspaces {
		if w.ID != ws {
			continue
		}
		if root, ok := s.Node(w.Root); ok {
			bounds = root.Rect.ToTree()
		}
	}
	return Render(bounds, Boxes(s, ws), opts)
}
