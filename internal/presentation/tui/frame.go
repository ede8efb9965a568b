package tui

import (
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// Terminal columns and rows per grid cell.
const (
	colsPerCell = 4
	rowsPerCell = 2
)

// FrameRenderer draws frames as coloured text. It implements ports.Renderer.
type FrameRenderer struct {
	out      *termenv.Output
	w        io.Writer
	cellSize float64
	// Clear redraws in place instead of scrolling.
	Clear bool
	// MaxWidth clips lines; zero means the terminal width, if any.
	MaxWidth int
}

// NewFrameRenderer creates a renderer writing to w.
func NewFrameRenderer(w io.Writer, cellSize float64) *FrameRenderer {
	r := &FrameRenderer{
		out:      termenv.NewOutput(w),
		w:        w,
		cellSize: cellSize,
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.Clear = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			r.MaxWidth = width
		}
	}
	return r
}

type glyph struct {
	ch    rune
	color string
}

// Render draws frame.
func (r *FrameRenderer) Render(frame domain.Frame) error {
	grid := r.layout(frame)
	p := r.out.ColorProfile()

	var sb strings.Builder
	if r.Clear {
		r.out.ClearScreen()
	}
	for _, row := range grid {
		line := row
		if r.MaxWidth > 0 && len(line) > r.MaxWidth {
			line = line[:r.MaxWidth]
		}
		for _, g := range line {
			if g.color == "" {
				sb.WriteRune(g.ch)
				continue
			}
			sb.WriteString(termenv.String(string(g.ch)).Foreground(p.Color(g.color)).String())
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(r.w, strings.TrimRight(sb.String(), " \n")+"\n")
	return err
}

// Plain returns frame without colours, for logs and tests.
func (r *FrameRenderer) Plain(frame domain.Frame) string {
	grid := r.layout(frame)
	lines := make([]string, len(grid))
	for i, row := range grid {
		var sb strings.Builder
		for _, g := range row {
			sb.WriteRune(g.ch)
		}
		lines[i] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(lines, "\n")
}

func (r *FrameRenderer) layout(frame domain.Frame) [][]glyph {
	if len(frame.Nodes) == 0 {
		return nil
	}
	col := func(x float64) int { return int(domain.Round(x / r.cellSize * colsPerCell)) }
	row := func(y float64) int { return int(domain.Round(y / r.cellSize * rowsPerCell)) }

	minX, minY := col(frame.Nodes[0].Position.X), row(frame.Nodes[0].Position.Y)
	maxX, maxY := minX, minY
	for _, n := range frame.Nodes {
		x, y := col(n.Position.X), row(n.Position.Y)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}

	grid := make([][]glyph, maxY-minY+1)
	for i := range grid {
		grid[i] = make([]glyph, maxX-minX+1)
		for j := range grid[i] {
			grid[i][j] = glyph{ch: ' '}
		}
	}
	put := func(x, y int, g glyph) {
		y -= minY
		x -= minX
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = g
		}
	}

	for _, e := range frame.Edges {
		for _, s := range e.Signals {
			put(col(s.X), row(s.Y), glyph{ch: '*', color: "#facc15"})
		}
	}
	for _, n := range frame.Nodes {
		ch := rune(n.Mode.Char())
		color := "#64748b"
		if n.Excitement >= 0.5 {
			ch = rune(strings.ToUpper(string(ch))[0])
			color = "#f472b6"
		}
		put(col(n.Position.X), row(n.Position.Y), glyph{ch: ch, color: color})
	}
	return grid
}
