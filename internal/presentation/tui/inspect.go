package tui

import (
	"fmt"
	"strings"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// Inspect summarizes a circuit as markdown: one table row per node and the
// travel time of every edge at the given speed.
func Inspect(frame domain.Frame, cellSize, speed float64) string {
	var sb strings.Builder

	signals := 0
	for _, e := range frame.Edges {
		signals += len(e.Progress)
	}
	fmt.Fprintf(&sb, "# Circuit\n\n%d nodes, %d edges, %d signals in flight.\n\n", len(frame.Nodes), len(frame.Edges), signals)

	out := make(map[int]int)
	in := make(map[int]int)
	for _, e := range frame.Edges {
		out[e.From]++
		in[e.To]++
	}

	sb.WriteString("## Nodes\n\n")
	sb.WriteString("| id | cell | pitch | Hz | mode | in | out |\n")
	sb.WriteString("|---:|:----:|:-----:|---:|:-----|---:|----:|\n")
	for _, n := range frame.Nodes {
		cx, cy := n.Position.Cell(cellSize)
		fmt.Fprintf(&sb, "| %d | %d,%d | %s | %.1f | %s | %d | %d |\n",
			n.ID, cx, cy, n.Pitch, n.Pitch.Frequency(), n.Mode, in[n.ID], out[n.ID])
	}

	if len(frame.Edges) == 0 {
		return sb.String()
	}

	sb.WriteString("\n## Edges\n\n")
	sb.WriteString("| from | to | length | ticks |\n")
	sb.WriteString("|---:|---:|---:|---:|\n")
	for _, e := range frame.Edges {
		length := e.Start.Dist(e.End)
		fmt.Fprintf(&sb, "| %d | %d | %.1f | %d |\n", e.From, e.To, length, TravelTicks(length, speed))
	}
	return sb.String()
}

// TravelTicks is the number of ticks a signal spends on an edge of the
// given length: it arrives once its progress is strictly past the end.
func TravelTicks(length, speed float64) int {
	if speed <= 0 {
		return 0
	}
	return int(length/speed) + 1
}
