// Package graph renders circuits as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

// Overlay marks live state on the chart.
type Overlay struct {
	// FiringThreshold is the excitement at or above which a node is styled as firing.
	FiringThreshold float64
}

// DefaultOverlay styles nodes that fired within the last few ticks.
var DefaultOverlay = &Overlay{FiringThreshold: 0.5}

// GenerateMermaid produces a Mermaid flowchart from a frame.
// Node shapes follow the dispatch mode:
//   - Multicast: ((Circle))
//   - RoundRobin: {{Hexagon}}
//   - Random: {Rhombus}
//
// Round-robin edges are labelled with their turn. With an overlay, firing
// nodes and edges carrying signals are highlighted.
func GenerateMermaid(frame domain.Frame, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	modes := make(map[int]domain.DispatchMode, len(frame.Nodes))
	for _, n := range frame.Nodes {
		modes[n.ID] = n.Mode
		opener, closer := shape(n.Mode)
		fmt.Fprintf(&sb, "    %s%s\"%s<br/>%s\"%s\n", nodeID(n.ID), opener, n.Pitch, n.Mode, closer)
	}

	turns := make(map[int]int)
	var busy []int
	for i, e := range frame.Edges {
		arrow := "-->"
		if modes[e.From] == domain.RoundRobin {
			turns[e.From]++
			arrow = fmt.Sprintf("-- \"%d\" -->", turns[e.From])
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(e.From), arrow, nodeID(e.To))
		if len(e.Progress) > 0 {
			busy = append(busy, i)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef firing fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, n := range frame.Nodes {
			if n.Excitement >= overlay.FiringThreshold && n.Excitement > 0 {
				fmt.Fprintf(&sb, "    class %s firing;\n", nodeID(n.ID))
			}
		}
		for _, i := range busy {
			fmt.Fprintf(&sb, "    linkStyle %d stroke:#01579b,stroke-width:3px;\n", i)
		}
	}

	return sb.String()
}

func shape(m domain.DispatchMode) (string, string) {
	switch m {
	case domain.RoundRobin:
		return "{{", "}}"
	case domain.Random:
		return "{", "}"
	default:
		return "((", "))"
	}
}

func nodeID(id int) string {
	return fmt.Sprintf("n%d", id)
}
