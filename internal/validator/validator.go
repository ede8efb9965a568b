// Package validator lints circuits for wiring that decodes fine but is
// probably a mistake.
package validator

import (
	"fmt"
	"strings"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/graph"
)

// Kind names a class of finding.
type Kind string

const (
	// Isolated nodes have no edges at all and only sound when fired by hand.
	Isolated Kind = "isolated"
	// Overlap means two nodes share a position; only the first can be clicked.
	Overlap Kind = "overlap"
	// SelfLoop edges fire their node on every tick.
	SelfLoop Kind = "self-loop"
	// DuplicateEdge is a second edge between the same pair of nodes.
	DuplicateEdge Kind = "duplicate-edge"
	// Runaway marks a multicast node with more than one branch leading back
	// to itself; the number of signals in flight grows every lap.
	Runaway Kind = "runaway"
)

// Finding is a single lint result.
type Finding struct {
	Kind    Kind   `json:"kind"`
	Nodes   []int  `json:"nodes"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Lint inspects s and returns its findings in node order. It re-indexes s.
func Lint(s *graph.Store) []Finding {
	s.Reindex()
	var findings []Finding

	incoming := make(map[*domain.Node]int)
	for _, e := range s.Edges() {
		incoming[e.End]++
	}

	seenAt := make(map[domain.Point]*domain.Node)
	for _, n := range s.Nodes() {
		if len(n.Outgoing()) == 0 && incoming[n] == 0 {
			findings = append(findings, Finding{
				Kind:    Isolated,
				Nodes:   []int{n.ID},
				Message: fmt.Sprintf("node %d has no edges", n.ID),
			})
		}

		if first, ok := seenAt[n.Position]; ok {
			findings = append(findings, Finding{
				Kind:    Overlap,
				Nodes:   []int{first.ID, n.ID},
				Message: fmt.Sprintf("nodes %d and %d share position (%g, %g)", first.ID, n.ID, n.Position.X, n.Position.Y),
			})
		} else {
			seenAt[n.Position] = n
		}

		targets := make(map[*domain.Node]bool)
		for _, e := range n.Outgoing() {
			switch {
			case e.End == n:
				findings = append(findings, Finding{
					Kind:    SelfLoop,
					Nodes:   []int{n.ID},
					Message: fmt.Sprintf("node %d is wired to itself", n.ID),
				})
			case targets[e.End]:
				findings = append(findings, Finding{
					Kind:    DuplicateEdge,
					Nodes:   []int{n.ID, e.End.ID},
					Message: fmt.Sprintf("node %d is wired to node %d more than once", n.ID, e.End.ID),
				})
			}
			targets[e.End] = true
		}

		if n.Mode() == domain.Multicast {
			if back := returningBranches(n); back > 1 {
				findings = append(findings, Finding{
					Kind:    Runaway,
					Nodes:   []int{n.ID},
					Message: fmt.Sprintf("multicast node %d has %d branches leading back to it", n.ID, back),
				})
			}
		}
	}
	return findings
}

// Check runs Lint and folds the findings into a single error.
func Check(s *graph.Store) error {
	findings := Lint(s)
	if len(findings) == 0 {
		return nil
	}
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = f.String()
	}
	return fmt.Errorf("found %d problems:\n- %s", len(findings), strings.Join(lines, "\n- "))
}

// returningBranches counts the outgoing edges of n from which n is reachable.
func returningBranches(n *domain.Node) int {
	count := 0
	for _, e := range n.Outgoing() {
		if reaches(e.End, n) {
			count++
		}
	}
	return count
}

// reaches walks the graph breadth-first from start looking for target.
func reaches(start, target *domain.Node) bool {
	visited := map[*domain.Node]bool{start: true}
	queue := []*domain.Node{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == target {
			return true
		}
		for _, e := range current.Outgoing() {
			if !visited[e.End] {
				visited[e.End] = true
				queue = append(queue, e.End)
			}
		}
	}
	return false
}
