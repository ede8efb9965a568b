// Package codec serializes a circuit to a compact, deterministic text token
// that is safe to embed in a URL path or query component.
//
// The text form has one line per node, in store order:
//
//	<cellX> <cellY> <pitch> <modeChar> <targetId> <targetId> ...
//
// where target ids are the line indices of the ends of the node's outgoing
// edges, in outgoing order. The token form replaces newlines with LineSep and
// the remaining whitespace with FieldSep. In-flight signals are never encoded.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/graph"
)

const (
	// LineSep separates node lines in a token.
	LineSep = "~"
	// FieldSep separates fields within a node line in a token.
	FieldSep = "_"
)

const minFields = 4

// Codec converts between a graph store and its text forms.
// The cell size is fixed when the codec is created.
type Codec struct {
	cellSize float64
}

// New creates a codec for the given grid spacing.
func New(cellSize float64) *Codec {
	return &Codec{cellSize: cellSize}
}

// CellSize returns the grid spacing used for position quantization.
func (c *Codec) CellSize() float64 { return c.cellSize }

// Marshal renders the multi-line text form. It re-indexes the store's nodes.
func (c *Codec) Marshal(s *graph.Store) string {
	s.Reindex()
	var sb strings.Builder
	for i, n := range s.Nodes() {
		if i > 0 {
			sb.WriteByte('\n')
		}
		cx, cy := n.Position.Cell(c.cellSize)
		fmt.Fprintf(&sb, "%d %d %s %c", cx, cy, n.Pitch, n.Mode().Char())
		for _, e := range n.Outgoing() {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Itoa(e.End.ID))
		}
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}

// Encode renders the single-token form.
func (c *Codec) Encode(s *graph.Store) string {
	return Tokenize(c.Marshal(s))
}

// Decode parses a token produced by Encode. The empty token decodes to an
// empty store. Any malformed line fails the whole document with a
// *domain.DecodeError.
func (c *Codec) Decode(token string) (*graph.Store, error) {
	return c.Unmarshal(Detokenize(token))
}

// Unmarshal parses the multi-line text form.
func (c *Codec) Unmarshal(text string) (*graph.Store, error) {
	text = strings.TrimSpace(text)
	store := graph.New()
	if text == "" {
		return store, nil
	}

	lines := strings.Split(text, "\n")
	fields := make([][]string, len(lines))

	// Pass 1: nodes. Edges need every node to exist first.
	for i, line := range lines {
		f := strings.Fields(line)
		if len(f) < minFields {
			return nil, &domain.DecodeError{
				Line:   i + 1,
				Reason: fmt.Sprintf("expected at least %d fields, got %d", minFields, len(f)),
				Err:    domain.ErrMalformedLine,
			}
		}
		cx, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, &domain.DecodeError{Line: i + 1, Reason: "invalid x coordinate", Err: unwrapNum(err)}
		}
		cy, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, &domain.DecodeError{Line: i + 1, Reason: "invalid y coordinate", Err: unwrapNum(err)}
		}
		pitch, err := domain.ParsePitch(f[2])
		if err != nil {
			return nil, &domain.DecodeError{Line: i + 1, Reason: "invalid pitch", Err: err}
		}
		mode, err := domain.ParseModeChar(f[3])
		if err != nil {
			return nil, &domain.DecodeError{Line: i + 1, Reason: "invalid mode", Err: err}
		}
		store.AddNode(domain.FromCell(cx, cy, c.cellSize), pitch, mode)
		fields[i] = f[minFields:]
	}

	// Pass 2: edges, in listed order so round-robin replays identically.
	nodes := store.Nodes()
	for i, targets := range fields {
		for _, t := range targets {
			id, err := strconv.Atoi(t)
			if err != nil {
				return nil, &domain.DecodeError{Line: i + 1, Reason: "invalid edge target", Err: unwrapNum(err)}
			}
			if id < 0 || id >= len(nodes) {
				return nil, &domain.DecodeError{
					Line:   i + 1,
					Reason: fmt.Sprintf("target %d not in [0,%d)", id, len(nodes)),
					Err:    domain.ErrTargetOutOfRange,
				}
			}
			if _, err := store.AddEdge(nodes[i], nodes[id]); err != nil {
				return nil, &domain.DecodeError{Line: i + 1, Reason: "invalid edge", Err: err}
			}
		}
	}
	return store, nil
}

// Validate reports whether token decodes cleanly.
func (c *Codec) Validate(token string) error {
	_, err := c.Decode(token)
	return err
}

// Tokenize turns the multi-line text form into a single token.
func Tokenize(text string) string {
	text = strings.TrimRight(text, " \t\r\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), FieldSep)
	}
	return strings.Join(lines, LineSep)
}

// Detokenize is the inverse of Tokenize.
func Detokenize(token string) string {
	r := strings.NewReplacer(LineSep, "\n", FieldSep, " ")
	return r.Replace(token)
}

func unwrapNum(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return fmt.Errorf("%q: %w", numErr.Num, numErr.Err)
	}
	return err
}
