package dispatch

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

func fan(mode domain.DispatchMode, n int) (*domain.Node, []*domain.Edge) {
	src := domain.NewNode(domain.Pt(0, 0), domain.DefaultPitch, mode)
	edges := make([]*domain.Edge, n)
	for i := range edges {
		dst := domain.NewNode(domain.Pt(float64(i+1)*25, 0), domain.DefaultPitch, domain.Multicast)
		edges[i] = &domain.Edge{Start: src, End: dst}
		src.AttachOutgoing(edges[i])
	}
	return src, edges
}

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestMulticast_FansOutToEveryEdge(t *testing.T) {
	n, edges := fan(domain.Multicast, 3)

	emitted := Dispatch(n, seeded(1))
	assert.Equal(t, edges, emitted)
	for _, e := range edges {
		assert.Equal(t, []float64{0}, e.Signals)
	}
}

func TestRoundRobin_FairWithWrap(t *testing.T) {
	n, edges := fan(domain.RoundRobin, 3)

	var order []*domain.Edge
	for i := 0; i < 7; i++ {
		emitted := Dispatch(n, nil)
		require.Len(t, emitted, 1)
		order = append(order, emitted[0])
	}

	want := []*domain.Edge{edges[0], edges[1], edges[2], edges[0], edges[1], edges[2], edges[0]}
	assert.Equal(t, want, order)
	assert.Equal(t, 1, n.Cursor())
	assert.Len(t, edges[0].Signals, 3)
	assert.Len(t, edges[1].Signals, 2)
	assert.Len(t, edges[2].Signals, 2)
}

func TestRandom_SeededIsReproducible(t *testing.T) {
	pick := func() []int {
		n, _ := fan(domain.Random, 4)
		rng := seeded(7)
		var picks []int
		for i := 0; i < 20; i++ {
			p := Select(n, rng)
			require.Len(t, p.Targets, 1)
			require.GreaterOrEqual(t, p.Targets[0], 0)
			require.Less(t, p.Targets[0], 4)
			picks = append(picks, p.Targets[0])
		}
		return picks
	}
	assert.Equal(t, pick(), pick())
}

func TestRandom_LeavesCursorAlone(t *testing.T) {
	n, _ := fan(domain.Random, 3)
	n.SetCursor(2)
	Dispatch(n, seeded(3))
	assert.Equal(t, 2, n.Cursor())
}

func TestSelect_NoOutgoingIsNoOp(t *testing.T) {
	for _, mode := range domain.Modes {
		n, _ := fan(mode, 0)
		p := Select(n, seeded(1))
		assert.True(t, p.Empty(), mode.String())
		assert.Empty(t, Apply(n, p), mode.String())
		assert.Zero(t, n.Cursor(), mode.String())
	}
}

func TestSelect_IsPure(t *testing.T) {
	n, edges := fan(domain.RoundRobin, 2)
	p := Select(n, nil)
	assert.Equal(t, Plan{Targets: []int{0}, Cursor: 1}, p)
	assert.Zero(t, n.Cursor())
	assert.Empty(t, edges[0].Signals)
}
