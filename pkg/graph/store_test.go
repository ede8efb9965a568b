package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexdmiller/sonic-circuit/pkg/domain"
)

func TestStore_AddEdge_RequiresMembers(t *testing.T) {
	s := New()
	a := s.AddNode(domain.Pt(0, 0), domain.DefaultPitch, domain.Multicast)
	stranger := domain.NewNode(domain.Pt(25, 0), domain.DefaultPitch, domain.Multicast)

	_, err := s.AddEdge(a, stranger)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	_, err = s.AddEdge(nil, a)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.Zero(t, s.EdgeCount())

	loop, err := s.AddEdge(a, a)
	require.NoError(t, err)
	assert.Zero(t, loop.Length())
	assert.Equal(t, []*domain.Edge{loop}, a.Outgoing())
}

func TestStore_RemoveNode_Cascades(t *testing.T) {
	s := New()
	a := s.AddNode(domain.Pt(0, 0), domain.DefaultPitch, domain.Multicast)
	b := s.AddNode(domain.Pt(25, 0), domain.DefaultPitch, domain.Multicast)
	c := s.AddNode(domain.Pt(50, 0), domain.DefaultPitch, domain.Multicast)

	ab, _ := s.AddEdge(a, b)
	_, _ = s.AddEdge(b, c)
	_, _ = s.AddEdge(c, b)
	ca, _ := s.AddEdge(c, a)
	_, _ = s.AddEdge(b, b)

	require.True(t, s.RemoveNode(b))
	assert.False(t, s.RemoveNode(b))

	assert.Equal(t, []*domain.Node{a, c}, s.Nodes())
	assert.Equal(t, []*domain.Edge{ca}, s.Edges())
	assert.Empty(t, a.Outgoing())
	assert.Equal(t, []*domain.Edge{ca}, c.Outgoing())
	for _, e := range s.Edges() {
		assert.True(t, s.Contains(e.Start))
		assert.True(t, s.Contains(e.End))
	}
	assert.NotContains(t, s.Edges(), ab)
}

func TestStore_RemoveNode_RepairsCursor(t *testing.T) {
	s := New()
	hub := s.AddNode(domain.Pt(0, 0), domain.DefaultPitch, domain.RoundRobin)
	var leaves []*domain.Node
	for i := 1; i <= 3; i++ {
		leaf := s.AddNode(domain.Pt(float64(i)*25, 0), domain.DefaultPitch, domain.Multicast)
		_, err := s.AddEdge(hub, leaf)
		require.NoError(t, err)
		leaves = append(leaves, leaf)
	}
	hub.SetCursor(2)

	s.RemoveNode(leaves[2])
	require.Len(t, hub.Outgoing(), 2)
	assert.Less(t, hub.Cursor(), len(hub.Outgoing()))

	s.RemoveNode(leaves[0])
	s.RemoveNode(leaves[1])
	assert.Zero(t, hub.Cursor())
	assert.Empty(t, hub.Outgoing())
}

func TestStore_RemoveEdge(t *testing.T) {
	s := New()
	a := s.AddNode(domain.Pt(0, 0), domain.DefaultPitch, domain.Multicast)
	b := s.AddNode(domain.Pt(25, 0), domain.DefaultPitch, domain.Multicast)
	first, _ := s.AddEdge(a, b)
	second, _ := s.AddEdge(a, b)

	assert.True(t, s.RemoveEdge(first))
	assert.False(t, s.RemoveEdge(first))
	assert.Equal(t, []*domain.Edge{second}, a.Outgoing())
	assert.Equal(t, 1, s.EdgeCount())
}

func TestStore_SignalsAndReset(t *testing.T) {
	s := New()
	a := s.AddNode(domain.Pt(0, 0), domain.DefaultPitch, domain.Multicast)
	b := s.AddNode(domain.Pt(25, 0), domain.DefaultPitch, domain.Multicast)
	e, _ := s.AddEdge(a, b)
	e.Emit()
	e.Emit()
	assert.Equal(t, 2, s.SignalCount())

	s.ClearAllSignals()
	assert.Zero(t, s.SignalCount())
}

func TestStore_ReindexAndNode(t *testing.T) {
	s := New()
	a := s.AddNode(domain.Pt(0, 0), domain.DefaultPitch, domain.Multicast)
	b := s.AddNode(domain.Pt(25, 0), domain.DefaultPitch, domain.Multicast)
	c := s.AddNode(domain.Pt(50, 0), domain.DefaultPitch, domain.Multicast)

	s.RemoveNode(a)
	assert.Equal(t, 2, c.ID)
	s.Reindex()
	assert.Equal(t, 0, b.ID)
	assert.Equal(t, 1, c.ID)

	got, err := s.Node(1)
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = s.Node(2)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestStore_NodeAt(t *testing.T) {
	s := New()
	a := s.AddNode(domain.Pt(100, 100), domain.DefaultPitch, domain.Multicast)

	got, ok := s.NodeAt(domain.Pt(103, 103), domain.HitRadius)
	require.True(t, ok)
	assert.Same(t, a, got)

	_, ok = s.NodeAt(domain.Pt(105, 100), domain.HitRadius)
	assert.False(t, ok, "the radius is exclusive")
}

func TestStore_MoveNodeSnaps(t *testing.T) {
	s := New()
	a := s.AddNode(domain.Pt(0, 0), domain.DefaultPitch, domain.Multicast)

	require.NoError(t, s.MoveNode(a, domain.Pt(62, 13), 25))
	assert.Equal(t, domain.Pt(50, 25), a.Position)

	stranger := domain.NewNode(domain.Pt(0, 0), domain.DefaultPitch, domain.Multicast)
	assert.ErrorIs(t, s.MoveNode(stranger, domain.Pt(0, 0), 25), domain.ErrNodeNotFound)
}

func TestStore_Replace(t *testing.T) {
	s := New()
	s.AddNode(domain.Pt(0, 0), domain.DefaultPitch, domain.Multicast)

	other := New()
	x := other.AddNode(domain.Pt(25, 25), "A3", domain.Random)
	y := other.AddNode(domain.Pt(50, 25), "B3", domain.Random)
	_, _ = other.AddEdge(x, y)

	s.Replace(other)
	assert.Equal(t, []*domain.Node{x, y}, s.Nodes())
	assert.Equal(t, 1, s.EdgeCount())
	assert.Zero(t, other.Len())
}
