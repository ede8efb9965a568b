package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/internal/presentation/graph"
)

func TestGenerateMermaid_Demo(t *testing.T) {
	eng, err := circuit.Open(circuit.DemoToken)
	require.NoError(t, err)

	out := graph.GenerateMermaid(eng.Frame(), nil)

	assert.Contains(t, out, "graph LR\n")
	assert.Contains(t, out, `n0(("E5<br/>multicast"))`)
	assert.Contains(t, out, `n4{{"A2<br/>round-robin"}}`)
	assert.Contains(t, out, "n0 --> n1\n")
	assert.Contains(t, out, "n2 --> n4\n")
	assert.Contains(t, out, `n4 -- "1" --> n5`)
	assert.Contains(t, out, `n4 -- "2" --> n6`)
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	eng, err := circuit.Open("0_0_C4_r_1~1_0_D4_m")
	require.NoError(t, err)
	_, err = eng.Fire(eng.Nodes()[0])
	require.NoError(t, err)
	eng.Tick()

	out := graph.GenerateMermaid(eng.Frame(), graph.DefaultOverlay)

	assert.Contains(t, out, `n0{"C4<br/>random"}`)
	assert.Contains(t, out, "class n0 firing;")
	assert.NotContains(t, out, "class n1 firing;")
	assert.Contains(t, out, "linkStyle 0 ")
}
