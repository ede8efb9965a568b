package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/internal/validator"
	"github.com/alexdmiller/sonic-circuit/pkg/adapters/memory"
	"github.com/alexdmiller/sonic-circuit/pkg/codec"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/share"
)

const pairToken = "0_0_C4_m_1~1_0_G4_m"

func call(t *testing.T, s *Server, method string, params any) map[string]any {
	t.Helper()
	msg, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	resp := s.MCPServer().HandleMessage(context.Background(), msg)
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Nil(t, out["error"], string(raw))
	return out
}

func TestToolsList(t *testing.T) {
	s := NewServer(WithShares(share.NewManager(memory.NewStore(), codec.New(domain.DefaultCellSize))))

	out := call(t, s, "tools/list", map[string]any{})
	raw, _ := json.Marshal(out["result"])
	for _, name := range []string{"validate_circuit", "simulate_circuit", "circuit_mermaid", "publish_circuit", "open_circuit"} {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}
}

func TestToolsList_WithoutShares(t *testing.T) {
	out := call(t, NewServer(), "tools/list", map[string]any{})
	raw, _ := json.Marshal(out["result"])
	assert.NotContains(t, string(raw), "publish_circuit")
}

func TestHandleValidate(t *testing.T) {
	s := NewServer()

	res, err := s.handleValidate(context.Background(), mcp.CallToolRequest{}, TokenArgs{Token: circuit.DemoToken})
	require.NoError(t, err)
	assert.Equal(t, ValidateResult{Valid: true, Nodes: 7, Edges: 7}, res)

	res, err = s.handleValidate(context.Background(), mcp.CallToolRequest{}, TokenArgs{Token: "0_0_C4_m~1_0_G4_x"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, 2, res.Line)

	res, err = s.handleValidate(context.Background(), mcp.CallToolRequest{}, TokenArgs{Token: "0_0_C4_m_1~0_0_D4_m"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, validator.Overlap, res.Warnings[0].Kind)
}

func TestHandleSimulate(t *testing.T) {
	s := NewServer()

	sim, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, SimulateArgs{
		Token: pairToken,
		Ticks: 13,
		Fires: []circuit.ScheduledFire{{Tick: 0, Node: 0}},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Pitch{"C4", "G4"}, sim.Pitches)

	_, err = s.handleSimulate(context.Background(), mcp.CallToolRequest{}, SimulateArgs{Token: pairToken, Ticks: -1})
	assert.Error(t, err)

	_, err = s.handleSimulate(context.Background(), mcp.CallToolRequest{}, SimulateArgs{
		Token: pairToken,
		Ticks: 1,
		Fires: []circuit.ScheduledFire{{Tick: 0, Node: 5}},
	})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	_, err = s.handleSimulate(context.Background(), mcp.CallToolRequest{}, SimulateArgs{
		Token: "0_0_C4_m_0_0",
		Ticks: MaxSimulationTicks,
		Fires: []circuit.ScheduledFire{{Tick: 0, Node: 0}},
	})
	assert.ErrorIs(t, err, circuit.ErrSimulationBudget)
}

func TestCallTool_Mermaid(t *testing.T) {
	out := call(t, NewServer(), "tools/call", map[string]any{
		"name":      "circuit_mermaid",
		"arguments": map[string]any{"token": pairToken},
	})
	raw, _ := json.Marshal(out["result"])
	assert.Contains(t, string(raw), "graph LR")
}

func TestPublishAndOpen(t *testing.T) {
	s := NewServer(WithShares(share.NewManager(memory.NewStore(), codec.New(domain.DefaultCellSize))))

	pub, err := s.handlePublish(context.Background(), mcp.CallToolRequest{}, TokenArgs{Token: pairToken})
	require.NoError(t, err)
	assert.Len(t, pub.ID, share.IDLength)

	got, err := s.handleOpen(context.Background(), mcp.CallToolRequest{}, PatchArgs{ID: pub.ID})
	require.NoError(t, err)
	assert.Equal(t, pub, got)

	_, err = s.handleOpen(context.Background(), mcp.CallToolRequest{}, PatchArgs{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrPatchNotFound)
}

func TestReadResource_Demo(t *testing.T) {
	out := call(t, NewServer(), "resources/read", map[string]any{"uri": "circuit://demo"})
	raw, _ := json.Marshal(out["result"])
	assert.Contains(t, string(raw), circuit.DemoToken)
}
