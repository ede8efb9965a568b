package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	circuit "github.com/alexdmiller/sonic-circuit"
	"github.com/alexdmiller/sonic-circuit/pkg/domain"
	"github.com/alexdmiller/sonic-circuit/pkg/share"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "circuit version "+strings.TrimSpace(circuit.Version)+"\n", out)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "(7 nodes, 7 edges)")
}

func TestValidate_Strict(t *testing.T) {
	out, err := execute(t, "validate", "0_0_C4_m_0")
	require.NoError(t, err)
	assert.Contains(t, out, "self-loop: node 0 is wired to itself")

	_, err = execute(t, "validate", "--strict", "0_0_C4_m_0")
	assert.ErrorContains(t, err, "1 lint findings")

	_, err = execute(t, "validate", "--strict", "demo")
	assert.NoError(t, err)
}

func TestValidate_ReportsLine(t *testing.T) {
	_, err := execute(t, "validate", "0_0_C4_m~0_1_H9_m")
	assert.ErrorContains(t, err, "line 2")
}

func TestSimulateJSON(t *testing.T) {
	out, err := execute(t, "simulate", "0_0_C4_m_1~1_0_G4_m", "--ticks", "13", "--fire", "0", "--json")
	require.NoError(t, err)

	var sim circuit.Simulation
	require.NoError(t, json.Unmarshal([]byte(out), &sim))
	assert.Equal(t, []domain.Pitch{"C4", "G4"}, sim.Pitches)
}

func TestGraph(t *testing.T) {
	out, err := execute(t, "graph", "0_0_C4_o_1~1_0_G4_m")
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR\n")
	assert.Contains(t, out, `n0 -- "1" --> n1`)
}

func TestSharePublish(t *testing.T) {
	out, err := execute(t, "share", "publish", "0_0_C4_m")
	require.NoError(t, err)
	assert.Len(t, strings.TrimSpace(out), share.IDLength)
}
