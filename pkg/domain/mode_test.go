package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchMode_CharRoundTrip(t *testing.T) {
	for _, m := range Modes {
		got, err := ParseModeChar(string(m.Char()))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	assert.Equal(t, byte('m'), Multicast.Char())
	assert.Equal(t, byte('o'), RoundRobin.Char())
	assert.Equal(t, byte('r'), Random.Char())

	_, err := ParseModeChar("x")
	assert.ErrorIs(t, err, ErrUnknownMode)
	_, err = ParseModeChar("mo")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestDispatchMode_Next(t *testing.T) {
	assert.Equal(t, RoundRobin, Multicast.Next())
	assert.Equal(t, Random, RoundRobin.Next())
	assert.Equal(t, Multicast, Random.Next())
}

func TestDispatchMode_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Mode DispatchMode `json:"mode"`
	}{RoundRobin})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"round-robin"}`, string(b))

	var out struct {
		Mode DispatchMode `json:"mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"random"}`), &out))
	assert.Equal(t, Random, out.Mode)

	assert.Error(t, json.Unmarshal([]byte(`{"mode":"broadcast"}`), &out))
}
