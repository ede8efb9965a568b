package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScale(t *testing.T) {
	require.Len(t, Scale, 29)
	assert.Equal(t, Pitch("A2"), Scale[0])
	assert.Equal(t, Pitch("B2"), Scale[1])
	assert.Equal(t, Pitch("C3"), Scale[2])
	assert.Equal(t, Pitch("A6"), Scale[28])
	assert.True(t, DefaultPitch.Valid())
}

func TestParsePitch(t *testing.T) {
	p, err := ParsePitch("G5")
	require.NoError(t, err)
	assert.Equal(t, Pitch("G5"), p)

	for _, bad := range []string{"", "H3", "C#4", "B6", "G2"} {
		_, err := ParsePitch(bad)
		assert.ErrorIs(t, err, ErrUnknownPitch, bad)
	}
}

func TestPitch_Step(t *testing.T) {
	assert.Equal(t, Pitch("F3"), Pitch("E3").Step(1))
	assert.Equal(t, Pitch("B2"), Pitch("C3").Step(-1))
	assert.Equal(t, Pitch("A2"), Pitch("C3").Step(-10))
	assert.Equal(t, Pitch("A6"), Pitch("C6").Step(10))
	assert.Equal(t, Pitch("F3"), Pitch("??").Step(1))
}

func TestPitch_Frequency(t *testing.T) {
	assert.InDelta(t, 440.0, Pitch("A4").Frequency(), 1e-9)
	assert.InDelta(t, 110.0, Pitch("A2").Frequency(), 1e-9)
	assert.InDelta(t, 261.6256, Pitch("C4").Frequency(), 1e-3)
	assert.Zero(t, Pitch("X9").Frequency())
}
