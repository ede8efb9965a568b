package domain

import (
	"fmt"
	"math"
)

// Pitch is a note name taken from Scale, e.g. "E3".
type Pitch string

// DefaultPitch is assigned to nodes created without an explicit pitch.
const DefaultPitch Pitch = "E3"

// Scale is the ordered set of pitches a node may play: A2 through A6 over the
// natural (white key) letters. The octave number increments at C.
var Scale = buildScale()

var scaleIndex = func() map[Pitch]int {
	idx := make(map[Pitch]int, len(Scale))
	for i, p := range Scale {
		idx[p] = i
	}
	return idx
}()

// semitone offsets of the natural letters from C.
var letterSemitones = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

func buildScale() []Pitch {
	letters := []byte("ABCDEFG")
	scale := make([]Pitch, 0, 29)
	octave := 2
	for i := 0; len(scale) < 29; i++ {
		l := letters[i%len(letters)]
		if l == 'C' && i > 0 {
			octave++
		}
		scale = append(scale, Pitch(fmt.Sprintf("%c%d", l, octave)))
	}
	return scale
}

// ParsePitch validates a pitch name against Scale.
func ParsePitch(name string) (Pitch, error) {
	p := Pitch(name)
	if _, ok := scaleIndex[p]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPitch, name)
	}
	return p, nil
}

// Valid reports whether p belongs to Scale.
func (p Pitch) Valid() bool {
	_, ok := scaleIndex[p]
	return ok
}

// Index returns the position of p in Scale, or -1.
func (p Pitch) Index() int {
	i, ok := scaleIndex[p]
	if !ok {
		return -1
	}
	return i
}

// Step moves delta positions along Scale, clamping at both ends.
// An unknown pitch steps from DefaultPitch.
func (p Pitch) Step(delta int) Pitch {
	i := p.Index()
	if i < 0 {
		i = DefaultPitch.Index()
	}
	i += delta
	if i < 0 {
		i = 0
	}
	if i >= len(Scale) {
		i = len(Scale) - 1
	}
	return Scale[i]
}

// Frequency returns the equal-tempered frequency in Hz, tuned to A4 = 440.
// It returns 0 for pitches outside Scale.
func (p Pitch) Frequency() float64 {
	if !p.Valid() {
		return 0
	}
	semis := letterSemitones[p[0]]
	octave := int(p[1] - '0')
	midi := (octave+1)*12 + semis
	return 440 * math.Pow(2, float64(midi-69)/12)
}

func (p Pitch) String() string {
	return string(p)
}
