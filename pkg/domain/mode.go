package domain

import "fmt"

// DispatchMode selects which outgoing edges receive a signal when a node fires.
type DispatchMode int

const (
	// Multicast sends a signal down every outgoing edge.
	Multicast DispatchMode = iota
	// RoundRobin sends one signal, cycling through outgoing edges in insertion order.
	RoundRobin
	// Random sends one signal down a uniformly chosen outgoing edge.
	Random
)

// Modes lists every dispatch mode in toggle order.
var Modes = []DispatchMode{Multicast, RoundRobin, Random}

var modeChars = map[DispatchMode]byte{
	Multicast:  'm',
	RoundRobin: 'o',
	Random:     'r',
}

var modeNames = map[DispatchMode]string{
	Multicast:  "multicast",
	RoundRobin: "round-robin",
	Random:     "random",
}

// Char returns the single-character code used by the circuit format.
func (m DispatchMode) Char() byte {
	return modeChars[m]
}

func (m DispatchMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DispatchMode(%d)", int(m))
}

// Next returns the following mode in toggle order, wrapping around.
func (m DispatchMode) Next() DispatchMode {
	return Modes[(int(m)+1)%len(Modes)]
}

// ParseModeChar is the inverse of Char.
func ParseModeChar(s string) (DispatchMode, error) {
	if len(s) == 1 {
		for m, c := range modeChars {
			if c == s[0] {
				return m, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ParseDispatchMode accepts a mode name ("multicast", "round-robin", "random").
func ParseDispatchMode(name string) (DispatchMode, error) {
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// MarshalText implements encoding.TextMarshaler so modes serialize by name.
func (m DispatchMode) MarshalText() ([]byte, error) {
	name, ok := modeNames[m]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DispatchMode) UnmarshalText(b []byte) error {
	mode, err := ParseDispatchMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}
