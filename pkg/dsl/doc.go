/*
Package dsl provides a Go DSL for programmatically constructing circuits.

Nodes are named, placed on grid cells and wired with Go. Build resolves the
names and returns a graph store; Token encodes it for sharing.

Example usage:

	b := dsl.New()
	b.Add("kick").At(0, 0).Pitch("C3").Go("snare")
	b.Add("snare").At(4, 0).Pitch("E3").RoundRobin().Go("kick", "hat")
	b.Add("hat").At(4, 3).Pitch("G4")

	token, err := b.Token()
	if err != nil {
		return err
	}
	eng, err := circuit.Open(token)
*/
package dsl
