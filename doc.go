/*
Package circuit is a small signal-propagation engine for generative music.

A circuit is a set of nodes on a grid connected by directed edges. Firing a
node plays its pitch and sends signals down some of its outgoing edges,
chosen by the node's dispatch mode:

  - multicast sends one signal down every outgoing edge;
  - round-robin sends one signal down the next edge in turn;
  - random sends one signal down a uniformly chosen edge.

Signals travel at a constant speed, one step per Tick, and fire the node at
the end of their edge when they get there. Cascades spread over many ticks,
so the host controls the tempo by how often it calls Tick.

The whole circuit serializes to a single URL-safe token (see Engine.Encode
and Open), suitable for a share link.

# Usage

	eng, err := circuit.Open(circuit.DemoToken, circuit.WithAudio(player))
	if err != nil {
		log.Fatal(err)
	}

	n, _ := eng.Store().Node(0)
	if _, err := eng.Fire(n); err != nil {
		log.Fatal(err)
	}

	for range 600 {
		eng.Tick()
	}

For real-time playback, Runner ticks at a fixed frame rate and hands each
frame to a ports.Renderer.
*/
package circuit
