/*
Package domain contains the core model of a circuit: nodes, edges, pitches,
dispatch modes and the events the signal engine emits.

It is kept free of I/O and persistence so the engine, codec and adapters can
share it.

# Key Entities

  - Node: a grid point that plays a Pitch and dispatches signals per its DispatchMode.
  - Edge: a directed connection holding the progress of in-flight signals.
  - Frame: a read-only snapshot handed to renderers.
  - DecodeError: the single error type produced by malformed circuit tokens.
*/
package domain
