/*
Package ports defines the driven ports (interfaces) of the circuit engine.

These interfaces decouple the propagation core from the host: audio output,
rendering and storage of shared patches are supplied by adapters.

# Key Interfaces

  - AudioPlayer: plays a pitch, fire-and-forget, every time a node fires.
  - Renderer: draws a domain.Frame.
  - PatchStore: persists encoded circuit tokens under short ids.
  - DistributedLocker: serializes writes to the same patch id across replicas.
*/
package ports
