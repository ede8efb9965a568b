package circuit

import _ "embed"

// Version is the release of the circuit module, embedded from VERSION.
//
//go:embed VERSION
var Version string
