package domain

// Geometry defaults, in canvas units.
const (
	// DefaultCellSize is the grid spacing nodes snap to.
	DefaultCellSize = 25.0
	// DefaultSpeed is the distance a signal travels per tick.
	DefaultSpeed = 2.0
	// HitRadius is how close a point must be to a node's centre to select it.
	HitRadius = 5.0
)
