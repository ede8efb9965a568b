package domain

import "math"

// Point is a position on the canvas, in canvas units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Lerp returns the point reached after travelling distance d from p towards q.
// When p and q coincide the result is p.
func (p Point) Lerp(q Point, d float64) Point {
	length := p.Dist(q)
	if length == 0 {
		return p
	}
	t := d / length
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Round rounds half up, like the browser host the circuit format was born in.
// math.Round rounds half away from zero, which disagrees for negative halves.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Cell returns the integer grid coordinates of p for the given cell size.
func (p Point) Cell(cellSize float64) (int, int) {
	return int(Round(p.X / cellSize)), int(Round(p.Y / cellSize))
}

// Snap returns p moved to the nearest grid intersection.
func (p Point) Snap(cellSize float64) Point {
	cx, cy := p.Cell(cellSize)
	return FromCell(cx, cy, cellSize)
}

// FromCell converts grid coordinates back to canvas units.
func FromCell(cx, cy int, cellSize float64) Point {
	return Point{X: float64(cx) * cellSize, Y: float64(cy) * cellSize}
}
