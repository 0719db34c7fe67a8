package geometry

import (
	"github.com/paulmach/orb"
	"strconv"
)

// Point is a location in the plane. The Y axis grows southwards, as in screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewPoint(x float64, y float64) Point {
	return Point{X: x, Y: y}
}

func PointFromOrb(p orb.Point) Point {
	return Point{X: p.X(), Y: p.Y()}
}

func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Point) Subtract(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p Point) ToOrb() orb.Point {
	return orb.Point{p.X, p.Y}
}

func (p Point) String() string {
	return "[" + FormatCoordinate(p.X) + "," + FormatCoordinate(p.Y) + "]"
}

// FormatCoordinate returns the shortest representation that parses back to the exact same value.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
