package geometry

import "fmt"

// Quadrant identifies one of the four equal parts of a rectangle. The order of the constants is the traversal order
// used by the quadtree.
type Quadrant int

const (
	NorthWest Quadrant = iota
	NorthEast
	SouthWest
	SouthEast
)

var Quadrants = [4]Quadrant{NorthWest, NorthEast, SouthWest, SouthEast}

func (q Quadrant) String() string {
	switch q {
	case NorthWest:
		return "NW"
	case NorthEast:
		return "NE"
	case SouthWest:
		return "SW"
	case SouthEast:
		return "SE"
	}
	return fmt.Sprintf("[!UNKNOWN Quadrant %d]", int(q))
}

func (q Quadrant) isEast() bool {
	return q == NorthEast || q == SouthEast
}

func (q Quadrant) isSouth() bool {
	return q == SouthWest || q == SouthEast
}

// QuadrantOf returns the quadrant a coordinate belongs to when split at the given midpoint. Coordinates exactly on a
// split line belong to the east/south side.
func QuadrantOf(p Point, mid Point) Quadrant {
	q := NorthWest
	if p.X >= mid.X {
		q = NorthEast
	}
	if p.Y >= mid.Y {
		q += 2
	}
	return q
}
