package geometry

import (
	"fmt"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"math"
	"strconv"
	"strings"
)

// Rectangle is an axis-aligned region given by its minimum and maximum corner. Containment is half-open: a rectangle
// contains its min edges but not its max edges, so that sibling rectangles sharing an edge never both contain a point.
type Rectangle struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// NewRectangle creates the rectangle with the given center and half-extents.
func NewRectangle(center Point, halfWidth float64, halfHeight float64) Rectangle {
	return Rectangle{
		Min: Point{X: center.X - halfWidth, Y: center.Y - halfHeight},
		Max: Point{X: center.X + halfWidth, Y: center.Y + halfHeight},
	}
}

func NewRectangleFromCorners(min Point, max Point) Rectangle {
	return Rectangle{Min: min, Max: max}
}

func RectangleFromBound(bound orb.Bound) Rectangle {
	return Rectangle{Min: PointFromOrb(bound.Min), Max: PointFromOrb(bound.Max)}
}

// ParseRectangle parses "minX,minY,maxX,maxY" into a valid rectangle.
func ParseRectangle(value string) (Rectangle, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return Rectangle{}, errors.Errorf("Expected four comma separated numbers but found '%s'", value)
	}

	var coordinates [4]float64
	for i, part := range parts {
		coordinate, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Rectangle{}, errors.Wrapf(err, "Coordinate %d of rectangle '%s' is not a number", i, value)
		}
		if math.IsNaN(coordinate) || math.IsInf(coordinate, 0) {
			return Rectangle{}, errors.Errorf("Coordinate %d of rectangle '%s' must be a finite number", i, value)
		}
		coordinates[i] = coordinate
	}

	r := NewRectangleFromCorners(Point{X: coordinates[0], Y: coordinates[1]}, Point{X: coordinates[2], Y: coordinates[3]})
	if !r.Valid() {
		return Rectangle{}, errors.Errorf("The minimum corner of rectangle '%s' must not be after its maximum corner", value)
	}

	return r, nil
}

// Valid is false when a half-extent is negative or any coordinate is NaN or infinite.
func (r Rectangle) Valid() bool {
	for _, v := range []float64{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Min.X <= r.Max.X && r.Min.Y <= r.Max.Y
}

func (r Rectangle) Center() Point {
	return Point{X: midpoint(r.Min.X, r.Max.X), Y: midpoint(r.Min.Y, r.Max.Y)}
}

func (r Rectangle) Width() float64 { return r.Max.X - r.Min.X }

func (r Rectangle) Height() float64 { return r.Max.Y - r.Min.Y }

func (r Rectangle) HalfWidth() float64 { return r.Width() / 2 }

func (r Rectangle) HalfHeight() float64 { return r.Height() / 2 }

// Contains checks x in [Min.X, Max.X) and y in [Min.Y, Max.Y).
func (r Rectangle) Contains(p Point) bool {
	return r.ContainsWithEdges(p, false, false)
}

// ContainsWithEdges is Contains with the max edge on the x and/or y axis treated as part of the rectangle.
func (r Rectangle) ContainsWithEdges(p Point, includeMaxX bool, includeMaxY bool) bool {
	return containsCoordinate(r.Min.X, r.Max.X, p.X, includeMaxX) &&
		containsCoordinate(r.Min.Y, r.Max.Y, p.Y, includeMaxY)
}

func containsCoordinate(min float64, max float64, v float64, includeMax bool) bool {
	if v < min {
		return false
	}
	if includeMax {
		return v <= max
	}
	return v < max
}

// ContainsRectangle checks whether the other rectangle lies completely within this one.
func (r Rectangle) ContainsRectangle(other Rectangle) bool {
	return other.Min.X >= r.Min.X && other.Max.X <= r.Max.X &&
		other.Min.Y >= r.Min.Y && other.Max.Y <= r.Max.Y
}

// Intersects is a closed separating-axis test: rectangles that only touch at an edge or corner intersect.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.Min.X <= other.Max.X && other.Min.X <= r.Max.X &&
		r.Min.Y <= other.Max.Y && other.Min.Y <= r.Max.Y
}

// Intersection returns the common region of both rectangles. The boolean is false when they do not intersect.
func (r Rectangle) Intersection(other Rectangle) (Rectangle, bool) {
	if !r.Intersects(other) {
		return Rectangle{}, false
	}

	return Rectangle{
		Min: Point{X: math.Max(r.Min.X, other.Min.X), Y: math.Max(r.Min.Y, other.Min.Y)},
		Max: Point{X: math.Min(r.Max.X, other.Max.X), Y: math.Min(r.Max.Y, other.Max.Y)},
	}, true
}

// Quadrant returns one of the four equal sub-rectangles. Adjacent quadrants share their edge exactly, the split lines
// are the coordinates of Center().
func (r Rectangle) Quadrant(q Quadrant) Rectangle {
	mid := r.Center()
	result := Rectangle{Min: r.Min, Max: mid}

	if q.isEast() {
		result.Min.X = mid.X
		result.Max.X = r.Max.X
	}
	if q.isSouth() {
		result.Min.Y = mid.Y
		result.Max.Y = r.Max.Y
	}

	return result
}

func (r Rectangle) ToBound() orb.Bound {
	return orb.Bound{Min: r.Min.ToOrb(), Max: r.Max.ToOrb()}
}

func (r Rectangle) ToPolygon() orb.Polygon {
	return r.ToBound().ToPolygon()
}

func (r Rectangle) String() string {
	return fmt.Sprintf("%s-%s", r.Min.String(), r.Max.String())
}

// midpoint halves before adding so that the result neither overflows nor leaves [min, max].
func midpoint(min float64, max float64) float64 {
	return min/2 + max/2
}
