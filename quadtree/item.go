package quadtree

import "sqt/geometry"

// Item is a value stored at a point.
type Item[T any] struct {
	Point geometry.Point
	Value T
}

// Matcher decides whether a stored value is the one to remove. A nil matcher matches every value.
type Matcher[T any] func(value T) bool

func (m Matcher[T]) matches(value T) bool {
	return m == nil || m(value)
}
