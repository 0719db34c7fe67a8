package quadtree

import (
	"fmt"
	"sqt/common"
	"sqt/geometry"
)

// ConfigurationError is returned when a tree is constructed with invalid parameters. No tree is created in this case.
type ConfigurationError struct {
	Message string `json:"message"`
	stack   common.Stack
}

func newConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Message: "Invalid quadtree configuration: " + fmt.Sprintf(format, args...),
		stack:   common.CurrentStack(),
	}
}

func (e *ConfigurationError) Format(s fmt.State, verb rune) {
	common.FormatError(s, verb, e, e.stack)
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// OutOfBoundsError is returned when an item should be inserted at a point outside the root bounds. The tree is left
// unchanged.
type OutOfBoundsError struct {
	Message string             `json:"message"`
	Point   geometry.Point     `json:"point"`
	Bounds  geometry.Rectangle `json:"bounds"`
	stack   common.Stack
}

func newOutOfBoundsError(point geometry.Point, bounds geometry.Rectangle) *OutOfBoundsError {
	return &OutOfBoundsError{
		Message: fmt.Sprintf("Point %s is outside of the tree bounds %s", point.String(), bounds.String()),
		Point:   point,
		Bounds:  bounds,
		stack:   common.CurrentStack(),
	}
}

func (e *OutOfBoundsError) Format(s fmt.State, verb rune) {
	common.FormatError(s, verb, e, e.stack)
}

func (e *OutOfBoundsError) Error() string {
	return e.Message
}
