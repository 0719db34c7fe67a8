package quadtree

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"slices"
	"sqt/geometry"
)

// config is shared by all nodes of one tree.
type config struct {
	capacity int
	maxDepth int
}

// Node covers one rectangular region. A leaf stores up to capacity items itself (more only at max depth), an internal
// node stores no items and has exactly four children covering its quadrants in NW, NE, SW, SE order.
//
// A node on the max-x (max-y) side of the root additionally owns its max-x (max-y) edge, so that every point within
// the closed root bounds belongs to exactly one leaf.
type Node[T any] struct {
	bounds      geometry.Rectangle
	depth       int
	includeMaxX bool
	includeMaxY bool
	items       []Item[T]
	children    *[4]*Node[T]
	config      *config
}

func newNode[T any](bounds geometry.Rectangle, depth int, includeMaxX bool, includeMaxY bool, config *config) *Node[T] {
	return &Node[T]{
		bounds:      bounds,
		depth:       depth,
		includeMaxX: includeMaxX,
		includeMaxY: includeMaxY,
		config:      config,
	}
}

func (n *Node[T]) Bounds() geometry.Rectangle {
	return n.bounds
}

// Depth is 0 for the root and increases by one per level.
func (n *Node[T]) Depth() int {
	return n.depth
}

func (n *Node[T]) IsLeaf() bool {
	return n.children == nil
}

// Children returns the four children in NW, NE, SW, SE order or nil for a leaf.
func (n *Node[T]) Children() []*Node[T] {
	if n.children == nil {
		return nil
	}
	return n.children[:]
}

// Items returns a copy of the items stored directly in this node. This is always empty for internal nodes.
func (n *Node[T]) Items() []Item[T] {
	result := make([]Item[T], len(n.items))
	copy(result, n.items)
	return result
}

func (n *Node[T]) contains(p geometry.Point) bool {
	return n.bounds.ContainsWithEdges(p, n.includeMaxX, n.includeMaxY)
}

func (n *Node[T]) insert(item Item[T]) {
	if n.children != nil {
		n.childFor(item.Point).insert(item)
		return
	}

	if len(n.items) < n.config.capacity || n.depth >= n.config.maxDepth {
		n.items = append(n.items, item)
		return
	}

	n.subdivide()
	n.childFor(item.Point).insert(item)
}

// subdivide turns this leaf into an internal node and moves all of its items into the new children.
func (n *Node[T]) subdivide() {
	if sigolo.ShouldLogTrace() {
		sigolo.Tracef("Subdivide node %s at depth %d with %d items", n.bounds.String(), n.depth, len(n.items))
	}

	children := [4]*Node[T]{}
	for _, q := range geometry.Quadrants {
		// Only the eastern/southern children touch the max edges of their parent.
		includeMaxX := n.includeMaxX && (q == geometry.NorthEast || q == geometry.SouthEast)
		includeMaxY := n.includeMaxY && (q == geometry.SouthWest || q == geometry.SouthEast)
		children[q] = newNode[T](n.bounds.Quadrant(q), n.depth+1, includeMaxX, includeMaxY, n.config)
	}
	n.children = &children

	items := n.items
	n.items = nil
	for _, item := range items {
		n.childFor(item.Point).insert(item)
	}
}

// childFor returns the child owning the given point, which must be within the bounds of this internal node.
func (n *Node[T]) childFor(p geometry.Point) *Node[T] {
	child := n.children[geometry.QuadrantOf(p, n.bounds.Center())]
	if !child.contains(p) {
		panic(fmt.Sprintf("quadtree node %s has no child containing point %s - this is a bug", n.bounds.String(), p.String()))
	}
	return child
}

// query calls fn for every item matching the region. It returns false as soon as fn returned false.
func (n *Node[T]) query(region geometry.Rectangle, includeMaxX bool, includeMaxY bool, fn func(Item[T]) bool) bool {
	if !n.bounds.Intersects(region) {
		return true
	}

	if n.children == nil {
		for _, item := range n.items {
			if region.ContainsWithEdges(item.Point, includeMaxX, includeMaxY) && !fn(item) {
				return false
			}
		}
		return true
	}

	for _, child := range n.children {
		if !child.query(region, includeMaxX, includeMaxY, fn) {
			return false
		}
	}
	return true
}

// remove deletes the first item at the given point accepted by the matcher. Empty children are not merged.
func (n *Node[T]) remove(p geometry.Point, matcher Matcher[T]) bool {
	if !n.contains(p) {
		return false
	}

	if n.children != nil {
		return n.childFor(p).remove(p, matcher)
	}

	for i, item := range n.items {
		if item.Point == p && matcher.matches(item.Value) {
			n.items = slices.Delete(n.items, i, i+1)
			return true
		}
	}
	return false
}

func (n *Node[T]) clear() {
	n.items = nil
	n.children = nil
}

// walk visits this node and all descendants in pre-order. Children are only visited when fn returns true for the
// parent.
func (n *Node[T]) walk(fn func(*Node[T]) bool) {
	if !fn(n) || n.children == nil {
		return
	}
	for _, child := range n.children {
		child.walk(fn)
	}
}
