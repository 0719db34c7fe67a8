/*
Package quadtree implements an in-memory point quadtree.

Each node covers a rectangular region and stores items directly until it holds more than the configured capacity.
It then subdivides into four equal quadrants and pushes its items down. Nodes at the maximum depth never subdivide
and accept any number of items instead, so that many coincident points cannot cause unbounded recursion.

Points on a split line belong to the eastern/southern quadrant. The root additionally owns its max edges, so every
point within the closed root bounds is stored in exactly one leaf.

A Quadtree is not safe for concurrent use. Protect it with a sync.RWMutex when needed: concurrent queries are fine,
mutations need exclusive access.
*/
package quadtree

import (
	"github.com/hauke96/sigolo/v2"
	"sqt/geometry"
	"time"
)

type Quadtree[T any] struct {
	root   *Node[T]
	config *config
	length int
}

// New creates an empty tree covering the given finite bounds. The capacity must be at least 1 and the max depth must not be
// negative. A max depth of 0 means that the root never subdivides.
func New[T any](bounds geometry.Rectangle, capacity int, maxDepth int) (*Quadtree[T], error) {
	if !bounds.Valid() {
		return nil, newConfigurationError("bounds %s must be finite and have non-negative half-extents", bounds.String())
	}
	if capacity < 1 {
		return nil, newConfigurationError("capacity must be at least 1 but was %d", capacity)
	}
	if maxDepth < 0 {
		return nil, newConfigurationError("max depth must not be negative but was %d", maxDepth)
	}

	c := &config{
		capacity: capacity,
		maxDepth: maxDepth,
	}

	return &Quadtree[T]{
		root:   newNode[T](bounds, 0, true, true, c),
		config: c,
	}, nil
}

func (q *Quadtree[T]) Bounds() geometry.Rectangle {
	return q.root.bounds
}

func (q *Quadtree[T]) Capacity() int {
	return q.config.capacity
}

func (q *Quadtree[T]) MaxDepth() int {
	return q.config.maxDepth
}

// Root returns the root node for read-only inspection, e.g. to render the tree.
func (q *Quadtree[T]) Root() *Node[T] {
	return q.root
}

// Len returns the number of stored items.
func (q *Quadtree[T]) Len() int {
	return q.length
}

// Insert stores the value at the given point. It returns an *OutOfBoundsError and leaves the tree unchanged when the
// point is not within the root bounds (max edges included).
func (q *Quadtree[T]) Insert(point geometry.Point, value T) error {
	if err := q.CheckBounds(point); err != nil {
		return err
	}

	q.root.insert(Item[T]{Point: point, Value: value})
	q.length++

	return nil
}

// CheckBounds returns an *OutOfBoundsError when Insert would reject the point.
func (q *Quadtree[T]) CheckBounds(point geometry.Point) error {
	if !q.root.contains(point) {
		return newOutOfBoundsError(point, q.root.bounds)
	}
	return nil
}

// Query returns all items within the region in NW, NE, SW, SE traversal order. The region is half-open like
// geometry.Rectangle.Contains, except that a max edge of the region lying on the max edge of the tree is included.
// This way querying Bounds() returns all items.
func (q *Quadtree[T]) Query(region geometry.Rectangle) []Item[T] {
	var result []Item[T]
	q.QueryFunc(region, func(item Item[T]) bool {
		result = append(result, item)
		return true
	})
	return result
}

// QueryFunc calls fn for each item within the region (see Query) and stops as soon as fn returns false.
func (q *Quadtree[T]) QueryFunc(region geometry.Rectangle, fn func(item Item[T]) bool) {
	includeMaxX, includeMaxY := q.includedEdges(region)
	q.root.query(region, includeMaxX, includeMaxY, fn)
}

// Matches reports whether a point within the tree would be returned by a query for the given region.
func (q *Quadtree[T]) Matches(region geometry.Rectangle, point geometry.Point) bool {
	includeMaxX, includeMaxY := q.includedEdges(region)
	return region.ContainsWithEdges(point, includeMaxX, includeMaxY)
}

func (q *Quadtree[T]) includedEdges(region geometry.Rectangle) (bool, bool) {
	return region.Max.X == q.root.bounds.Max.X, region.Max.Y == q.root.bounds.Max.Y
}

// Remove deletes the first item at exactly the given point whose value is accepted by the matcher. A nil matcher
// accepts any value. Nodes emptied by removals are kept, use Compact to rebuild a minimal tree.
func (q *Quadtree[T]) Remove(point geometry.Point, matcher Matcher[T]) bool {
	removed := q.root.remove(point, matcher)
	if removed {
		q.length--
	}
	return removed
}

// Clear removes all items and nodes. The bounds and configuration are kept.
func (q *Quadtree[T]) Clear() {
	q.root.clear()
	q.length = 0
}

// All returns every stored item in traversal order.
func (q *Quadtree[T]) All() []Item[T] {
	result := make([]Item[T], 0, q.length)
	q.root.walk(func(n *Node[T]) bool {
		result = append(result, n.items...)
		return true
	})
	return result
}

// Compact rebuilds the tree from its items. This removes subdivisions that are no longer needed after removals.
func (q *Quadtree[T]) Compact() {
	compactStartTime := time.Now()
	nodesBefore := q.NodeCount()

	items := q.All()
	q.root.clear()
	for _, item := range items {
		q.root.insert(item)
	}

	sigolo.Debugf("Compacted tree with %d items from %d to %d nodes in %s", len(items), nodesBefore, q.NodeCount(), time.Since(compactStartTime))
}

// Walk visits all nodes in pre-order. The children of a node are skipped when fn returns false for it.
func (q *Quadtree[T]) Walk(fn func(node *Node[T]) bool) {
	q.root.walk(fn)
}

func (q *Quadtree[T]) NodeCount() int {
	count := 0
	q.root.walk(func(*Node[T]) bool {
		count++
		return true
	})
	return count
}

// Height returns the largest depth of any node, which is 0 for a tree that never subdivided.
func (q *Quadtree[T]) Height() int {
	height := 0
	q.root.walk(func(n *Node[T]) bool {
		if n.depth > height {
			height = n.depth
		}
		return true
	})
	return height
}
