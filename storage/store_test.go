package storage

import (
	"fmt"
	"github.com/pkg/errors"
	"sqt/common"
	"sqt/feature"
	"sqt/geometry"
	"sqt/quadtree"
	"sync"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	tree, err := feature.NewTree(geometry.NewRectangleFromCorners(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 100}), 4, 8)
	common.AssertNil(t, err)
	return NewStore(tree, 10)
}

func TestStore_queryIsInvalidatedByMutations(t *testing.T) {
	// Arrange
	store := newTestStore(t)
	region := geometry.NewRectangleFromCorners(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 50, Y: 50})
	common.AssertNil(t, store.Insert(geometry.Point{X: 10, Y: 10}, feature.New("a", nil)))
	common.AssertLen(t, 1, store.Query(region))

	// Act & Assert
	common.AssertNil(t, store.Insert(geometry.Point{X: 20, Y: 20}, feature.New("b", nil)))
	common.AssertLen(t, 2, store.Query(region))

	common.AssertTrue(t, store.Remove(geometry.Point{X: 10, Y: 10}, feature.MatchID("a")))
	common.AssertLen(t, 1, store.Query(region))

	store.Clear()
	common.AssertLen(t, 0, store.Query(region))
	common.AssertEqual(t, 0, store.Len())
}

func TestStore_insertAll(t *testing.T) {
	// Arrange
	store := newTestStore(t)
	items := []feature.Item{
		{Point: geometry.Point{X: 1, Y: 1}, Value: feature.New("a", nil)},
		{Point: geometry.Point{X: 2, Y: 2}, Value: feature.New("b", nil)},
		{Point: geometry.Point{X: 200, Y: 2}, Value: feature.New("c", nil)},
		{Point: geometry.Point{X: 3, Y: 3}, Value: feature.New("d", nil)},
	}

	// Act
	inserted, err := store.InsertAll(items)

	// Assert
	common.AssertEqual(t, 0, inserted)
	var outOfBoundsError *quadtree.OutOfBoundsError
	common.AssertTrue(t, errors.As(err, &outOfBoundsError))
	common.AssertEqual(t, 0, store.Len())
	common.AssertLen(t, 0, store.Query(store.Bounds()))
}

func TestStore_insertAllValidItems(t *testing.T) {
	// Arrange
	store := newTestStore(t)
	common.AssertLen(t, 0, store.Query(store.Bounds()))
	items := []feature.Item{
		{Point: geometry.Point{X: 1, Y: 1}, Value: feature.New("a", nil)},
		{Point: geometry.Point{X: 2, Y: 2}, Value: feature.New("b", nil)},
	}

	// Act
	inserted, err := store.InsertAll(items)

	// Assert
	common.AssertNil(t, err)
	common.AssertEqual(t, 2, inserted)
	common.AssertLen(t, 2, store.Query(store.Bounds()))
}

func TestStore_statsAndCompact(t *testing.T) {
	// Arrange
	store := newTestStore(t)
	for i := 0; i < 5; i++ {
		common.AssertNil(t, store.Insert(geometry.Point{X: float64(i), Y: float64(i)}, feature.New(fmt.Sprint(i), nil)))
	}
	for i := 0; i < 4; i++ {
		common.AssertTrue(t, store.Remove(geometry.Point{X: float64(i), Y: float64(i)}, nil))
	}
	statsBefore := store.Stats()

	// Act
	store.Compact()

	// Assert
	stats := store.Stats()
	common.AssertEqual(t, 1, stats.Items)
	common.AssertTrue(t, statsBefore.Nodes > 1)
	common.AssertEqual(t, 1, stats.Nodes)
	common.AssertEqual(t, 0, stats.Height)
	common.AssertEqual(t, 4, stats.Capacity)
	common.AssertEqual(t, 8, stats.MaxDepth)
	common.AssertEqual(t, store.Bounds(), stats.Bounds)
}

func TestStore_read(t *testing.T) {
	store := newTestStore(t)
	common.AssertNil(t, store.Insert(geometry.Point{X: 1, Y: 1}, feature.New("a", nil)))

	var length int
	err := store.Read(func(tree *feature.Tree) error {
		length = tree.Len()
		return nil
	})

	common.AssertNil(t, err)
	common.AssertEqual(t, 1, length)
}

func TestStore_concurrentUse(t *testing.T) {
	// Arrange
	store := newTestStore(t)
	region := store.Bounds()
	wg := &sync.WaitGroup{}

	// Act
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				_ = store.Insert(geometry.Point{X: float64(w*10 + i%10), Y: float64(i)}, feature.New(fmt.Sprintf("%d-%d", w, i), nil))
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				items := store.Query(region)
				common.AssertTrue(t, len(items) <= 400)
			}
		}()
	}
	wg.Wait()

	// Assert
	common.AssertEqual(t, 400, store.Len())
	common.AssertLen(t, 400, store.Query(region))
}
