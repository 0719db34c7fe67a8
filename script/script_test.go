package script

import (
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"sqt/common"
	"sqt/feature"
	"sqt/geometry"
	"sqt/quadtree"
	"sqt/storage"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *storage.Store {
	tree, err := feature.NewTree(geometry.NewRectangleFromCorners(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 100, Y: 100}), 4, 8)
	common.AssertNil(t, err)
	return storage.NewStore(tree, 10)
}

func executeScript(t *testing.T, store *storage.Store, scriptString string) ([]*Result, error) {
	script, err := ParseScript(scriptString)
	common.AssertNil(t, err)
	return script.Execute(store)
}

func TestScript_execute(t *testing.T) {
	// Arrange
	color.NoColor = true
	store := newTestStore(t)

	// Act
	results, err := executeScript(t, store, `
insert(10, 10) { @id=a amenity=bench }
insert(20, 20) { @id=b amenity=shelter }
insert(30, 30) { @id=c amenity=bench }
query(0, 0, 25, 25)
query(0, 0, 100, 100) { amenity=bench }
remove(10, 10) { @id=b }
remove(20, 20) { @id=b }
count()
dump()
compact()
clear()
count()
`)

	// Assert
	common.AssertNil(t, err)
	common.AssertLen(t, 12, results)

	var counts []int
	for _, result := range results {
		counts = append(counts, result.Count)
	}
	common.AssertEqual(t, []int{1, 1, 1, 2, 2, 0, 1, 2, 1, 2, 0, 0}, counts)

	common.AssertEqual(t, "a", results[3].Items[0].Value.ID)
	common.AssertEqual(t, "b", results[3].Items[1].Value.ID)
	common.AssertEqual(t, "a", results[4].Items[0].Value.ID)
	common.AssertEqual(t, "c", results[4].Items[1].Value.ID)
	common.AssertTrue(t, strings.HasPrefix(results[8].Output, "leaf [0,0]-[100,100] depth=0 items=2\n"))
	common.AssertEqual(t, "query(0, 0, 25, 25)", results[3].Statement)
	common.AssertEqual(t, 0, store.Len())
}

func TestScript_executeStopsAtFirstError(t *testing.T) {
	// Arrange
	store := newTestStore(t)

	// Act
	results, err := executeScript(t, store, "insert(1, 1) insert(101, 1) insert(2, 2)")

	// Assert
	common.AssertNil(t, results)
	var outOfBoundsError *quadtree.OutOfBoundsError
	common.AssertTrue(t, errors.As(err, &outOfBoundsError))
	common.AssertEqual(t, "Executing statement 'insert(101, 1){@id=[101,1]}' failed: Point [101,1] is outside of the tree bounds [0,0]-[100,100]", err.Error())
	common.AssertEqual(t, 1, store.Len())
}

func TestScript_exampleScenario(t *testing.T) {
	// Arrange
	store := newTestStore(t)

	// Act
	results, err := executeScript(t, store, `
insert(10, 10) insert(20, 20) insert(30, 30) insert(40, 40) insert(60, 60)
query(0, 0, 50, 50)
query(50, 50, 100, 100)
count()
`)

	// Assert
	common.AssertNil(t, err)
	common.AssertEqual(t, 4, results[5].Count)
	common.AssertEqual(t, 1, results[6].Count)
	common.AssertEqual(t, geometry.Point{X: 60, Y: 60}, results[6].Items[0].Point)
	common.AssertEqual(t, 5, results[7].Count)
}
