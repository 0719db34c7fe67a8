package osm

import (
	"github.com/paulmach/osm"
	"os"
	"path/filepath"
	"sqt/common"
	"sqt/feature"
	"sqt/geometry"
	"testing"
)

const testOsmData = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="53.5" lon="9.5" version="1">
    <tag k="amenity" v="bench"/>
  </node>
  <node id="2" lat="53.6" lon="9.8" version="1"/>
  <node id="3" lat="54.5" lon="10.5" version="1">
    <tag k="amenity" v="shelter"/>
  </node>
  <way id="10" version="1">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="footway"/>
  </way>
</osm>
`

func writeTestFile(t *testing.T, name string, content string) string {
	filename := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(filename, []byte(content), 0644)
	common.AssertNil(t, err)
	return filename
}

type countingHandler struct {
	nodes, ways, relations int
	initCalled, doneCalled bool
}

func (h *countingHandler) Name() string { return "countingHandler" }
func (h *countingHandler) Init() error  { h.initCalled = true; return nil }
func (h *countingHandler) Done() error  { h.doneCalled = true; return nil }

func (h *countingHandler) HandleNode(*osm.Node) error {
	h.nodes++
	return nil
}

func (h *countingHandler) HandleWay(*osm.Way) error {
	h.ways++
	return nil
}

func (h *countingHandler) HandleRelation(*osm.Relation) error {
	h.relations++
	return nil
}

func TestOsmReader_read(t *testing.T) {
	// Arrange
	filename := writeTestFile(t, "data.osm", testOsmData)
	handler := &countingHandler{}

	// Act
	err := NewOsmReader().Read(filename, handler)

	// Assert
	common.AssertNil(t, err)
	common.AssertTrue(t, handler.initCalled)
	common.AssertTrue(t, handler.doneCalled)
	common.AssertEqual(t, 3, handler.nodes)
	common.AssertEqual(t, 1, handler.ways)
	common.AssertEqual(t, 0, handler.relations)
}

func TestOsmReader_unsupportedFile(t *testing.T) {
	err := NewOsmReader().Read("data.csv")

	common.AssertNotNil(t, err)
	common.AssertError(t, "Input file data.csv must be an .osm or .pbf file", err)
}

func TestOsmReader_missingFile(t *testing.T) {
	err := NewOsmReader().Read(filepath.Join(t.TempDir(), "missing.osm"))

	common.AssertNotNil(t, err)
}

func TestTreeLoader_loadsNodesWithinBounds(t *testing.T) {
	// Arrange
	filename := writeTestFile(t, "data.osm", testOsmData)
	tree, err := feature.NewTree(geometry.NewRectangleFromCorners(geometry.Point{X: 9, Y: 53}, geometry.Point{X: 10, Y: 54}), 4, 8)
	common.AssertNil(t, err)
	loader := NewTreeLoader(tree, false)

	// Act
	err = NewOsmReader().Read(filename, loader)

	// Assert
	common.AssertNil(t, err)
	common.AssertEqual(t, 2, loader.Loaded)
	common.AssertEqual(t, 1, loader.Skipped)
	common.AssertEqual(t, 2, tree.Len())

	items := tree.Query(geometry.NewRectangleFromCorners(geometry.Point{X: 9.4, Y: 53.4}, geometry.Point{X: 9.6, Y: 53.6}))
	common.AssertLen(t, 1, items)
	common.AssertEqual(t, "node/1", items[0].Value.ID)
	common.AssertTrue(t, items[0].Value.HasTag("amenity", "bench"))
}

func TestTreeLoader_taggedOnly(t *testing.T) {
	// Arrange
	filename := writeTestFile(t, "data.osm", testOsmData)
	tree, err := feature.NewTree(geometry.NewRectangleFromCorners(geometry.Point{X: 0, Y: 0}, geometry.Point{X: 90, Y: 90}), 4, 8)
	common.AssertNil(t, err)
	loader := NewTreeLoader(tree, true)

	// Act
	err = NewOsmReader().Read(filename, loader)

	// Assert
	common.AssertNil(t, err)
	common.AssertEqual(t, 2, loader.Loaded)
	common.AssertEqual(t, 0, loader.Skipped)
}

func TestOsmExtentAggregator(t *testing.T) {
	// Arrange
	filename := writeTestFile(t, "data.osm", testOsmData)
	aggregator := NewOsmExtentAggregator()

	_, ok := aggregator.Extent()
	common.AssertFalse(t, ok)

	// Act
	err := NewOsmReader().Read(filename, aggregator)

	// Assert
	common.AssertNil(t, err)
	extent, ok := aggregator.Extent()
	common.AssertTrue(t, ok)
	common.AssertEqual(t, 3, aggregator.NodeCount)
	common.AssertEqual(t, geometry.NewRectangleFromCorners(geometry.Point{X: 9.5, Y: 53.5}, geometry.Point{X: 10.5, Y: 54.5}), extent)
}
