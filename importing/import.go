package importing

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"sqt/feature"
	"sqt/geometry"
	ownIo "sqt/io"
	"sqt/osm"
	"sqt/quadtree"
	"strings"
	"time"
)

type Result struct {
	Loaded  int
	Skipped int
}

func isGeoJsonFile(inputFile string) bool {
	return strings.HasSuffix(inputFile, ".geojson") || strings.HasSuffix(inputFile, ".json")
}

func checkSupported(inputFile string) error {
	if !osm.IsOsmFile(inputFile) && !isGeoJsonFile(inputFile) {
		return errors.Errorf("Input file %s must be an .osm, .pbf or .geojson file", inputFile)
	}
	return nil
}

// Import loads all point features of the given file into the tree. Features outside of the tree bounds are skipped.
// When taggedOnly is set, features without any properties are skipped as well without being counted.
func Import(inputFile string, tree *feature.Tree, taggedOnly bool) (*Result, error) {
	err := checkSupported(inputFile)
	if err != nil {
		return nil, err
	}

	sigolo.Infof("Start import of file %s", inputFile)
	importStartTime := time.Now()

	var result *Result
	if osm.IsOsmFile(inputFile) {
		loader := osm.NewTreeLoader(tree, taggedOnly)
		err = osm.NewOsmReader().Read(inputFile, loader)
		result = &Result{Loaded: loader.Loaded, Skipped: loader.Skipped}
	} else {
		result, err = importGeoJson(inputFile, tree, taggedOnly)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Import of file %s failed", inputFile)
	}

	sigolo.Infof("Finished import of %d features (%d skipped) in %s", result.Loaded, result.Skipped, time.Since(importStartTime))
	return result, nil
}

func importGeoJson(inputFile string, tree *feature.Tree, taggedOnly bool) (*Result, error) {
	items, err := ownIo.ReadFeaturesFromGeoJsonFile(inputFile)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, item := range items {
		if taggedOnly && len(item.Value.Properties) == 0 {
			continue
		}

		err = tree.Insert(item.Point, item.Value)
		var outOfBoundsError *quadtree.OutOfBoundsError
		if errors.As(err, &outOfBoundsError) {
			if sigolo.ShouldLogTrace() {
				sigolo.Tracef("Skip feature %s: %s", item.Value.ID, outOfBoundsError.Error())
			}
			result.Skipped++
			continue
		} else if err != nil {
			return nil, err
		}

		result.Loaded++
	}

	return result, nil
}

// Extent determines the bounding box of all features within the given file.
func Extent(inputFile string) (geometry.Rectangle, error) {
	err := checkSupported(inputFile)
	if err != nil {
		return geometry.Rectangle{}, err
	}

	var extent geometry.Rectangle
	var ok bool
	if osm.IsOsmFile(inputFile) {
		aggregator := osm.NewOsmExtentAggregator()
		err = osm.NewOsmReader().Read(inputFile, aggregator)
		if err != nil {
			return geometry.Rectangle{}, err
		}
		extent, ok = aggregator.Extent()
	} else {
		items, err := ownIo.ReadFeaturesFromGeoJsonFile(inputFile)
		if err != nil {
			return geometry.Rectangle{}, err
		}
		extent, ok = extentOfItems(items)
	}

	if !ok {
		return geometry.Rectangle{}, errors.Errorf("Input file %s contains no features", inputFile)
	}

	sigolo.Debugf("Extent of file %s is %s", inputFile, extent.String())
	return extent, nil
}

func extentOfItems(items []feature.Item) (geometry.Rectangle, bool) {
	if len(items) == 0 {
		return geometry.Rectangle{}, false
	}

	bound := items[0].Point.ToOrb().Bound()
	for _, item := range items[1:] {
		bound = bound.Extend(item.Point.ToOrb())
	}

	return geometry.RectangleFromBound(bound), true
}

// ImportAutosized creates a tree whose bounds exactly fit the features of the given file and loads them into it. The
// file is therefore read twice.
func ImportAutosized(inputFile string, capacity int, maxDepth int, taggedOnly bool) (*feature.Tree, *Result, error) {
	extent, err := Extent(inputFile)
	if err != nil {
		return nil, nil, err
	}

	tree, err := feature.NewTree(extent, capacity, maxDepth)
	if err != nil {
		return nil, nil, err
	}

	result, err := Import(inputFile, tree, taggedOnly)
	if err != nil {
		return nil, nil, err
	}

	return tree, result, nil
}
