package io

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"io"
	"os"
	"sqt/feature"
	"time"
)

// WriteFeaturesAsGeoJsonFile writes the items as GeoJSON feature collection of points into the given file.
func WriteFeaturesAsGeoJsonFile(items []feature.Item, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to create GeoJSON file %s", filename)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "Unable to close file handle for GeoJSON file %s", filename)
		}
	}()

	return WriteFeaturesAsGeoJson(items, file)
}

func WriteFeaturesAsGeoJson(items []feature.Item, writer io.Writer) error {
	sigolo.Debug("Write features to GeoJSON")
	writeStartTime := time.Now()

	err := writeFeatureCollection(ToFeatureCollection(items), writer)
	if err != nil {
		return err
	}

	sigolo.Debugf("Finished writing %d features in %s", len(items), time.Since(writeStartTime))
	return nil
}

// ToFeatureCollection converts the items into GeoJSON point features. The feature ID becomes the GeoJSON ID.
func ToFeatureCollection(items []feature.Item) *geojson.FeatureCollection {
	featureCollection := geojson.NewFeatureCollection()
	for _, item := range items {
		geoJsonFeature := geojson.NewFeature(item.Point.ToOrb())
		if item.Value != nil {
			geoJsonFeature.ID = item.Value.ID
			for k, v := range item.Value.Properties {
				geoJsonFeature.Properties[k] = v
			}
		}

		featureCollection.Append(geoJsonFeature)
	}
	return featureCollection
}

// WriteNodesAsGeoJson writes the bounds of every node of the tree as polygon. Each feature has the depth, the number
// of directly stored items and whether the node is a leaf as properties.
func WriteNodesAsGeoJson(tree *feature.Tree, writer io.Writer) error {
	sigolo.Debug("Write tree nodes to GeoJSON")
	writeStartTime := time.Now()

	featureCollection := geojson.NewFeatureCollection()
	tree.Walk(func(node *feature.Node) bool {
		geoJsonFeature := geojson.NewFeature(node.Bounds().ToPolygon())
		geoJsonFeature.Properties["depth"] = node.Depth()
		geoJsonFeature.Properties["leaf"] = node.IsLeaf()
		geoJsonFeature.Properties["items"] = len(node.Items())

		featureCollection.Append(geoJsonFeature)
		return true
	})

	err := writeFeatureCollection(featureCollection, writer)
	if err != nil {
		return err
	}

	sigolo.Debugf("Finished writing %d nodes in %s", len(featureCollection.Features), time.Since(writeStartTime))
	return nil
}

func writeFeatureCollection(featureCollection *geojson.FeatureCollection, writer io.Writer) error {
	geojsonBytes, err := featureCollection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Unable to marshal GeoJSON feature collection")
	}

	_, err = writer.Write(geojsonBytes)
	if err != nil {
		return errors.Wrap(err, "Unable to write GeoJSON feature collection")
	}

	return nil
}
