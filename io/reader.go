package io

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"io"
	"os"
	"sqt/feature"
	"sqt/geometry"
	"time"
)

func ReadFeaturesFromGeoJsonFile(filename string) ([]feature.Item, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open GeoJSON file %s", filename)
	}
	defer file.Close()

	return ReadFeaturesFromGeoJson(file)
}

// ReadFeaturesFromGeoJson reads a feature collection of points. Features without an ID get the ID "feature/<index>"
// with the index within the collection. Any other geometry than a point results in an error.
func ReadFeaturesFromGeoJson(reader io.Reader) ([]feature.Item, error) {
	readStartTime := time.Now()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to read GeoJSON data")
	}

	featureCollection, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to parse GeoJSON feature collection")
	}

	var items []feature.Item
	for i, geoJsonFeature := range featureCollection.Features {
		point, ok := geoJsonFeature.Geometry.(orb.Point)
		if !ok {
			geometryType := "null"
			if geoJsonFeature.Geometry != nil {
				geometryType = geoJsonFeature.Geometry.GeoJSONType()
			}
			return nil, errors.Errorf("Feature %d has geometry of type %s but only points are supported", i, geometryType)
		}

		id := fmt.Sprintf("feature/%d", i)
		if geoJsonFeature.ID != nil {
			id = fmt.Sprint(geoJsonFeature.ID)
		}

		items = append(items, feature.Item{
			Point: geometry.PointFromOrb(point),
			Value: feature.New(id, geoJsonFeature.Properties),
		})
	}

	sigolo.Debugf("Read %d features from GeoJSON in %s", len(items), time.Since(readStartTime))
	return items, nil
}
