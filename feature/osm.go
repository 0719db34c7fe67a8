package feature

import (
	"github.com/paulmach/osm"
	"sqt/geometry"
)

const (
	OsmIdProperty   = "@osm_id"
	OsmTypeProperty = "@osm_type"
)

// FromOsmNode creates the feature of an OSM node together with its location. The x-axis is the longitude, the y-axis
// the latitude.
func FromOsmNode(node *osm.Node) (geometry.Point, *Feature) {
	properties := map[string]interface{}{}
	for _, tag := range node.Tags {
		properties[tag.Key] = tag.Value
	}
	properties[OsmIdProperty] = int64(node.ID)
	properties[OsmTypeProperty] = string(osm.TypeNode)

	return geometry.Point{X: node.Lon, Y: node.Lat}, New(node.FeatureID().String(), properties)
}
