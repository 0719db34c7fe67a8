package osm

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"sqt/geometry"
)

// OsmExtentAggregator collects the bounding box of all nodes. This is used to size a tree so that it exactly fits the
// input data.
type OsmExtentAggregator struct {
	NodeCount int
	bound     *orb.Bound
}

func NewOsmExtentAggregator() *OsmExtentAggregator {
	return &OsmExtentAggregator{}
}

func (a *OsmExtentAggregator) Name() string {
	return "OsmExtentAggregator"
}

func (a *OsmExtentAggregator) Init() error {
	a.NodeCount = 0
	a.bound = nil
	return nil
}

func (a *OsmExtentAggregator) HandleNode(node *osm.Node) error {
	a.NodeCount++

	point := node.Point()
	if a.bound == nil {
		bound := point.Bound()
		a.bound = &bound
	} else {
		extended := a.bound.Extend(point)
		a.bound = &extended
	}

	return nil
}

func (a *OsmExtentAggregator) HandleWay(way *osm.Way) error {
	return nil
}

func (a *OsmExtentAggregator) HandleRelation(relation *osm.Relation) error {
	return nil
}

func (a *OsmExtentAggregator) Done() error {
	return nil
}

// Extent returns the bounding box of all handled nodes. It is false when no node has been handled.
func (a *OsmExtentAggregator) Extent() (geometry.Rectangle, bool) {
	if a.bound == nil {
		return geometry.Rectangle{}, false
	}
	return geometry.RectangleFromBound(*a.bound), true
}
