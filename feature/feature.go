package feature

import (
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/geojson"
	"sort"
	"sqt/geometry"
	"sqt/quadtree"
	"strings"
)

// Tree is the tree type used by all front-ends: a quadtree storing features.
type Tree = quadtree.Quadtree[*Feature]

type Item = quadtree.Item[*Feature]

type Node = quadtree.Node[*Feature]

func NewTree(bounds geometry.Rectangle, capacity int, maxDepth int) (*Tree, error) {
	return quadtree.New[*Feature](bounds, capacity, maxDepth)
}

// Feature is the payload stored at a point. The ID is not required to be unique, several features with the same ID at
// different (or even equal) points are allowed.
type Feature struct {
	ID         string             `json:"id"`
	Properties geojson.Properties `json:"properties"`
}

func New(id string, properties map[string]interface{}) *Feature {
	if properties == nil {
		properties = map[string]interface{}{}
	}
	return &Feature{
		ID:         id,
		Properties: properties,
	}
}

// NewWithTags creates a feature whose properties are the given string tags.
func NewWithTags(id string, tags map[string]string) *Feature {
	properties := geojson.Properties{}
	for k, v := range tags {
		properties[k] = v
	}
	return New(id, properties)
}

// HasTag checks whether the property with the given key exists and has the given value in its string representation.
func (f *Feature) HasTag(key string, value string) bool {
	propertyValue, ok := f.Properties[key]
	if !ok {
		return false
	}
	return fmt.Sprint(propertyValue) == value
}

// HasTags is true when every given tag is set on this feature.
func (f *Feature) HasTags(tags map[string]string) bool {
	for k, v := range tags {
		if !f.HasTag(k, v) {
			return false
		}
	}
	return true
}

func (f *Feature) String() string {
	keys := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tags []string
	for _, k := range keys {
		tags = append(tags, fmt.Sprintf("%s=%v", k, f.Properties[k]))
	}

	return fmt.Sprintf("%s{%s}", f.ID, strings.Join(tags, ","))
}

func (f *Feature) Print() {
	sigolo.Debugf("Feature: %s", f.ID)
	for k, v := range f.Properties {
		sigolo.Debugf("  %s = %v", k, v)
	}
}

// MatchID accepts features with exactly the given ID. An empty ID matches every feature.
func MatchID(id string) quadtree.Matcher[*Feature] {
	if id == "" {
		return nil
	}
	return func(f *Feature) bool {
		return f.ID == id
	}
}

// MatchTags accepts features having all of the given tags. No tags match every feature.
func MatchTags(tags map[string]string) quadtree.Matcher[*Feature] {
	if len(tags) == 0 {
		return nil
	}
	return func(f *Feature) bool {
		return f.HasTags(tags)
	}
}
