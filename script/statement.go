package script

import (
	"bytes"
	"fmt"
	"github.com/hauke96/sigolo/v2"
	"sort"
	"sqt/feature"
	"sqt/geometry"
	ownIo "sqt/io"
	"sqt/storage"
	"strings"
)

const idTagKey = "@id"

// Result is the outcome of one executed statement. Count is the number of affected or found items, for count(),
// clear() and compact() it is the number of items in the tree afterwards.
type Result struct {
	Statement string
	Count     int
	Items     []feature.Item
	Output    string
}

type Statement interface {
	Execute(store *storage.Store) (*Result, error)
	String() string
}

type InsertStatement struct {
	point geometry.Point
	id    string
	tags  map[string]string
}

// NewInsertStatement creates a statement inserting a feature with the given tags. The "@id" tag becomes the ID of
// the feature, without it the point is used as ID.
func NewInsertStatement(point geometry.Point, tags map[string]string) *InsertStatement {
	id, otherTags := splitIdTag(tags)
	if id == "" {
		id = point.String()
	}
	return &InsertStatement{
		point: point,
		id:    id,
		tags:  otherTags,
	}
}

func (s *InsertStatement) Execute(store *storage.Store) (*Result, error) {
	err := store.Insert(s.point, feature.NewWithTags(s.id, s.tags))
	if err != nil {
		return nil, err
	}
	return &Result{Statement: s.String(), Count: 1}, nil
}

func (s *InsertStatement) String() string {
	tags := map[string]string{idTagKey: s.id}
	for k, v := range s.tags {
		tags[k] = v
	}
	return fmt.Sprintf("insert(%s)%s", coordinates(s.point.X, s.point.Y), tagsString(tags))
}

type QueryStatement struct {
	region geometry.Rectangle
	tags   map[string]string
}

func NewQueryStatement(region geometry.Rectangle, tags map[string]string) *QueryStatement {
	return &QueryStatement{
		region: region,
		tags:   tags,
	}
}

func (s *QueryStatement) Execute(store *storage.Store) (*Result, error) {
	items := store.Query(s.region)

	if len(s.tags) > 0 {
		var filtered []feature.Item
		for _, item := range items {
			if item.Value.HasTags(s.tags) {
				filtered = append(filtered, item)
			}
		}
		items = filtered
	}

	if sigolo.ShouldLogTrace() {
		for _, item := range items {
			sigolo.Tracef("Found %s at %s", item.Value.String(), item.Point.String())
		}
	}

	return &Result{Statement: s.String(), Count: len(items), Items: items}, nil
}

func (s *QueryStatement) String() string {
	return fmt.Sprintf("query(%s)%s", coordinates(s.region.Min.X, s.region.Min.Y, s.region.Max.X, s.region.Max.Y), tagsString(s.tags))
}

type RemoveStatement struct {
	point geometry.Point
	id    string
	tags  map[string]string
}

// NewRemoveStatement creates a statement removing the first feature at the point having all given tags. The "@id" tag
// is compared with the ID of the feature.
func NewRemoveStatement(point geometry.Point, tags map[string]string) *RemoveStatement {
	id, otherTags := splitIdTag(tags)
	return &RemoveStatement{
		point: point,
		id:    id,
		tags:  otherTags,
	}
}

func (s *RemoveStatement) Execute(store *storage.Store) (*Result, error) {
	matchId := feature.MatchID(s.id)
	matchTags := feature.MatchTags(s.tags)

	removed := store.Remove(s.point, func(f *feature.Feature) bool {
		return (matchId == nil || matchId(f)) && (matchTags == nil || matchTags(f))
	})

	count := 0
	if removed {
		count = 1
	}
	return &Result{Statement: s.String(), Count: count}, nil
}

func (s *RemoveStatement) String() string {
	tags := map[string]string{}
	if s.id != "" {
		tags[idTagKey] = s.id
	}
	for k, v := range s.tags {
		tags[k] = v
	}
	return fmt.Sprintf("remove(%s)%s", coordinates(s.point.X, s.point.Y), tagsString(tags))
}

type CountStatement struct{}

func (s *CountStatement) Execute(store *storage.Store) (*Result, error) {
	return &Result{Statement: s.String(), Count: store.Len()}, nil
}

func (s *CountStatement) String() string {
	return "count()"
}

type ClearStatement struct{}

func (s *ClearStatement) Execute(store *storage.Store) (*Result, error) {
	store.Clear()
	return &Result{Statement: s.String(), Count: store.Len()}, nil
}

func (s *ClearStatement) String() string {
	return "clear()"
}

type CompactStatement struct{}

func (s *CompactStatement) Execute(store *storage.Store) (*Result, error) {
	store.Compact()
	return &Result{Statement: s.String(), Count: store.Len()}, nil
}

func (s *CompactStatement) String() string {
	return "compact()"
}

// DumpStatement renders the node structure including all items as text.
type DumpStatement struct{}

func (s *DumpStatement) Execute(store *storage.Store) (*Result, error) {
	buffer := &bytes.Buffer{}
	count := 0
	err := store.Read(func(tree *feature.Tree) error {
		count = tree.NodeCount()
		return ownIo.PrintTree(buffer, tree, true)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Statement: s.String(), Count: count, Output: buffer.String()}, nil
}

func (s *DumpStatement) String() string {
	return "dump()"
}

func splitIdTag(tags map[string]string) (string, map[string]string) {
	id := ""
	otherTags := map[string]string{}
	for k, v := range tags {
		if k == idTagKey {
			id = v
		} else {
			otherTags[k] = v
		}
	}
	return id, otherTags
}

func coordinates(values ...float64) string {
	var result []string
	for _, v := range values {
		result = append(result, geometry.FormatCoordinate(v))
	}
	return strings.Join(result, ", ")
}

func tagsString(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result []string
	for _, k := range keys {
		result = append(result, k+"="+tags[k])
	}
	return "{" + strings.Join(result, " ") + "}"
}
