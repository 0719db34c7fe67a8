package osm

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"sqt/feature"
	"sqt/quadtree"
)

// TreeLoader inserts every OSM node as feature into a tree. Nodes outside of the tree bounds are counted as skipped,
// ways and relations are ignored since they have no single location.
type TreeLoader struct {
	tree *feature.Tree

	// TaggedOnly skips nodes without any tags. Such nodes are usually only part of ways.
	TaggedOnly bool

	Loaded  int
	Skipped int
}

func NewTreeLoader(tree *feature.Tree, taggedOnly bool) *TreeLoader {
	return &TreeLoader{
		tree:       tree,
		TaggedOnly: taggedOnly,
	}
}

func (l *TreeLoader) Name() string {
	return "TreeLoader"
}

func (l *TreeLoader) Init() error {
	l.Loaded = 0
	l.Skipped = 0
	return nil
}

func (l *TreeLoader) HandleNode(node *osm.Node) error {
	if l.TaggedOnly && len(node.Tags) == 0 {
		return nil
	}

	point, f := feature.FromOsmNode(node)
	err := l.tree.Insert(point, f)

	var outOfBoundsError *quadtree.OutOfBoundsError
	if errors.As(err, &outOfBoundsError) {
		if sigolo.ShouldLogTrace() {
			sigolo.Tracef("Skip node %d: %s", node.ID, outOfBoundsError.Error())
		}
		l.Skipped++
		return nil
	} else if err != nil {
		return err
	}

	l.Loaded++
	return nil
}

func (l *TreeLoader) HandleWay(way *osm.Way) error {
	return nil
}

func (l *TreeLoader) HandleRelation(relation *osm.Relation) error {
	return nil
}

func (l *TreeLoader) Done() error {
	sigolo.Debugf("Loaded %d nodes into tree, skipped %d nodes outside of the bounds %s", l.Loaded, l.Skipped, l.tree.Bounds().String())
	return nil
}
