package storage

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"sqt/common"
	"sqt/feature"
	"sqt/geometry"
	"sqt/quadtree"
	"sync"
)

// Store guards a tree for concurrent use: any number of queries may run at the same time, mutations are exclusive.
// Query results are cached until the next mutation.
type Store struct {
	tree  *feature.Tree
	mutex *sync.RWMutex
	cache *lruQueryCache
}

type Stats struct {
	Bounds   geometry.Rectangle `json:"bounds"`
	Capacity int                `json:"capacity"`
	MaxDepth int                `json:"max-depth"`
	Items    int                `json:"items"`
	Nodes    int                `json:"nodes"`
	Height   int                `json:"height"`
}

// NewStore wraps the tree. A cacheSize of 0 disables the query cache. The tree must not be used directly afterwards.
func NewStore(tree *feature.Tree, cacheSize int) *Store {
	return &Store{
		tree:  tree,
		mutex: &sync.RWMutex{},
		cache: newLruQueryCache(cacheSize),
	}
}

func (s *Store) Insert(point geometry.Point, f *feature.Feature) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := s.tree.Insert(point, f)
	if err != nil {
		return err
	}

	s.cache.invalidate()
	return nil
}

// InsertAll inserts all items in the given order or none of them. When a point lies outside the tree, its
// *quadtree.OutOfBoundsError is returned and the tree stays unchanged.
func (s *Store) InsertAll(items []feature.Item) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for i, item := range items {
		if err := s.tree.CheckBounds(item.Point); err != nil {
			return 0, errors.Wrapf(err, "Feature %d cannot be inserted", i)
		}
	}

	for _, item := range items {
		err := s.tree.Insert(item.Point, item.Value)
		if err != nil {
			common.LogFatalBug("Insert of checked point %s failed: %+v", item.Point.String(), err)
		}
	}

	if len(items) > 0 {
		s.cache.invalidate()
	}
	return len(items), nil
}

func (s *Store) Query(region geometry.Rectangle) []feature.Item {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	key := region.String()
	if items, ok := s.cache.get(key); ok {
		if sigolo.ShouldLogTrace() {
			sigolo.Tracef("Use cached result for query %s", key)
		}
		return items
	}

	items := s.tree.Query(region)
	s.cache.put(key, items)
	return items
}

func (s *Store) Remove(point geometry.Point, matcher quadtree.Matcher[*feature.Feature]) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	removed := s.tree.Remove(point, matcher)
	if removed {
		s.cache.invalidate()
	}
	return removed
}

func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tree.Clear()
	s.cache.invalidate()
}

func (s *Store) Compact() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tree.Compact()
	s.cache.invalidate()
}

func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.tree.Len()
}

func (s *Store) Bounds() geometry.Rectangle {
	return s.tree.Bounds()
}

func (s *Store) Stats() Stats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return Stats{
		Bounds:   s.tree.Bounds(),
		Capacity: s.tree.Capacity(),
		MaxDepth: s.tree.MaxDepth(),
		Items:    s.tree.Len(),
		Nodes:    s.tree.NodeCount(),
		Height:   s.tree.Height(),
	}
}

// Read calls fn with the tree while holding the read lock. The tree must not be modified or retained by fn.
func (s *Store) Read(fn func(tree *feature.Tree) error) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return fn(s.tree)
}
