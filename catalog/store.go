package catalog

import "sort"

// Category classifies a texture by the asset tree it came from. The
// singular/plural directory spellings found in archives are normalized to
// these values at the path-matching boundary and never propagated inward.
type Category int

const (
	// Item textures come from assets/<ns>/textures/item(s)/.
	Item Category = iota

	// Block textures come from assets/<ns>/textures/block(s)/.
	Block

	// Entity textures come from assets/<ns>/textures/entity/.
	Entity
)

// Dir returns the normalized on-disk directory name for the category.
func (c Category) Dir() string {
	switch c {
	case Item:
		return "item"
	case Block:
		return "block"
	case Entity:
		return "entity"
	}
	return "unknown"
}

// Entry is a catalog value: the extracted texture's path relative to the
// output root, plus the category it was discovered under.
type Entry struct {
	Path     string
	Category Category
}

// Store is an identifier-keyed registry with insert-if-absent semantics.
// The first writer for a key always wins; scan order acts as priority.
type Store struct {
	m map[string]Entry
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{m: make(map[string]Entry)}
}

// Put registers e under key unless the key is already present. It reports
// whether the entry was stored. Registering the same pair twice leaves the
// store unchanged.
func (s *Store) Put(key string, e Entry) bool {
	if _, ok := s.m[key]; ok {
		return false
	}
	s.m[key] = e
	return true
}

// Get returns the entry for key.
func (s *Store) Get(key string) (Entry, bool) {
	e, ok := s.m[key]
	return e, ok
}

// Has reports whether key is registered.
func (s *Store) Has(key string) bool {
	_, ok := s.m[key]
	return ok
}

// Len returns the number of registered keys.
func (s *Store) Len() int {
	return len(s.m)
}

// Keys returns all registered keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
