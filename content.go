package fogrid

import (
	"image"
	"sync"
)

// Content is the image shown in one cell.
type Content struct {
	Image image.Image
	// Name is where the image came from, for display and logs.
	Name string
}

// Width returns the image width in pixels.
func (c *Content) Width() int { return c.Image.Bounds().Dx() }

// Height returns the image height in pixels.
func (c *Content) Height() int { return c.Image.Bounds().Dy() }

// ContentStore is the read side of the cell contents. The engine only ever
// reads from it.
type ContentStore interface {
	Get(key CellKey) (*Content, bool)
	Occupancy() Occupancy
}

// MemoryStore is an in-memory ContentStore. It is safe for concurrent use,
// so images can be loaded on a background goroutine while the engine ticks.
type MemoryStore struct {
	mu      sync.RWMutex
	cells   map[CellKey]*Content
	version uint64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cells: make(map[CellKey]*Content)}
}

// Get returns the content at key.
func (s *MemoryStore) Get(key CellKey) (*Content, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cells[key]
	return c, ok
}

// Set stores c at key, replacing whatever was there. A nil c deletes.
func (s *MemoryStore) Set(key CellKey, c *Content) {
	if c == nil {
		s.Delete(key)
		return
	}
	s.mu.Lock()
	s.cells[key] = c
	s.version++
	s.mu.Unlock()
}

// Delete removes the content at key.
func (s *MemoryStore) Delete(key CellKey) {
	s.mu.Lock()
	if _, ok := s.cells[key]; ok {
		delete(s.cells, key)
		s.version++
	}
	s.mu.Unlock()
}

// Clear removes every cell.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	if len(s.cells) > 0 {
		s.cells = make(map[CellKey]*Content)
		s.version++
	}
	s.mu.Unlock()
}

// Len returns the number of occupied cells.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cells)
}

// Version increases on every mutation.
func (s *MemoryStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Occupancy returns a snapshot of the occupied cells.
func (s *MemoryStore) Occupancy() Occupancy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	occ := make(Occupancy, len(s.cells))
	for k := range s.cells {
		occ[k] = true
	}
	return occ
}

// Keys returns the occupied cells sorted row-major.
func (s *MemoryStore) Keys() []CellKey {
	s.mu.RLock()
	set := make(CellSet, len(s.cells))
	for k := range s.cells {
		set.Add(k)
	}
	s.mu.RUnlock()
	return set.Keys()
}
