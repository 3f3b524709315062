package fogrid

import (
	"sync"
	"testing"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	s := NewMemoryStore()
	k := CellKey{Row: 2, Col: -1}
	if _, ok := s.Get(k); ok {
		t.Fatal("empty store returned content")
	}
	c := testContent(10, 20)
	s.Set(k, c)
	if got, ok := s.Get(k); !ok || got != c {
		t.Fatalf("Get = %v, %v", got, ok)
	}
	if got, _ := s.Get(k); got.Width() != 10 || got.Height() != 20 {
		t.Errorf("size = %dx%d, want 10x20", got.Width(), got.Height())
	}
	s.Delete(k)
	if _, ok := s.Get(k); ok {
		t.Error("content still present after Delete")
	}
}

func TestMemoryStoreSetNilDeletes(t *testing.T) {
	s := NewMemoryStore()
	s.Set(CellKey{}, testContent(1, 1))
	s.Set(CellKey{}, nil)
	if s.Len() != 0 {
		t.Errorf("Len = %d after Set(nil), want 0", s.Len())
	}
}

func TestMemoryStoreVersion(t *testing.T) {
	s := NewMemoryStore()
	v0 := s.Version()
	s.Set(CellKey{}, testContent(1, 1))
	v1 := s.Version()
	if v1 <= v0 {
		t.Error("Set did not bump the version")
	}
	s.Delete(CellKey{Row: 9})
	if s.Version() != v1 {
		t.Error("deleting a missing key bumped the version")
	}
	s.Clear()
	if s.Version() <= v1 || s.Len() != 0 {
		t.Error("Clear did not empty the store and bump the version")
	}
}

func TestMemoryStoreOccupancyAndKeys(t *testing.T) {
	s := NewMemoryStore()
	for _, k := range []CellKey{{Row: 1, Col: 1}, {Row: -1, Col: 0}, {Row: 1, Col: -3}} {
		s.Set(k, testContent(1, 1))
	}
	occ := s.Occupancy()
	if len(occ) != 3 || !occ[CellKey{Row: -1}] {
		t.Errorf("Occupancy = %v", occ)
	}
	// The snapshot is detached from the store.
	occ[CellKey{Row: 50}] = true
	if _, ok := s.Get(CellKey{Row: 50}); ok {
		t.Error("mutating the snapshot changed the store")
	}
	keys := s.Keys()
	want := []CellKey{{Row: -1, Col: 0}, {Row: 1, Col: -3}, {Row: 1, Col: 1}}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestMemoryStoreConcurrentWrites(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Set(CellKey{Row: i, Col: j}, testContent(1, 1))
				_ = s.Occupancy()
			}
		}(i)
	}
	wg.Wait()
	if s.Len() != 400 {
		t.Errorf("Len = %d, want 400", s.Len())
	}
}
