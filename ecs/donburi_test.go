package ecs

import (
	"image"
	"testing"
	"time"

	"github.com/phanxgames/fogrid"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func testContent(name string) *fogrid.Content {
	return &fogrid.Content{Image: image.NewNRGBA(image.Rect(0, 0, 8, 8)), Name: name}
}

func TestNewDonburiSink(t *testing.T) {
	world := donburi.NewWorld()
	if NewDonburiSink(world) == nil {
		t.Fatal("NewDonburiSink returned nil")
	}
}

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []fogrid.GridEvent
	GridEventType.Subscribe(world, func(w donburi.World, e fogrid.GridEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(fogrid.GridEvent{
		Type:     fogrid.EventHoverChanged,
		Key:      fogrid.CellKey{Row: 2, Col: -3},
		HasKey:   true,
		Occupied: true,
	})
	sink.EmitEvent(fogrid.GridEvent{Type: fogrid.EventNavigate, DRow: -1})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("got %d events before ProcessEvents", len(received))
	}
	GridEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != fogrid.EventHoverChanged || e.Key != (fogrid.CellKey{Row: 2, Col: -3}) || !e.Occupied {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != fogrid.EventNavigate || e.DRow != -1 {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	GridEventType.Subscribe(world, func(w donburi.World, e fogrid.GridEvent) { count1++ })
	GridEventType.Subscribe(world, func(w donburi.World, e fogrid.GridEvent) { count2++ })

	sink.EmitEvent(fogrid.GridEvent{Type: fogrid.EventRecenter})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}

func TestWorldStore_PlaceGetRemove(t *testing.T) {
	world := donburi.NewWorld()
	store := NewWorldStore(world)
	key := fogrid.CellKey{Row: 1, Col: 1}

	if _, ok := store.Get(key); ok {
		t.Fatal("empty world reports content")
	}
	c := testContent("a.png")
	store.Place(key, c)
	got, ok := store.Get(key)
	if !ok || got != c {
		t.Fatalf("Get = %v, %v; want placed content", got, ok)
	}
	if occ := store.Occupancy(); len(occ) != 1 || !occ[key] {
		t.Errorf("Occupancy = %v", occ)
	}

	store.Remove(key)
	if _, ok := store.Get(key); ok {
		t.Error("content still present after Remove")
	}
	if occ := store.Occupancy(); len(occ) != 0 {
		t.Errorf("Occupancy after Remove = %v", occ)
	}
}

func TestWorldStore_DrivesVisibility(t *testing.T) {
	world := donburi.NewWorld()
	store := NewWorldStore(world)
	store.Place(fogrid.CellKey{}, testContent("origin"))

	cfg := fogrid.DefaultConfig()
	cfg.NoiseSeed = 1
	e, err := fogrid.NewEngine(cfg, store, 320, 240)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.SetEventSink(NewDonburiSink(world))

	var hovered []fogrid.GridEvent
	GridEventType.Subscribe(world, func(w donburi.World, ev fogrid.GridEvent) {
		hovered = append(hovered, ev)
	})

	e.Tick(16 * time.Millisecond)
	GridEventType.ProcessEvents(world)

	if n := e.VisibleSet().Len(); n != 9 {
		t.Errorf("visible cells = %d, want 9", n)
	}
	if len(hovered) != 1 || hovered[0].Type != fogrid.EventHoverChanged || !hovered[0].Occupied {
		t.Errorf("events = %+v, want one occupied hover-changed", hovered)
	}
}

func TestWorldStore_IndexesPlacedCells(t *testing.T) {
	world := donburi.NewWorld()
	store := NewWorldStore(world)
	for i := 0; i < 50; i++ {
		store.Place(fogrid.CellKey{Row: i, Col: -i}, testContent("tile"))
	}
	if len(store.index) != 50 || store.indexed != 50 {
		t.Fatalf("index holds %d keys for %d entities, want 50/50", len(store.index), store.indexed)
	}
	for i := 0; i < 50; i++ {
		if _, ok := store.Get(fogrid.CellKey{Row: i, Col: -i}); !ok {
			t.Fatalf("cell %d:%d missing", i, -i)
		}
	}
	if _, ok := store.Get(fogrid.CellKey{Row: 1, Col: 1}); ok {
		t.Error("empty cell reports content")
	}
}

func TestWorldStore_DuplicateKeyNewestWins(t *testing.T) {
	world := donburi.NewWorld()
	store := NewWorldStore(world)
	key := fogrid.CellKey{Row: 2, Col: 3}
	store.Place(key, testContent("old"))
	newer := testContent("new")
	store.Place(key, newer)
	if got, _ := store.Get(key); got != newer {
		t.Errorf("Get = %v, want the newest content", got)
	}
}

func TestWorldStore_TracksEntitiesOutsideTheStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewWorldStore(world)
	key := fogrid.CellKey{Row: -1, Col: 4}

	// Created directly on the world.
	ent := world.Create(CellComponent)
	c := testContent("external")
	CellComponent.SetValue(world.Entry(ent), Cell{Key: key, Content: c})
	if got, ok := store.Get(key); !ok || got != c {
		t.Fatalf("Get = %v, %v; want the externally created cell", got, ok)
	}

	// Removed directly from the world.
	world.Remove(ent)
	if _, ok := store.Get(key); ok {
		t.Error("removed entity still reported")
	}

	// Removed and replaced by another entity, keeping the count equal.
	first := store.Place(key, testContent("first"))
	world.Remove(first)
	other := world.Create(CellComponent)
	moved := fogrid.CellKey{Row: 9, Col: 9}
	CellComponent.SetValue(world.Entry(other), Cell{Key: moved, Content: testContent("other")})
	if _, ok := store.Get(key); ok {
		t.Error("stale index entry survived a swap")
	}
	if _, ok := store.Get(moved); !ok {
		t.Error("swapped-in entity not found")
	}
}
