package ecs

import (
	"github.com/phanxgames/fogrid"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// GridEventType is the Donburi event type for fogrid grid events.
var GridEventType = events.NewEventType[fogrid.GridEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to GridEventType and can be consumed with events.Subscribe and
// ProcessEvents.
func NewDonburiSink(world donburi.World) fogrid.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event fogrid.GridEvent) {
	GridEventType.Publish(s.world, event)
}

// Cell places content on the grid.
type Cell struct {
	Key     fogrid.CellKey
	Content *fogrid.Content
}

// CellComponent marks an entity as grid content.
var CellComponent = donburi.NewComponentType[Cell]()

var cellQuery = donburi.NewQuery(filter.Contains(CellComponent))

// WorldStore is a fogrid.ContentStore that reads cells from a Donburi
// world. Lookups go through a key index that is rebuilt whenever the number
// of cell entities changes or an indexed entity no longer matches its key.
// When two entities share a key the most recently indexed one wins. Editing
// the Key of a live Cell is not tracked; Remove and Place it instead.
type WorldStore struct {
	world   donburi.World
	index   map[fogrid.CellKey]donburi.Entity
	indexed int
}

var _ fogrid.ContentStore = (*WorldStore)(nil)

// NewWorldStore creates a store over world.
func NewWorldStore(world donburi.World) *WorldStore {
	s := &WorldStore{world: world}
	s.reindex()
	return s
}

// Place creates an entity holding c at key.
func (s *WorldStore) Place(key fogrid.CellKey, c *fogrid.Content) donburi.Entity {
	s.sync()
	ent := s.world.Create(CellComponent)
	CellComponent.SetValue(s.world.Entry(ent), Cell{Key: key, Content: c})
	s.index[key] = ent
	s.indexed++
	return ent
}

// Remove deletes every entity at key.
func (s *WorldStore) Remove(key fogrid.CellKey) {
	var doomed []donburi.Entity
	cellQuery.Each(s.world, func(entry *donburi.Entry) {
		if CellComponent.Get(entry).Key == key {
			doomed = append(doomed, entry.Entity())
		}
	})
	for _, ent := range doomed {
		s.world.Remove(ent)
	}
	s.reindex()
}

// Get implements fogrid.ContentStore.
func (s *WorldStore) Get(key fogrid.CellKey) (*fogrid.Content, bool) {
	s.sync()
	ent, ok := s.index[key]
	if !ok {
		return nil, false
	}
	cell, valid := s.cellOf(ent)
	if !valid || cell.Key != key {
		s.reindex()
		if ent, ok = s.index[key]; !ok {
			return nil, false
		}
		if cell, valid = s.cellOf(ent); !valid {
			return nil, false
		}
	}
	return cell.Content, cell.Content != nil
}

// cellOf returns the Cell component of ent if ent is still alive.
func (s *WorldStore) cellOf(ent donburi.Entity) (Cell, bool) {
	if !s.world.Valid(ent) {
		return Cell{}, false
	}
	entry := s.world.Entry(ent)
	if !entry.HasComponent(CellComponent) {
		return Cell{}, false
	}
	return *CellComponent.Get(entry), true
}

// sync rebuilds the index when entities were created or removed behind
// the store's back.
func (s *WorldStore) sync() {
	if cellQuery.Count(s.world) != s.indexed {
		s.reindex()
	}
}

func (s *WorldStore) reindex() {
	s.index = make(map[fogrid.CellKey]donburi.Entity)
	s.indexed = 0
	cellQuery.Each(s.world, func(entry *donburi.Entry) {
		s.index[CellComponent.Get(entry).Key] = entry.Entity()
		s.indexed++
	})
}

// Occupancy implements fogrid.ContentStore.
func (s *WorldStore) Occupancy() fogrid.Occupancy {
	occ := fogrid.Occupancy{}
	cellQuery.Each(s.world, func(entry *donburi.Entry) {
		if cell := CellComponent.Get(entry); cell.Content != nil {
			occ[cell.Key] = true
		}
	})
	return occ
}
