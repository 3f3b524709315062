// Package ecs bridges fogrid into a [Donburi] world.
//
// [NewDonburiSink] publishes grid events (hover changes, recenter and
// keyboard steps) as typed Donburi events. Subscribe to [GridEventType] in
// your ECS systems to receive them.
//
// [WorldStore] goes the other way: it serves cell contents from entities
// carrying a [CellComponent], so game systems can place and remove images
// by creating and destroying entities.
//
// Usage:
//
//	world := donburi.NewWorld()
//	store := ecs.NewWorldStore(world)
//	engine, _ := fogrid.NewEngine(fogrid.DefaultConfig(), store, 1280, 720)
//	engine.SetEventSink(ecs.NewDonburiSink(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
