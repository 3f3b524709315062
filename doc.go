// Package fogrid is an infinite image board for [Ebitengine]: a square grid
// that pans and zooms under a camera, tracks the hovered cell, and hides
// everything that is not near an image under a soft, drifting fog.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	store := fogrid.NewMemoryStore()
//	store.Set(fogrid.CellKey{}, &fogrid.Content{Image: img})
//	engine, _ := fogrid.NewEngine(fogrid.DefaultConfig(), store, 1280, 720)
//	fogrid.Run(engine, fogrid.RunConfig{Title: "Board", Width: 1280, Height: 720})
//
// For full control, feed input to the [Engine] yourself and call
// [Engine.Tick] once per frame, then draw with a [Renderer]:
//
//	func (g *Game) Update() error        { g.engine.Tick(time.Second / 60); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.renderer.Draw(s, g.engine) }
//
// # Coordinates
//
// Cells are addressed by [CellKey] (row grows downward). World space is
// measured in cells; the camera maps it to screen pixels through its
// origin and zoom. See [WorldToScreen], [ScreenToCell] and
// [CellToScreenRect].
//
// # Camera
//
// [Camera] combines drag panning with inertia, zoom that eases toward a
// target while keeping the point under the cursor fixed, and a "fly" that
// glides the origin to a target. Motion is time based, so behaviour does
// not depend on the frame rate.
//
// # Hover
//
// [HoverTracker] follows the pointer. A keyboard step or recenter locks the
// hover on its cell; the next pointer move consumes the lock instead of
// moving the hover, so the selection does not jump when the camera slides
// under a still pointer.
//
// # Fog
//
// Every occupied cell reveals its neighbourhood ([VisibilityEngine]). The
// [FogMask] starts fully opaque and has feathered holes cut for visible
// cells, with irregular creep along the frontier. The renderer fills the
// fog with a tileable [NoiseTexture] that drifts over time.
//
// # Hooks
//
// [Engine.OnHoverChange] registers callbacks; [Engine.SetFeedback] installs
// hover sounds (see package sfx); [Engine.SetEventSink] forwards grid
// events, for example into a Donburi world (see package ecs).
//
// # Scripted input
//
// [LoadScript] parses a JSON script of pointer, wheel, key and expectation
// steps that a [ScriptRunner] replays one per tick, and [Engine.InjectMove]
// and friends queue synthetic input directly. Screenshot steps write PNG
// captures of the drawn frame.
//
// [Ebitengine]: https://ebitengine.org
package fogrid
