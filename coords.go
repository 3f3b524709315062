package fogrid

import "math"

// CameraView is the read-only slice of camera state the coordinate helpers
// need. Origin is the world-space top-left of the viewport in pixels,
// already scaled by Zoom.
type CameraView struct {
	Origin Vec2
	Zoom   float64
}

// CellSize returns the on-screen cell edge for a base size and zoom.
func CellSize(basePx, zoom float64) float64 {
	return basePx * zoom
}

// WorldToScreen converts a zoomed world point to viewport-local pixels.
func WorldToScreen(world Vec2, view CameraView) Vec2 {
	return world.Sub(view.Origin)
}

// ScreenToWorld converts viewport-local pixels to a zoomed world point.
func ScreenToWorld(screen Vec2, view CameraView) Vec2 {
	return screen.Add(view.Origin)
}

// ScreenToGrid converts viewport-local pixels to fractional grid
// coordinates (X = column axis, Y = row axis). The result does not depend
// on zoom, which makes it the natural "world point" for anchoring.
func ScreenToGrid(screen Vec2, view CameraView, cellSize float64) Vec2 {
	w := ScreenToWorld(screen, view)
	return Vec2{X: w.X / cellSize, Y: w.Y / cellSize}
}

// ScreenToCell returns the cell under a viewport-local point.
func ScreenToCell(screen Vec2, view CameraView, cellSize float64) CellKey {
	return CellKey{
		Row: int(math.Floor((screen.Y + view.Origin.Y) / cellSize)),
		Col: int(math.Floor((screen.X + view.Origin.X) / cellSize)),
	}
}

// CellToScreenRect returns the viewport-local rectangle covered by a cell.
func CellToScreenRect(cell CellKey, view CameraView, cellSize float64) Rect {
	return Rect{
		X:      float64(cell.Col)*cellSize - view.Origin.X,
		Y:      float64(cell.Row)*cellSize - view.Origin.Y,
		Width:  cellSize,
		Height: cellSize,
	}
}
