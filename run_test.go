package fogrid

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestCursorShape(t *testing.T) {
	tests := []struct {
		hint CursorHint
		want ebiten.CursorShapeType
	}{
		{CursorDefault, ebiten.CursorShapeDefault},
		{CursorPointer, ebiten.CursorShapePointer},
		{CursorGrab, ebiten.CursorShapeMove},
		{CursorGrabbing, ebiten.CursorShapeMove},
	}
	for _, tt := range tests {
		if got := cursorShape(tt.hint); got != tt.want {
			t.Errorf("cursorShape(%d) = %v, want %v", tt.hint, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	tests := []struct{ v, n, want float64 }{
		{5, 4, 1},
		{-1, 4, 3},
		{8, 4, 0},
		{0, 4, 0},
	}
	for _, tt := range tests {
		if got := wrap(tt.v, tt.n); !approxEqual(got, tt.want, epsilon) {
			t.Errorf("wrap(%v,%v) = %v, want %v", tt.v, tt.n, got, tt.want)
		}
	}
}
