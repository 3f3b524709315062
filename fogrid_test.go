package fogrid

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestParseCellKey(t *testing.T) {
	tests := []struct {
		in      string
		want    CellKey
		wantErr bool
	}{
		{"0:0", CellKey{}, false},
		{"3:-4", CellKey{Row: 3, Col: -4}, false},
		{" -12 : 7 ", CellKey{Row: -12, Col: 7}, false},
		{"1,2", CellKey{}, true},
		{"a:1", CellKey{}, true},
		{"1:", CellKey{}, true},
		{"", CellKey{}, true},
	}
	for _, tt := range tests {
		got, err := ParseCellKey(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCellKey(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCellKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCellKeyStringRoundTrip(t *testing.T) {
	for _, k := range []CellKey{{}, {Row: -3, Col: 9}, {Row: 100000, Col: -100000}} {
		got, err := ParseCellKey(k.String())
		if err != nil || got != k {
			t.Errorf("ParseCellKey(%q) = %v, %v; want %v", k.String(), got, err, k)
		}
	}
}

func TestCellKeyOffset(t *testing.T) {
	if got := (CellKey{Row: 1, Col: 1}).Offset(-2, 3); got != (CellKey{Row: -1, Col: 4}) {
		t.Errorf("Offset = %v, want -1:4", got)
	}
}

func TestCellSetEqual(t *testing.T) {
	a := CellSet{}
	b := CellSet{}
	a.Add(CellKey{Row: 1})
	a.Add(CellKey{Col: 1})
	b.Add(CellKey{Col: 1})
	if a.Equal(b) {
		t.Error("sets of different size reported equal")
	}
	b.Add(CellKey{Row: 1})
	if !a.Equal(b) || !b.Equal(a) {
		t.Error("sets with the same keys reported different")
	}
	b.Add(CellKey{Row: 5})
	a.Add(CellKey{Row: 6})
	if a.Equal(b) {
		t.Error("sets with different keys reported equal")
	}
}

func TestCellSetKeysSorted(t *testing.T) {
	s := CellSet{}
	for _, k := range []CellKey{{Row: 1, Col: 0}, {Row: -1, Col: 5}, {Row: 1, Col: -2}, {Row: 0, Col: 0}} {
		s.Add(k)
	}
	want := []CellKey{{Row: -1, Col: 5}, {Row: 0, Col: 0}, {Row: 1, Col: -2}, {Row: 1, Col: 0}}
	got := s.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keys[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRectIntersectsAndInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	if !r.Intersects(Rect{X: 10, Y: 0, Width: 5, Height: 5}) {
		t.Error("edge-sharing rects should intersect")
	}
	if r.Intersects(Rect{X: 11, Y: 0, Width: 5, Height: 5}) {
		t.Error("disjoint rects should not intersect")
	}
	in := r.Inset(2)
	if in != (Rect{X: 2, Y: 2, Width: 6, Height: 6}) {
		t.Errorf("Inset(2) = %v", in)
	}
	if !in.Contains(5, 5) || in.Contains(1, 5) {
		t.Error("Contains disagrees with the inset rect")
	}
}
