package fogrid

// Occupancy maps a cell to whether it holds content. It is a read-only
// snapshot supplied by the content store.
type Occupancy map[CellKey]bool

// VisibilityEngine derives the revealed cells from occupancy. Every call to
// Recompute rebuilds the set from scratch.
type VisibilityEngine struct {
	radius  int
	visible CellSet
}

// NewVisibilityEngine creates an engine revealing a Moore neighborhood of
// the given radius around each occupied cell.
func NewVisibilityEngine(radius int) *VisibilityEngine {
	if radius < 0 {
		radius = 0
	}
	return &VisibilityEngine{radius: radius, visible: CellSet{}}
}

// Radius returns the neighborhood radius.
func (v *VisibilityEngine) Radius() int { return v.radius }

// Visible returns the set computed by the last Recompute. It MUST NOT be
// mutated.
func (v *VisibilityEngine) Visible() CellSet { return v.visible }

// Recompute returns every cell within Chebyshev distance radius of an
// occupied cell. With nothing occupied, the origin cell is the only seed.
func (v *VisibilityEngine) Recompute(occ Occupancy) CellSet {
	r := v.radius
	visible := make(CellSet, (len(occ)+1)*(2*r+1)*(2*r+1))
	seeded := false
	for k, has := range occ {
		if !has {
			continue
		}
		seeded = true
		addNeighborhood(visible, k, r)
	}
	if !seeded {
		addNeighborhood(visible, CellKey{}, r)
	}
	v.visible = visible
	return visible
}

func addNeighborhood(s CellSet, center CellKey, r int) {
	for dr := -r; dr <= r; dr++ {
		for dc := -r; dc <= r; dc++ {
			s.Add(center.Offset(dr, dc))
		}
	}
}

// edgeOffsets lists the 4-neighbours in side order: top, right, bottom, left.
var edgeOffsets = [4]CellKey{{Row: -1}, {Col: 1}, {Row: 1}, {Col: -1}}

// Ring returns the cells outside visible that share an edge with at least
// one visible cell.
func Ring(visible CellSet) CellSet {
	ring := CellSet{}
	for k := range visible {
		for _, d := range edgeOffsets {
			n := k.Offset(d.Row, d.Col)
			if !visible.Has(n) {
				ring.Add(n)
			}
		}
	}
	return ring
}
