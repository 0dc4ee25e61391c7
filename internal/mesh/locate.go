package mesh

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// indexedCell is the rtree entry for one in-domain cell.
type indexedCell struct {
	geom.Polygonal
	id int
}

// Locator answers nearest-cell queries over the in-domain cells of a mesh.
type Locator struct {
	m       *Mesh
	tree    *rtree.Rtree
	initial float64
}

// NewLocator indexes the in-domain cells of m.
func NewLocator(m *Mesh) *Locator {
	tree := rtree.NewTree(25, 50)
	for i := range m.cells {
		c := &m.cells[i]
		if !c.InDomain {
			continue
		}
		tree.Insert(&indexedCell{
			Polygonal: geom.Polygon{{c.Vertices[0], c.Vertices[1], c.Vertices[2]}},
			id:        c.ID,
		})
	}
	b := m.bounds
	span := math.Max(b.Max.X-b.Min.X, b.Max.Y-b.Min.Y)
	initial := span / math.Sqrt(float64(m.inDomain))
	if initial <= 0 {
		initial = math.SmallestNonzeroFloat64
	}
	return &Locator{m: m, tree: tree, initial: initial}
}

// Nearest returns the in-domain cell whose centre is closest to p. Ties
// resolve to the lowest id. The search box doubles until the best candidate
// is provably closer than anything outside the box.
func (l *Locator) Nearest(p geom.Point) (int, bool) {
	if l.m.inDomain == 0 {
		return -1, false
	}
	limit := l.reach(p)
	half := l.initial
	for {
		best, bestD := -1, math.Inf(1)
		box := &geom.Bounds{
			Min: geom.Point{X: p.X - half, Y: p.Y - half},
			Max: geom.Point{X: p.X + half, Y: p.Y + half},
		}
		for _, hit := range l.tree.SearchIntersect(box) {
			c := hit.(*indexedCell)
			d := PointDistance(p, l.m.cells[c.id].Center)
			if d < bestD || (d == bestD && c.id < best) {
				best, bestD = c.id, d
			}
		}
		if best >= 0 && (bestD <= half || half >= limit) {
			return best, true
		}
		if half >= limit {
			return -1, false
		}
		half *= 2
	}
}

// reach is the distance from p to the farthest corner of the mesh bounds.
// A box of that half-width covers every cell.
func (l *Locator) reach(p geom.Point) float64 {
	b := l.m.bounds
	dx := math.Max(math.Abs(p.X-b.Min.X), math.Abs(p.X-b.Max.X))
	dy := math.Max(math.Abs(p.Y-b.Min.Y), math.Abs(p.Y-b.Max.Y))
	return math.Hypot(dx, dy)
}
