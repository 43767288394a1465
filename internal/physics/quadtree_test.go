package physics

import (
	"math/rand"
	"testing"

	"github.com/tomz197/orbitduel/internal/geom"
)

func TestQuadTreeNoFalseNegatives(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const (
		worldSize = 2000.0
		n         = 200
	)

	type circle struct {
		pos    geom.Vec2
		radius float64
	}

	circles := make([]circle, n)
	tree := NewQuadTree(geom.Vec2{}, worldSize, worldSize)
	for i := range circles {
		circles[i] = circle{
			pos: geom.Vec2{
				X: (rng.Float64() - 0.5) * (worldSize - 100),
				Y: (rng.Float64() - 0.5) * (worldSize - 100),
			},
			radius: 1 + rng.Float64()*20,
		}
		if !tree.Insert(Item{Index: i, Pos: circles[i].pos, Radius: circles[i].radius}) {
			t.Fatalf("insert rejected in-bounds circle %d", i)
		}
	}

	if tree.Len() != n {
		t.Fatalf("tree.Len() = %d, want %d", tree.Len(), n)
	}

	// Every truly overlapping pair must appear in the candidate set.
	var buf []Item
	for i, a := range circles {
		buf = tree.Retrieve(a.pos, a.radius, buf[:0])
		candidates := make(map[int]bool, len(buf))
		for _, it := range buf {
			candidates[it.Index] = true
		}

		for j, b := range circles {
			if i == j {
				continue
			}
			minDist := a.radius + b.radius
			if a.pos.Sub(b.pos).LengthSquared() < minDist*minDist {
				if !candidates[j] {
					t.Fatalf("overlapping circle %d missing from candidates of %d", j, i)
				}
			}
		}
	}
}

func TestQuadTreeRejectsOutOfBounds(t *testing.T) {
	tree := NewQuadTree(geom.Vec2{}, 100, 100)

	if tree.Insert(Item{Pos: geom.Vec2{X: 200}, Radius: 1}) {
		t.Error("insert accepted circle outside the region")
	}
	// Straddling the region edge does not fit either.
	if tree.Insert(Item{Pos: geom.Vec2{X: 49}, Radius: 5}) {
		t.Error("insert accepted circle poking outside the region")
	}
	if tree.Len() != 0 {
		t.Errorf("tree.Len() = %d after rejected inserts", tree.Len())
	}
}

func TestQuadTreeStraddlersStayAtParent(t *testing.T) {
	tree := NewQuadTree(geom.Vec2{}, 1000, 1000)

	// Force a subdivision with objects clustered in one quadrant.
	for i := 0; i < 6; i++ {
		tree.Insert(Item{Index: i, Pos: geom.Vec2{X: -200 - float64(i)*10, Y: -200}, Radius: 2})
	}
	// A circle on the center straddles all quadrants and stays at the root,
	// so it must be a candidate for any query.
	tree.Insert(Item{Index: 99, Pos: geom.Vec2{}, Radius: 10})

	got := tree.Retrieve(geom.Vec2{X: 240, Y: 240}, 2, nil)
	found := false
	for _, it := range got {
		if it.Index == 99 {
			found = true
		}
	}
	if !found {
		t.Error("straddling item not returned for far-quadrant query")
	}
}

func TestQuadTreeDepthBounded(t *testing.T) {
	tree := NewQuadTree(geom.Vec2{}, 1000, 1000)

	// Pile many coincident circles on one spot; subdivision cannot separate
	// them, so depth must stop at maxLevels rather than recursing forever.
	for i := 0; i < 200; i++ {
		tree.Insert(Item{Index: i, Pos: geom.Vec2{X: 100.5, Y: 100.5}, Radius: 1})
	}

	depth := 0
	for n := tree.root; n != nil; {
		depth++
		var next *quadNode
		for _, c := range n.children {
			if c != nil && len(c.items) > 0 {
				next = c
			}
		}
		n = next
	}
	if depth > quadTreeMaxLevels+1 {
		t.Errorf("tree depth %d exceeds bound %d", depth, quadTreeMaxLevels+1)
	}
}

func TestQuadTreeCellCapsDepth(t *testing.T) {
	// Leaves must stay at least cellSize wide: 1000 wide halves to 500,
	// 250, 125; one more split would drop below 100.
	tree := NewQuadTreeCell(geom.Vec2{}, 1000, 1000, 100)
	if got := tree.root.maxLevels; got != 3 {
		t.Errorf("maxLevels = %d for cell 100 in span 1000, want 3", got)
	}

	// A cell wider than the region allows no subdivision at all.
	flat := NewQuadTreeCell(geom.Vec2{}, 1000, 1000, 600)
	if got := flat.root.maxLevels; got != 0 {
		t.Errorf("maxLevels = %d for oversized cell, want 0", got)
	}

	// Tiny cells still respect the global depth bound.
	deep := NewQuadTreeCell(geom.Vec2{}, 1000, 1000, 1)
	if got := deep.root.maxLevels; got != quadTreeMaxLevels {
		t.Errorf("maxLevels = %d for tiny cell, want %d", got, quadTreeMaxLevels)
	}
}
