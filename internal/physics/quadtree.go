package physics

import "github.com/tomz197/orbitduel/internal/geom"

// QuadTree defaults. Nodes subdivide past maxObjects entries until maxLevels
// depth, after which they hold everything handed to them.
const (
	quadTreeMaxObjects = 4
	quadTreeMaxLevels  = 5
)

// Item is an entry in the quadtree: an index into the caller's object slice
// plus the circle it occupies. The tree never touches the objects themselves.
type Item struct {
	Index  int
	Pos    geom.Vec2
	Radius float64
}

// QuadTree is a recursive spatial partition used to prune candidate collision
// pairs. It is rebuilt from scratch every frame; object counts are small and
// positions all change, so a cheap rebuild beats incremental maintenance.
type QuadTree struct {
	root  *quadNode
	count int
}

type quadNode struct {
	center     geom.Vec2
	halfW      float64
	halfH      float64
	level      int
	maxObjects int
	maxLevels  int
	items      []Item
	children   [4]*quadNode // NW, NE, SW, SE; nil until subdivided
}

// NewQuadTree creates a tree covering a region centered at center with the
// given total width and height.
func NewQuadTree(center geom.Vec2, width, height float64) *QuadTree {
	return &QuadTree{
		root: &quadNode{
			center:     center,
			halfW:      width / 2,
			halfH:      height / 2,
			maxObjects: quadTreeMaxObjects,
			maxLevels:  quadTreeMaxLevels,
		},
	}
}

// NewQuadTreeCell is like NewQuadTree but caps subdivision so leaf
// nodes stay at least cellSize wide. Coarser cells build a shallower,
// cheaper tree at the cost of more narrow-phase candidates.
func NewQuadTreeCell(center geom.Vec2, width, height, cellSize float64) *QuadTree {
	levels := 0
	for w := width / 2; levels < quadTreeMaxLevels && w >= cellSize; levels++ {
		w /= 2
	}
	t := NewQuadTree(center, width, height)
	t.root.maxLevels = levels
	return t
}

// Len returns the number of items inserted.
func (t *QuadTree) Len() int {
	return t.count
}

// Insert places an item in the deepest node that fully contains it.
// Returns false if the item lies outside the tree's region.
func (t *QuadTree) Insert(item Item) bool {
	if !t.root.contains(item) {
		return false
	}
	t.root.insert(item)
	t.count++
	return true
}

// Retrieve appends to dst every item that could overlap the given circle:
// all items held by nodes on the descent path, plus either the one child
// quadrant the circle fits into or all four when it straddles a boundary.
// The result is a superset of the true overlap set; callers run the narrow
// phase on it.
func (t *QuadTree) Retrieve(pos geom.Vec2, radius float64, dst []Item) []Item {
	return t.root.retrieve(pos, radius, dst)
}

func (n *quadNode) contains(item Item) bool {
	return item.Pos.X-item.Radius >= n.center.X-n.halfW &&
		item.Pos.X+item.Radius <= n.center.X+n.halfW &&
		item.Pos.Y-item.Radius >= n.center.Y-n.halfH &&
		item.Pos.Y+item.Radius <= n.center.Y+n.halfH
}

// quadrant returns which child an object fully fits into, or -1 if it
// straddles a midline and must stay at this node.
func (n *quadNode) quadrant(pos geom.Vec2, radius float64) int {
	inTop := pos.Y+radius <= n.center.Y
	inBottom := pos.Y-radius >= n.center.Y
	inLeft := pos.X+radius <= n.center.X
	inRight := pos.X-radius >= n.center.X

	switch {
	case inTop && inLeft:
		return 0
	case inTop && inRight:
		return 1
	case inBottom && inLeft:
		return 2
	case inBottom && inRight:
		return 3
	}
	return -1
}

func (n *quadNode) insert(item Item) {
	if n.children[0] != nil {
		if q := n.quadrant(item.Pos, item.Radius); q != -1 {
			n.children[q].insert(item)
			return
		}
	}

	n.items = append(n.items, item)

	if len(n.items) > n.maxObjects && n.level < n.maxLevels && n.children[0] == nil {
		n.subdivide()

		// Push items that fit a single child down; straddlers stay here.
		kept := n.items[:0]
		for _, it := range n.items {
			if q := n.quadrant(it.Pos, it.Radius); q != -1 {
				n.children[q].insert(it)
			} else {
				kept = append(kept, it)
			}
		}
		n.items = kept
	}
}

func (n *quadNode) subdivide() {
	qw := n.halfW / 2
	qh := n.halfH / 2
	offsets := [4]geom.Vec2{
		{X: -qw, Y: -qh}, // NW
		{X: qw, Y: -qh},  // NE
		{X: -qw, Y: qh},  // SW
		{X: qw, Y: qh},   // SE
	}
	for i, off := range offsets {
		n.children[i] = &quadNode{
			center:     n.center.Add(off),
			halfW:      qw,
			halfH:      qh,
			level:      n.level + 1,
			maxObjects: n.maxObjects,
			maxLevels:  n.maxLevels,
		}
	}
}

func (n *quadNode) retrieve(pos geom.Vec2, radius float64, dst []Item) []Item {
	dst = append(dst, n.items...)

	if n.children[0] == nil {
		return dst
	}

	if q := n.quadrant(pos, radius); q != -1 {
		return n.children[q].retrieve(pos, radius, dst)
	}
	for _, child := range n.children {
		dst = child.retrieve(pos, radius, dst)
	}
	return dst
}
