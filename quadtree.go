package driftwood

import "fmt"

// DefaultQuadTreeDepth controls recursion when no explicit depth is chosen.
// Depth 4 balances query precision against construction cost for typical
// tile buffers. Values <= 2 lose precision (more false-positive scans) and
// values >= 6 show diminishing returns.
const DefaultQuadTreeDepth = 4

// QuadTree is a static, depth-bounded spatial partition over a set of
// rectangles. It answers "which rectangles overlap this query rectangle".
//
// Items are stored at the node whose quadrants they straddle: an item that
// would belong to all four quadrants is kept at the current node rather than
// duplicated into children. Large axis-aligned rectangles therefore degrade
// to a node-local linear scan, which keeps the returned rectangles' value
// identity intact.
//
// A QuadTree is immutable after construction. The renderer rebuilds it
// whenever the tile-view footprint changes size, not on every scroll.
type QuadTree struct {
	boundary Rect
	cx, cy   float64
	items    []Rect
	nw, ne   *QuadTree
	sw, se   *QuadTree
}

// NewQuadTree builds a quadtree over items with the given maximum recursion
// depth. If boundary is nil, the union of all item rectangles is used.
// An empty item set is an error.
func NewQuadTree(items []Rect, depth int, boundary *Rect) (*QuadTree, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("quadtree: %w: items must not be empty", ErrInvalidArgument)
	}

	bounds := items[0]
	for _, r := range items[1:] {
		bounds = bounds.Union(r)
	}
	if boundary != nil {
		bounds = *boundary
	}
	return newQuadTreeNode(items, depth, bounds), nil
}

func newQuadTreeNode(items []Rect, depth int, boundary Rect) *QuadTree {
	c := boundary.Center()
	q := &QuadTree{boundary: boundary, cx: c.X, cy: c.Y}

	// Base case: store everything in this node.
	if depth <= 0 {
		q.items = append(q.items, items...)
		return q
	}

	var nwItems, neItems, swItems, seItems []Rect
	for _, r := range items {
		inNW := r.X <= q.cx && r.Y <= q.cy
		inSW := r.X <= q.cx && r.Y+r.Height >= q.cy
		inNE := r.X+r.Width >= q.cx && r.Y <= q.cy
		inSE := r.X+r.Width >= q.cx && r.Y+r.Height >= q.cy

		if inNW && inNE && inSW && inSE {
			// Straddles all four quadrants; keep here to avoid duplication.
			q.items = append(q.items, r)
			continue
		}
		if inNW {
			nwItems = append(nwItems, r)
		}
		if inNE {
			neItems = append(neItems, r)
		}
		if inSW {
			swItems = append(swItems, r)
		}
		if inSE {
			seItems = append(seItems, r)
		}
	}

	l, t := boundary.X, boundary.Y
	r, b := boundary.X+boundary.Width, boundary.Y+boundary.Height
	if len(nwItems) > 0 {
		q.nw = newQuadTreeNode(nwItems, depth-1, Rect{X: l, Y: t, Width: q.cx - l, Height: q.cy - t})
	}
	if len(neItems) > 0 {
		q.ne = newQuadTreeNode(neItems, depth-1, Rect{X: q.cx, Y: t, Width: r - q.cx, Height: q.cy - t})
	}
	if len(swItems) > 0 {
		q.sw = newQuadTreeNode(swItems, depth-1, Rect{X: l, Y: q.cy, Width: q.cx - l, Height: b - q.cy})
	}
	if len(seItems) > 0 {
		q.se = newQuadTreeNode(seItems, depth-1, Rect{X: q.cx, Y: q.cy, Width: r - q.cx, Height: b - q.cy})
	}
	return q
}

// Hit returns the set of item rectangles that overlap rect. Rectangles are
// returned by value, so duplicate-valued items collapse into one entry.
// Rectangles that only touch rect at an edge do not overlap.
func (q *QuadTree) Hit(rect Rect) map[Rect]struct{} {
	hits := make(map[Rect]struct{})
	q.hit(rect, hits)
	return hits
}

func (q *QuadTree) hit(rect Rect, hits map[Rect]struct{}) {
	if !q.boundary.Overlaps(rect) {
		return
	}
	for _, item := range q.items {
		if item.Overlaps(rect) {
			hits[item] = struct{}{}
		}
	}

	// Only recurse into quadrants the query can reach.
	if rect.X <= q.cx {
		if rect.Y <= q.cy && q.nw != nil {
			q.nw.hit(rect, hits)
		}
		if rect.Y+rect.Height >= q.cy && q.sw != nil {
			q.sw.hit(rect, hits)
		}
	}
	if rect.X+rect.Width >= q.cx {
		if rect.Y <= q.cy && q.ne != nil {
			q.ne.hit(rect, hits)
		}
		if rect.Y+rect.Height >= q.cy && q.se != nil {
			q.se.hit(rect, hits)
		}
	}
}

// Items returns every rectangle stored in the tree, in no particular order.
func (q *QuadTree) Items() []Rect {
	var out []Rect
	q.collect(&out)
	return out
}

func (q *QuadTree) collect(out *[]Rect) {
	*out = append(*out, q.items...)
	for _, child := range [...]*QuadTree{q.nw, q.ne, q.sw, q.se} {
		if child != nil {
			child.collect(out)
		}
	}
}
