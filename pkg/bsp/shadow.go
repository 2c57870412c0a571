package bsp

import "github.com/taigrr/bspshade/pkg/math3d"

// caster carries one shadow-volume pass through a mesh tree. shadow is the
// second tree that accumulates the volumes cast by the triangles processed
// so far; it starts as a single outside leaf.
type caster struct {
	shadow    *node
	pos       math3d.Point
	view      bool
	intensity float64

	lit      int // fragments reaching an outside leaf
	occluded int // fragments reaching an inside leaf
}

func newCaster(pos math3d.Point, view bool, intensity float64) *caster {
	return &caster{
		shadow:    &node{out: true},
		pos:       pos,
		view:      view,
		intensity: intensity,
	}
}

// ShineLight adds the contribution of a point light of the given intensity
// to every triangle it reaches, scaled by the inverse square of the mean
// distance from the light to the triangle's corners. Occluded triangles get
// nothing. Repeated calls accumulate.
//
// Lit triangles may be split along shadow boundaries; the pieces replace
// them in the tree.
func (t *Tree) ShineLight(light math3d.Point, intensity float64) {
	c := newCaster(light, false, intensity)
	c.cut(t.root)

	if debugEnabled() {
		Logger().Debug("bsp: light cast",
			"light", light,
			"intensity", intensity,
			"lit", c.lit,
			"shadowed", c.occluded,
			"triangles", t.Len())
	}
}

// LookFrom marks every triangle as visible or hidden when seen from eye.
// Triangles facing away from eye are flagged back-facing and hidden.
// Partially hidden triangles are split along occlusion boundaries.
func (t *Tree) LookFrom(eye math3d.Point) {
	c := newCaster(eye, true, 0)
	c.cut(t.root)

	if debugEnabled() {
		Logger().Debug("bsp: view cast",
			"eye", eye,
			"visible", c.lit,
			"hidden", c.occluded,
			"triangles", t.Len())
	}
}

// cut walks the mesh tree from the side containing the caster outwards,
// feeding every triangle that faces it through the shadow tree.
func (c *caster) cut(n *node) {
	if len(n.triangles) == 0 {
		return
	}

	side := n.partition.ClassifyPoint(c.pos)
	near, far := n.front, n.back
	if side < 0 {
		near, far = n.back, n.front
	}

	if near != nil {
		c.cut(near)
	}

	// Triangles in the caster's own plane neither cast nor receive.
	if side != 0 {
		kept := make([]Triangle, 0, len(n.triangles))
		for _, tri := range n.triangles {
			switch {
			case tri.facing(c.pos):
				if c.view {
					tri = tri.WithBackFacing(false)
				}
				kept = c.add(c.shadow, tri, kept)
			case c.view:
				kept = append(kept, tri.WithBackFacing(true).WithVisibility(false))
			default:
				kept = append(kept, tri)
			}
		}
		n.triangles = kept
	}

	if far != nil {
		c.cut(far)
	}
}

// add pushes tri down the shadow tree rooted at n and appends the pieces
// that reach a leaf to dst. A piece reaching an outside leaf is lit (or seen)
// and extends the shadow volume with the three planes through the caster and
// its edges.
func (c *caster) add(n *node, tri Triangle, dst []Triangle) []Triangle {
	if n.leaf() {
		if n.out {
			n.insert(NewTriangle(c.pos, tri.a, tri.b, tri.id))
			n.insert(NewTriangle(c.pos, tri.b, tri.c, tri.id))
			n.insert(NewTriangle(c.pos, tri.c, tri.a, tri.id))
			if c.view {
				tri = tri.WithVisibility(true)
			} else {
				d := tri.meanDistance(c.pos)
				tri = tri.Illuminate(c.intensity / (d * d))
			}
			c.lit++
		} else {
			if c.view {
				tri = tri.WithVisibility(false)
			}
			c.occluded++
		}
		return append(dst, tri)
	}

	switch n.partition.ClassifyTriangle(tri) {
	case Coincident:
		// Kept by the shadow tree, as Insert does; it leaves the mesh.
		n.triangles = append(n.triangles, tri)
	case InBackOf:
		dst = c.add(n.back, tri, dst)
	case InFrontOf:
		dst = c.add(n.front, tri, dst)
	case Span:
		n.partition.Split(tri).route(func(piece Triangle, front bool) {
			child := n.back
			if front {
				child = n.front
			}
			dst = c.add(child, piece, dst)
		})
	}
	return dst
}
