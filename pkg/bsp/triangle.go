// Package bsp partitions a static triangle mesh with a binary space
// partition tree, casts point-light and viewpoint shadow volumes through it,
// and orders the resulting triangles near to far for painter's-algorithm
// compositing.
//
// Tree shape is fully determined by input order: the first triangle of every
// bucket becomes the partition of its node. Callers wanting balanced trees
// shuffle their input before calling [Build].
package bsp

import (
	"fmt"

	"github.com/taigrr/bspshade/pkg/math3d"
)

// Triangle is an immutable triangle with shading attributes.
// Methods that change an attribute return a modified copy.
type Triangle struct {
	a, b, c    math3d.Point
	normal     math3d.Vec3
	id         int
	light      float64
	visible    bool
	backFacing bool
}

// NewTriangle creates a triangle with no light, visible and front-facing.
// The normal is (b-a)×(c-b) scaled to unit length; it is NaN for a
// zero-area triangle.
func NewTriangle(a, b, c math3d.Point, id int) Triangle {
	return Triangle{
		a:       a,
		b:       b,
		c:       c,
		normal:  faceNormal(a, b, c),
		id:      id,
		visible: true,
	}
}

// fragment creates a piece of src with corners a, b, c. Every attribute of
// src is inherited unchanged.
func fragment(a, b, c math3d.Point, src Triangle) Triangle {
	return Triangle{
		a:          a,
		b:          b,
		c:          c,
		normal:     faceNormal(a, b, c),
		id:         src.id,
		light:      src.light,
		visible:    src.visible,
		backFacing: src.backFacing,
	}
}

func faceNormal(a, b, c math3d.Point) math3d.Vec3 {
	n := b.Sub(a).Cross(c.Sub(b))
	return n.Div(n.Len())
}

// A returns the first corner.
func (t Triangle) A() math3d.Point { return t.a }

// B returns the second corner.
func (t Triangle) B() math3d.Point { return t.b }

// C returns the third corner.
func (t Triangle) C() math3d.Point { return t.c }

// Vertex returns corner i modulo 3.
func (t Triangle) Vertex(i int) math3d.Point {
	switch ((i % 3) + 3) % 3 {
	case 1:
		return t.b
	case 2:
		return t.c
	default:
		return t.a
	}
}

// Normal returns the unit normal computed at construction.
func (t Triangle) Normal() math3d.Vec3 { return t.normal }

// ID returns the caller-assigned identifier, shared by all fragments.
func (t Triangle) ID() int { return t.id }

// Light returns the accumulated illumination.
func (t Triangle) Light() float64 { return t.light }

// Visible reports whether the triangle was seen by the last LookFrom.
func (t Triangle) Visible() bool { return t.visible }

// BackFacing reports whether the triangle faced away from the last LookFrom.
func (t Triangle) BackFacing() bool { return t.backFacing }

// Valid reports whether the normal is well defined (no NaN component).
// Zero-area triangles are invalid and should not be fed to a tree.
func (t Triangle) Valid() bool {
	return !t.normal.IsNaN()
}

// Area returns the surface area.
func (t Triangle) Area() float64 {
	return t.b.Sub(t.a).Cross(t.c.Sub(t.a)).Len() / 2
}

// Illuminate returns a copy with amount added to the light accumulator.
func (t Triangle) Illuminate(amount float64) Triangle {
	t.light += amount
	return t
}

// WithVisibility returns a copy with the visibility flag set to v.
func (t Triangle) WithVisibility(v bool) Triangle {
	t.visible = v
	return t
}

// WithBackFacing returns a copy with the back-facing flag set to v.
func (t Triangle) WithBackFacing(v bool) Triangle {
	t.backFacing = v
	return t
}

// facing reports whether the front of t faces pos.
func (t Triangle) facing(pos math3d.Point) bool {
	return t.normal.Dot(pos.Sub(t.a)) >= 0
}

// meanDistance is the average distance from pos to the three corners.
func (t Triangle) meanDistance(pos math3d.Point) float64 {
	return (pos.DistanceTo(t.a) + pos.DistanceTo(t.b) + pos.DistanceTo(t.c)) / 3
}

func (t Triangle) String() string {
	return fmt.Sprintf("tri#%d[%v %v %v light=%.4g visible=%t back=%t]",
		t.id, t.a, t.b, t.c, t.light, t.visible, t.backFacing)
}
