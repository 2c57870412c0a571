package bsp

import "github.com/taigrr/bspshade/pkg/math3d"

// edgeEpsilon replaces a zero edge/normal dot product when intersecting.
const edgeEpsilon = 1e-6

// Split is the result of cutting a spanning triangle with a plane. Front and
// Back are always set. Extra completes the quadrilateral left when two
// corners lie strictly on the same side; ExtraIsFront tells which half it
// belongs to.
type Split struct {
	Front, Back  Triangle
	Extra        Triangle
	HasExtra     bool
	ExtraIsFront bool

	// Degenerate is set when a corner lay within epsilon of the plane.
	// Such cuts can yield very thin fragments.
	Degenerate bool
}

// Split cuts tri, which must classify as Span, into pieces that exactly tile
// it. Every piece inherits tri's id, light, visibility and back-facing flag.
//
// The corner sides are the snapped values used by ClassifyTriangle, so a
// corner within epsilon of the plane is treated as lying on it.
func (pl Plane) Split(tri Triangle) Split {
	a, b, c := tri.a, tri.b, tri.c
	sa, sb, sc := pl.sides(tri)

	ab := pl.intersect(a, b, sa)
	bc := pl.intersect(b, c, sb)
	ca := pl.intersect(c, a, sc)

	frag := func(p, q, r math3d.Point) Triangle {
		return fragment(p, q, r, tri)
	}

	s := Split{Degenerate: sa == 0 || sb == 0 || sc == 0}

	switch {
	case sa == 0:
		if sb > 0 {
			s.Front = frag(a, b, bc)
			s.Back = frag(bc, c, a)
		} else {
			s.Back = frag(a, b, bc)
			s.Front = frag(bc, c, a)
		}
	case sb == 0:
		if sc > 0 {
			s.Front = frag(b, c, ca)
			s.Back = frag(ca, a, b)
		} else {
			s.Back = frag(b, c, ca)
			s.Front = frag(ca, a, b)
		}
	case sc == 0:
		if sa > 0 {
			s.Front = frag(c, a, ab)
			s.Back = frag(ab, b, c)
		} else {
			s.Back = frag(c, a, ab)
			s.Front = frag(ab, b, c)
		}
	case sa > 0:
		s.HasExtra = true
		switch {
		case sb > 0:
			s.Front = frag(a, b, bc)
			s.Extra = frag(a, bc, ca)
			s.Back = frag(bc, c, ca)
			s.ExtraIsFront = true
		case sc > 0:
			s.Front = frag(c, a, ab)
			s.Extra = frag(c, ab, bc)
			s.Back = frag(ab, b, bc)
			s.ExtraIsFront = true
		default:
			s.Front = frag(a, ab, ca)
			s.Extra = frag(b, ca, ab)
			s.Back = frag(b, c, ca)
		}
	default:
		s.HasExtra = true
		switch {
		case sb < 0:
			s.Back = frag(a, b, bc)
			s.Extra = frag(a, bc, ca)
			s.Front = frag(bc, c, ca)
		case sc < 0:
			s.Back = frag(c, a, ab)
			s.Extra = frag(c, ab, bc)
			s.Front = frag(ab, b, bc)
		default:
			s.Back = frag(a, ab, ca)
			s.Extra = frag(b, ca, ab)
			s.Front = frag(b, c, ca)
			s.ExtraIsFront = true
		}
	}

	return s
}

// intersect returns where the line from p towards q meets the plane, given
// the signed distance side of p.
func (pl Plane) intersect(p, q math3d.Point, side float64) math3d.Point {
	edge := q.Sub(p)
	den := pl.N.Dot(edge)
	if den == 0 {
		den = edgeEpsilon
	}
	return p.Add(edge.Scale(-side / den))
}

// route hands every piece to fn together with the side it belongs to, in
// the order front, back, extra.
func (s Split) route(fn func(tri Triangle, front bool)) {
	fn(s.Front, true)
	fn(s.Back, false)
	if s.HasExtra {
		fn(s.Extra, s.ExtraIsFront)
	}
}
