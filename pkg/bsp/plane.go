package bsp

import "github.com/taigrr/bspshade/pkg/math3d"

// classifyEpsilon is the distance below which a point is snapped onto a
// plane. It is applied only by ClassifyPoint.
const classifyEpsilon = 1e-5

// Position is the placement of a triangle relative to a plane.
type Position int

const (
	Coincident Position = iota // all corners on the plane
	InBackOf                   // no corner in front
	InFrontOf                  // no corner behind
	Span                       // corners on both sides
)

func (p Position) String() string {
	switch p {
	case Coincident:
		return "coincident"
	case InBackOf:
		return "in back of"
	case InFrontOf:
		return "in front of"
	case Span:
		return "span"
	default:
		return "unknown"
	}
}

// Plane is the set of points p with N·p + D = 0. N is expected to be unit
// length; the front side is the one N points to.
type Plane struct {
	N math3d.Vec3
	D float64
}

// NewPlane creates a plane from a normal and an offset.
func NewPlane(n math3d.Vec3, d float64) Plane {
	return Plane{N: n, D: d}
}

// PlaneOf returns the plane containing tri, oriented by its normal.
func PlaneOf(tri Triangle) Plane {
	n := tri.Normal()
	return Plane{N: n, D: -n.Dot(tri.A().Vec())}
}

// ClassifyPoint returns the signed distance from the plane to p, snapped to
// exactly zero when it is within 1e-5.
func (pl Plane) ClassifyPoint(p math3d.Point) float64 {
	loc := pl.N.X*p.X + pl.N.Y*p.Y + pl.N.Z*p.Z + pl.D
	if loc < classifyEpsilon && loc > -classifyEpsilon {
		return 0
	}
	return loc
}

// sides returns the snapped classification of the three corners of tri.
func (pl Plane) sides(tri Triangle) (sa, sb, sc float64) {
	return pl.ClassifyPoint(tri.a), pl.ClassifyPoint(tri.b), pl.ClassifyPoint(tri.c)
}

// ClassifyTriangle places tri relative to the plane.
//
// Zero counts as both sides, so a triangle touching the plane with one or two
// corners and lying otherwise on one side is InFrontOf or InBackOf, not Span.
func (pl Plane) ClassifyTriangle(tri Triangle) Position {
	return classifySides(pl.sides(tri))
}

func classifySides(sa, sb, sc float64) Position {
	switch {
	case sa == 0 && sb == 0 && sc == 0:
		return Coincident
	case sa <= 0 && sb <= 0 && sc <= 0:
		return InBackOf
	case sa >= 0 && sb >= 0 && sc >= 0:
		return InFrontOf
	default:
		return Span
	}
}
