package math3d

import "math"

// projectEpsilon replaces a zero ray/plane denominator in Project.
const projectEpsilon = 1e-6

// Point is a position in 3D space. Subtracting two points gives a Vec3,
// adding a Vec3 to a point gives another point.
type Point struct {
	X, Y, Z float64
}

// P3 creates a new Point.
func P3(x, y, z float64) Point {
	return Point{x, y, z}
}

// PointOf converts a position vector into a Point.
func PointOf(v Vec3) Point {
	return Point{v.X, v.Y, v.Z}
}

// Vec returns the position vector of p.
func (p Point) Vec() Vec3 {
	return Vec3{p.X, p.Y, p.Z}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec3 {
	return Vec3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Add returns p translated by v.
func (p Point) Add(v Vec3) Point {
	return Point{p.X + v.X, p.Y + v.Y, p.Z + v.Z}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Project maps p along the ray from fromEye through p onto the plane with
// normal planeNormal passing through planePoint.
//
// A ray exactly parallel to the plane does not fail: its zero denominator
// is replaced by a small epsilon and the result lands far along the ray.
// Any other denominator keeps its sign and magnitude, so the result stays
// on the plane.
func (p Point) Project(fromEye Point, planeNormal Vec3, planePoint Point) Point {
	dir := p.Sub(fromEye)
	ln := dir.Dot(planeNormal)
	if ln == 0 {
		ln = projectEpsilon
	}
	d := planePoint.Sub(fromEye).Dot(planeNormal) / ln
	return fromEye.Add(dir.Scale(d))
}
