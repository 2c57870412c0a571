package bsp

import (
	"math"

	"github.com/taigrr/bspshade/pkg/math3d"
)

const tolerance = 1e-9

func approxEq(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func tri(id int, a, b, c [3]float64) Triangle {
	return NewTriangle(
		math3d.P3(a[0], a[1], a[2]),
		math3d.P3(b[0], b[1], b[2]),
		math3d.P3(c[0], c[1], c[2]),
		id,
	)
}

// cube returns the 12 triangles of an axis-aligned cube centred on the
// origin with outward normals, ordered +z, -z, +x, -x, +y, -y (two per face,
// ids 0..11).
func cube(size float64) []Triangle {
	h := size / 2
	faces := [][4][3]float64{
		{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}},     // +z
		{{-h, -h, -h}, {-h, h, -h}, {h, h, -h}, {h, -h, -h}}, // -z
		{{h, -h, -h}, {h, h, -h}, {h, h, h}, {h, -h, h}},     // +x
		{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}, // -x
		{{-h, h, -h}, {-h, h, h}, {h, h, h}, {h, h, -h}},     // +y
		{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}, // -y
	}

	var out []Triangle
	for _, f := range faces {
		id := len(out)
		out = append(out, tri(id, f[0], f[1], f[2]))
		out = append(out, tri(id+1, f[0], f[2], f[3]))
	}
	return out
}

func totalArea(tris []Triangle) float64 {
	var sum float64
	for _, t := range tris {
		sum += t.Area()
	}
	return sum
}

func byID(tris []Triangle) map[int][]Triangle {
	m := make(map[int][]Triangle)
	for _, t := range tris {
		m[t.ID()] = append(m[t.ID()], t)
	}
	return m
}

// onSegment reports whether p lies on the segment ab within tolerance.
func onSegment(p, a, b math3d.Point) bool {
	ab := b.Sub(a)
	t := p.Sub(a).Dot(ab) / ab.LenSq()
	t = math.Max(0, math.Min(1, t))
	return p.DistanceTo(a.Add(ab.Scale(t))) < tolerance
}

// onBoundary reports whether p lies on one of the edges of t.
func onBoundary(t Triangle, p math3d.Point) bool {
	for i := range 3 {
		if onSegment(p, t.Vertex(i), t.Vertex((i+1)%3)) {
			return true
		}
	}
	return false
}

func hasCorner(tris []Triangle, p math3d.Point) bool {
	for _, t := range tris {
		for i := range 3 {
			if t.Vertex(i).DistanceTo(p) < tolerance {
				return true
			}
		}
	}
	return false
}
