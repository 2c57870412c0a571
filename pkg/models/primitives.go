package models

import "github.com/taigrr/bspshade/pkg/math3d"

// Cube returns an axis-aligned cube with outward-facing triangles, two per
// side.
func Cube(center math3d.Vec3, size float64) *Mesh {
	m := NewMesh("cube")

	// Vertex i has x, y and z set by bits 0, 1 and 2.
	for i := range 8 {
		corner := math3d.V3(
			float64(i&1)-0.5,
			float64(i>>1&1)-0.5,
			float64(i>>2&1)-0.5,
		)
		m.Vertices = append(m.Vertices, center.Add(corner.Scale(size)))
	}

	for _, side := range [6][4]int{
		{4, 5, 7, 6}, // +z
		{0, 2, 3, 1}, // -z
		{1, 3, 7, 5}, // +x
		{0, 4, 6, 2}, // -x
		{2, 6, 7, 3}, // +y
		{0, 1, 5, 4}, // -y
	} {
		m.Faces = append(m.Faces,
			Face{V: [3]int{side[0], side[1], side[2]}},
			Face{V: [3]int{side[0], side[2], side[3]}},
		)
	}

	m.CalculateBounds()
	return m
}

// Quad returns a square of the given size in the XZ plane through center,
// facing +Y. Its two triangles share the diagonal.
func Quad(center math3d.Vec3, size float64) *Mesh {
	h := size / 2
	nw := center.Add(math3d.V3(-h, 0, -h))
	sw := center.Add(math3d.V3(-h, 0, h))
	se := center.Add(math3d.V3(h, 0, h))
	ne := center.Add(math3d.V3(h, 0, -h))

	m := NewMesh("quad")
	m.addSoup([]math3d.Vec3{nw, sw, se, nw, se, ne})
	m.CalculateBounds()
	return m
}

// Merge appends the vertices and faces of others to m.
func (m *Mesh) Merge(others ...*Mesh) {
	for _, o := range others {
		base := len(m.Vertices)
		m.Vertices = append(m.Vertices, o.Vertices...)
		for _, f := range o.Faces {
			m.Faces = append(m.Faces, Face{V: [3]int{base + f.V[0], base + f.V[1], base + f.V[2]}})
		}
	}
	m.CalculateBounds()
}
