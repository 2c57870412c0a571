// Package models provides indexed triangle meshes for bspshade: loading,
// building from vertex soups and conversion to BSP input.
package models

import (
	"github.com/taigrr/bspshade/pkg/bsp"
	"github.com/taigrr/bspshade/pkg/math3d"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle given by three indices into Mesh.Vertices, wound
// counter-clockwise when seen from the side it faces.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Vertices:  make([]math3d.Vec3, 0),
		Faces:     make([]Face, 0),
		BoundsMin: math3d.V3(0, 0, 0),
		BoundsMax: math3d.V3(0, 0, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
	m.CalculateBounds()
}

// Fit centres the mesh on the origin and scales it uniformly so that its
// largest dimension equals size. Empty and flat-point meshes are left alone.
func (m *Mesh) Fit(size float64) {
	m.CalculateBounds()
	s := m.Size()
	extent := max(s.X, s.Y, s.Z)
	if extent == 0 {
		return
	}

	c := m.Center()
	m.Transform(math3d.ScaleUniform(size / extent).Mul(math3d.Translate(c.Negate())))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// Triangles converts the mesh to BSP input. The id of every triangle is the
// index of its face. Zero-area faces are dropped.
func (m *Mesh) Triangles() []bsp.Triangle {
	out := make([]bsp.Triangle, 0, len(m.Faces))
	for i, f := range m.Faces {
		t := bsp.NewTriangle(
			math3d.PointOf(m.Vertices[f.V[0]]),
			math3d.PointOf(m.Vertices[f.V[1]]),
			math3d.PointOf(m.Vertices[f.V[2]]),
			i,
		)
		if !t.Valid() {
			continue
		}
		out = append(out, t)
	}
	return out
}
