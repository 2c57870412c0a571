package models

import (
	"fmt"

	"github.com/taigrr/bspshade/pkg/math3d"
)

// FromSoup builds an indexed mesh from a triangle soup: every three
// consecutive positions form one triangle. Positions that compare equal are
// shared, so the mesh has one vertex per distinct position in order of first
// appearance.
func FromSoup(name string, soup []math3d.Vec3) (*Mesh, error) {
	if err := checkSoup(soup); err != nil {
		return nil, err
	}
	mesh := NewMesh(name)
	mesh.addSoup(soup)
	mesh.CalculateBounds()
	return mesh, nil
}

func checkSoup(soup []math3d.Vec3) error {
	if len(soup)%3 != 0 {
		return fmt.Errorf("soup of %d positions is not a triangle list", len(soup))
	}
	return nil
}

// addSoup appends the triangles of soup to m, joining positions that
// compare equal into one new vertex. Existing vertices are not reused. A
// trailing partial triangle is ignored.
func (m *Mesh) addSoup(soup []math3d.Vec3) {
	seen := make(map[math3d.Vec3]int, len(soup))
	index := func(p math3d.Vec3) int {
		if i, ok := seen[p]; ok {
			return i
		}
		i := len(m.Vertices)
		m.Vertices = append(m.Vertices, p)
		seen[p] = i
		return i
	}

	for i := 0; i+2 < len(soup); i += 3 {
		m.Faces = append(m.Faces, Face{
			V: [3]int{index(soup[i]), index(soup[i+1]), index(soup[i+2])},
		})
	}
}
