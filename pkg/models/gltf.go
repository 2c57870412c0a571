package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/bspshade/pkg/math3d"
)

// LoadGLB loads a glTF (.gltf) or binary glTF (.glb) file. Only triangle
// positions and indices are read. Node transforms are ignored.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return FromDocument(filepath.Base(path), doc)
}

// FromDocument collects the triangles of every mesh in doc into one Mesh.
// glTF front faces are counter-clockwise, which matches Face winding, so
// indices are kept in order.
func FromDocument(name string, doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.CalculateBounds()

	return mesh, nil
}

// processMesh extracts geometry from a glTF mesh. A primitive without
// indices is a triangle soup and is joined like FromSoup does.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readPositions(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		if prim.Indices == nil {
			if err := checkSoup(positions); err != nil {
				return err
			}
			mesh.addSoup(positions)
			continue
		}

		indices, err := readIndices(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}

		baseVertex := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, positions...)

		for i := 0; i+2 < len(indices); i += 3 {
			var f Face
			for j := range 3 {
				idx := indices[i+j]
				if idx >= len(positions) {
					return fmt.Errorf("index %d out of range for %d positions", idx, len(positions))
				}
				f.V[j] = baseVertex + idx
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// readPositions reads float VEC3 data from a glTF accessor.
func readPositions(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}

	raw, err := modeler.ReadPosition(doc, accessor, nil)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, len(raw))
	for i, p := range raw {
		result[i] = math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
	}
	return result, nil
}

// readIndices reads unsigned scalar index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor, err := accessorAt(doc, accessorIdx)
	if err != nil {
		return nil, err
	}

	raw, err := modeler.ReadIndices(doc, accessor, nil)
	if err != nil {
		return nil, err
	}

	result := make([]int, len(raw))
	for i, idx := range raw {
		result[i] = int(idx)
	}
	return result, nil
}

// accessorAt looks up an accessor and checks that it reads from a buffer
// view. modeler treats an accessor without one as all zeros, which is never
// a usable mesh here.
func accessorAt(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d does not exist", idx)
	}
	accessor := doc.Accessors[idx]
	if accessor.BufferView == nil {
		return nil, fmt.Errorf("accessor %d has no buffer view", idx)
	}
	bv := *accessor.BufferView
	if bv < 0 || bv >= len(doc.BufferViews) {
		return nil, fmt.Errorf("buffer view %d does not exist", bv)
	}
	if accessor.ByteOffset > doc.BufferViews[bv].ByteLength {
		return nil, fmt.Errorf("accessor %d starts past the end of buffer view %d", idx, bv)
	}
	return accessor, nil
}
