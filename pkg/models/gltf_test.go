package models

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/bspshade/pkg/math3d"
)

// quadDocument returns a glTF document holding one indexed quad in the z=0
// plane facing +z.
func quadDocument() *gltf.Document {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	return newDocument("quad", positions, []uint16{0, 1, 2, 0, 2, 3})
}

// newDocument packs positions and, when present, ushort indices into a
// single buffer with one triangle primitive.
func newDocument(name string, positions [][3]float32, indices []uint16) *gltf.Document {
	var data []byte
	for _, p := range positions {
		for _, f := range p {
			data = binary.LittleEndian.AppendUint32(data, math.Float32bits(f))
		}
	}
	posLen := len(data)
	for _, i := range indices {
		data = binary.LittleEndian.AppendUint16(data, i)
	}

	prim := &gltf.Primitive{Mode: gltf.PrimitiveTriangles}
	prim.Attributes = map[string]int{gltf.POSITION: 0}

	doc := &gltf.Document{
		Asset:   gltf.Asset{Version: "2.0"},
		Buffers: []*gltf.Buffer{{ByteLength: len(data), Data: data}},
		BufferViews: []*gltf.BufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: posLen},
		},
		Accessors: []*gltf.Accessor{
			{BufferView: gltf.Index(0), ComponentType: gltf.ComponentFloat, Count: len(positions), Type: gltf.AccessorVec3},
		},
		Meshes: []*gltf.Mesh{{Name: name, Primitives: []*gltf.Primitive{prim}}},
	}

	if indices != nil {
		doc.BufferViews = append(doc.BufferViews, &gltf.BufferView{Buffer: 0, ByteOffset: posLen, ByteLength: len(data) - posLen})
		doc.Accessors = append(doc.Accessors, &gltf.Accessor{BufferView: gltf.Index(1), ComponentType: gltf.ComponentUshort, Count: len(indices), Type: gltf.AccessorScalar})
		prim.Indices = gltf.Index(1)
	}

	return doc
}

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestFromDocument(t *testing.T) {
	mesh, err := FromDocument("quad", quadDocument())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Fatalf("got %d vertices and %d faces, want 4 and 2", mesh.VertexCount(), mesh.TriangleCount())
	}
	if mesh.Faces[1].V != [3]int{0, 2, 3} {
		t.Errorf("second face = %v, want winding kept as [0 2 3]", mesh.Faces[1].V)
	}
	if mesh.BoundsMax != math3d.V3(1, 1, 0) {
		t.Errorf("BoundsMax = %v", mesh.BoundsMax)
	}

	for _, tri := range mesh.Triangles() {
		if tri.Normal() != math3d.V3(0, 0, 1) {
			t.Errorf("triangle %d normal = %v, want +z", tri.ID(), tri.Normal())
		}
	}
}

func TestFromDocumentWithoutIndices(t *testing.T) {
	tests := []struct {
		name      string
		positions [][3]float32
		vertices  int
		faces     [][3]int
	}{
		{
			name:      "single triangle",
			positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
			vertices:  3,
			faces:     [][3]int{{0, 1, 2}},
		},
		{
			name: "shared edge is joined",
			positions: [][3]float32{
				{0, 0, 0}, {1, 0, 0}, {1, 1, 0},
				{0, 0, 0}, {1, 1, 0}, {0, 1, 0},
			},
			vertices: 4,
			faces:    [][3]int{{0, 1, 2}, {0, 2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := FromDocument("soup", newDocument("soup", tt.positions, nil))
			if err != nil {
				t.Fatalf("FromDocument: %v", err)
			}
			if mesh.VertexCount() != tt.vertices {
				t.Errorf("got %d vertices, want %d", mesh.VertexCount(), tt.vertices)
			}
			if len(mesh.Faces) != len(tt.faces) {
				t.Fatalf("got %d faces, want %d", len(mesh.Faces), len(tt.faces))
			}
			for i, f := range tt.faces {
				if mesh.Faces[i].V != f {
					t.Errorf("face %d = %v, want %v", i, mesh.Faces[i].V, f)
				}
			}
		})
	}
}

func TestFromDocumentSoupMatchesFromSoup(t *testing.T) {
	positions := [][3]float32{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0},
		{0, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	soup := make([]math3d.Vec3, len(positions))
	for i, p := range positions {
		soup[i] = math3d.V3(float64(p[0]), float64(p[1]), float64(p[2]))
	}

	want, err := FromSoup("soup", soup)
	if err != nil {
		t.Fatalf("FromSoup: %v", err)
	}
	got, err := FromDocument("soup", newDocument("soup", positions, nil))
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	if len(got.Vertices) != len(want.Vertices) || len(got.Faces) != len(want.Faces) {
		t.Fatalf("got %d/%d vertices/faces, want %d/%d", len(got.Vertices), len(got.Faces), len(want.Vertices), len(want.Faces))
	}
	for i := range want.Vertices {
		if got.Vertices[i] != want.Vertices[i] {
			t.Errorf("vertex %d = %v, want %v", i, got.Vertices[i], want.Vertices[i])
		}
	}
}

func TestFromDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(doc *gltf.Document)
	}{
		{"index out of range", func(doc *gltf.Document) {
			binary.LittleEndian.PutUint16(doc.Buffers[0].Data[48:], 9)
		}},
		{"truncated buffer", func(doc *gltf.Document) {
			doc.Buffers[0].Data = doc.Buffers[0].Data[:40]
		}},
		{"positions not vec3", func(doc *gltf.Document) {
			doc.Accessors[0].Type = gltf.AccessorVec2
		}},
		{"missing accessor", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = gltf.Index(5)
		}},
		{"no buffer view", func(doc *gltf.Document) {
			doc.Accessors[0].BufferView = nil
		}},
		{"missing buffer view", func(doc *gltf.Document) {
			doc.Accessors[0].BufferView = gltf.Index(7)
		}},
		{"offset past buffer view", func(doc *gltf.Document) {
			doc.Accessors[0].ByteOffset = 64
		}},
		{"positions not float", func(doc *gltf.Document) {
			doc.Accessors[0].ComponentType = gltf.ComponentUshort
		}},
		{"indices not scalar", func(doc *gltf.Document) {
			doc.Accessors[1].Type = gltf.AccessorVec2
		}},
		{"soup not a triangle list", func(doc *gltf.Document) {
			doc.Meshes[0].Primitives[0].Indices = nil
			doc.Accessors[0].Count = 4
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := quadDocument()
			tt.corrupt(doc)
			if _, err := FromDocument("broken", doc); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadGLBRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(quadDocument(), path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if mesh.Name != "quad.glb" {
		t.Errorf("Name = %q", mesh.Name)
	}
	if got := len(mesh.Triangles()); got != 2 {
		t.Errorf("got %d triangles, want 2", got)
	}
}
