package render

import (
	"github.com/taigrr/bspshade/pkg/bsp"
	"github.com/taigrr/bspshade/pkg/math3d"
	"github.com/taigrr/bspshade/pkg/models"
)

// Light is a point light.
type Light struct {
	Pos       math3d.Point
	Intensity float64
}

// Scene runs triangles through the BSP pipelines. Input is shuffled with
// Seed before every build so that results only depend on the triangles and
// the seed.
type Scene struct {
	Lights []Light
	Seed   int64
}

func (s Scene) build(tris []bsp.Triangle) *bsp.Tree {
	shuffled := make([]bsp.Triangle, len(tris))
	copy(shuffled, tris)
	models.Shuffle(shuffled, s.Seed)
	return bsp.Build(shuffled)
}

func (s Scene) shine(tree *bsp.Tree) {
	for _, l := range s.Lights {
		tree.ShineLight(l.Pos, l.Intensity)
	}
}

// Shade lights tris with every light of the scene and returns the pieces
// ordered near to far from ref.
func (s Scene) Shade(tris []bsp.Triangle, ref math3d.Point) []bsp.Triangle {
	tree := s.build(tris)
	if tree.Empty() {
		return nil
	}
	s.shine(tree)
	return tree.NearToFar(ref, nil)
}

// Occlude resolves visibility of tris from eye and returns the pieces
// ordered near to far from eye. Lights are ignored.
func (s Scene) Occlude(tris []bsp.Triangle, eye math3d.Point) []bsp.Triangle {
	tree := s.build(tris)
	if tree.Empty() {
		return nil
	}
	tree.LookFrom(eye)
	return tree.NearToFar(eye, nil)
}

// Render lights tris, resolves visibility from eye and returns the pieces
// ordered near to far from eye, ready for a Painter.
func (s Scene) Render(tris []bsp.Triangle, eye math3d.Point) []bsp.Triangle {
	tree := s.build(tris)
	if tree.Empty() {
		return nil
	}
	s.shine(tree)
	tree.LookFrom(eye)
	return tree.NearToFar(eye, nil)
}
