package bsp

import "github.com/taigrr/bspshade/pkg/math3d"

// NearToFar appends the stored triangles to dst ordered from nearest to
// farthest from ref and returns the extended slice. At every node the child
// on ref's side comes first, then the node's own triangles, then the other
// child. A point on a partition plane counts as being in front of it.
//
// Painting the result in reverse gives back-to-front compositing.
func (t *Tree) NearToFar(ref math3d.Point, dst []Triangle) []Triangle {
	return t.root.nearToFar(ref, dst)
}

func (n *node) nearToFar(ref math3d.Point, dst []Triangle) []Triangle {
	near, far := n.front, n.back
	if n.partition.ClassifyPoint(ref) < 0 {
		near, far = n.back, n.front
	}

	if near != nil {
		dst = near.nearToFar(ref, dst)
	}
	dst = append(dst, n.triangles...)
	if far != nil {
		dst = far.nearToFar(ref, dst)
	}
	return dst
}
