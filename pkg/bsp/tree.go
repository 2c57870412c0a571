package bsp

// node is one partition of a tree. It owns its children exclusively.
type node struct {
	partition Plane
	triangles []Triangle // coincident with partition
	front     *node
	back      *node

	// out tags shadow-volume leaves: true for regions outside every shadow
	// volume, false for occluded ones. Mesh trees ignore it.
	out bool
}

func (n *node) leaf() bool {
	return n.front == nil && n.back == nil
}

// Tree is a BSP tree over a triangle mesh. The zero value is not usable;
// create trees with Build or New.
//
// A Tree is not safe for concurrent use.
type Tree struct {
	root *node
}

// New returns an empty tree that grows through Insert.
func New() *Tree {
	return &Tree{root: &node{}}
}

// Build partitions tris into a new tree. The first triangle of every bucket
// becomes the partition of its node, so input order alone decides the shape
// of the tree and, through it, the output order of NearToFar. Triangles
// spanning a partition are split; the pieces are distributed to both sides.
//
// tris is not modified. Invalid (zero-area) triangles must be filtered out
// beforehand.
func Build(tris []Triangle) *Tree {
	t := New()
	t.root.build(tris)

	if debugEnabled() {
		Logger().Debug("bsp: tree built",
			"input", len(tris),
			"triangles", t.Len(),
			"nodes", t.Nodes(),
			"depth", t.Depth())
	}
	return t
}

func (n *node) build(list []Triangle) {
	if len(list) == 0 {
		return
	}

	n.partition = PlaneOf(list[0])
	n.triangles = append(n.triangles, list[0])

	var frontList, backList []Triangle
	for _, tri := range list[1:] {
		switch n.partition.ClassifyTriangle(tri) {
		case Coincident:
			n.triangles = append(n.triangles, tri)
		case InBackOf:
			backList = append(backList, tri)
		case InFrontOf:
			frontList = append(frontList, tri)
		case Span:
			n.partition.Split(tri).route(func(piece Triangle, front bool) {
				if front {
					frontList = append(frontList, piece)
				} else {
					backList = append(backList, piece)
				}
			})
		}
	}

	if len(frontList) > 0 {
		n.front = &node{}
		n.front.build(frontList)
	}
	if len(backList) > 0 {
		n.back = &node{}
		n.back.build(backList)
	}
}

// Insert adds a single triangle to the tree.
//
// An empty leaf takes tri as its partition and grows two leaves: the front
// one tagged outside, the back one inside. Elsewhere tri descends by
// classification and is split where it spans a partition.
func (t *Tree) Insert(tri Triangle) {
	t.root.insert(tri)
}

func (n *node) insert(tri Triangle) {
	if n.leaf() && len(n.triangles) == 0 {
		n.partition = PlaneOf(tri)
		n.triangles = append(n.triangles, tri)
		n.front = &node{out: true}
		n.back = &node{out: false}
		return
	}

	// Nodes of a built tree keep their partition and may lack a child.
	if n.front == nil {
		n.front = &node{out: true}
	}
	if n.back == nil {
		n.back = &node{out: false}
	}

	switch n.partition.ClassifyTriangle(tri) {
	case Coincident:
		n.triangles = append(n.triangles, tri)
	case InBackOf:
		n.back.insert(tri)
	case InFrontOf:
		n.front.insert(tri)
	case Span:
		n.partition.Split(tri).route(func(piece Triangle, front bool) {
			if front {
				n.front.insert(piece)
			} else {
				n.back.insert(piece)
			}
		})
	}
}

// walk visits every node in pre-order: node, front subtree, back subtree.
func (n *node) walk(fn func(n *node, depth int), depth int) {
	if n == nil {
		return
	}
	fn(n, depth)
	n.front.walk(fn, depth+1)
	n.back.walk(fn, depth+1)
}

// Triangles returns every triangle stored in the tree in pre-order (node,
// front subtree, back subtree). The order is not a depth order; use
// NearToFar for that.
func (t *Tree) Triangles() []Triangle {
	var out []Triangle
	t.root.walk(func(n *node, _ int) {
		out = append(out, n.triangles...)
	}, 1)
	return out
}

// Len returns the number of triangles stored, fragments included.
func (t *Tree) Len() int {
	count := 0
	t.root.walk(func(n *node, _ int) {
		count += len(n.triangles)
	}, 1)
	return count
}

// Nodes returns the number of nodes.
func (t *Tree) Nodes() int {
	count := 0
	t.root.walk(func(*node, int) {
		count++
	}, 1)
	return count
}

// Depth returns the number of nodes on the longest root-to-leaf path, and
// 0 for an empty tree. Every recursive operation uses one stack frame per
// level, so an adversarial input order shows up here first.
func (t *Tree) Depth() int {
	if t.root.leaf() && len(t.root.triangles) == 0 {
		return 0
	}
	deepest := 0
	t.root.walk(func(_ *node, depth int) {
		deepest = max(deepest, depth)
	}, 1)
	return deepest
}

// Empty reports whether the tree stores no triangles.
func (t *Tree) Empty() bool {
	return t.Len() == 0
}
