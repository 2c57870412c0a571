package render

import (
	"github.com/taigrr/bspshade/pkg/bsp"
	"github.com/taigrr/bspshade/pkg/math3d"
)

// Painter draws triangles back to front onto a framebuffer. Points are
// projected from Eye onto the image plane through Target, perpendicular to
// the line of sight.
type Painter struct {
	Eye    math3d.Point
	Target math3d.Point
	Up     math3d.Vec3

	// Scale is the number of pixels per world unit on the image plane.
	Scale float64

	Base     Color   // color of a fully lit triangle
	Ambient  float64 // brightness of an unlit triangle, 0-1
	Exposure float64 // brightness gained per unit of accumulated light

	// Cull skips triangles that are hidden or back-facing.
	Cull bool
}

// NewPainter creates a painter looking from eye at target with world up,
// unit scale and a clay base color.
func NewPainter(eye, target math3d.Point) *Painter {
	return &Painter{
		Eye:      eye,
		Target:   target,
		Up:       math3d.Up(),
		Scale:    1,
		Base:     ColorClay,
		Ambient:  0.15,
		Exposure: 1,
	}
}

// basis is the image plane frame of a painter.
type basis struct {
	forward, right, up math3d.Vec3
}

func (p *Painter) basis() basis {
	forward := p.Target.Sub(p.Eye).Normalize()
	right := forward.Cross(p.Up)
	if right.LenSq() < 1e-12 {
		// Looking along Up.
		right = forward.Cross(math3d.V3(0, 0, -1))
	}
	right = right.Normalize()
	return basis{forward: forward, right: right, up: right.Cross(forward)}
}

func (p *Painter) project(b basis, pt math3d.Point, width, height int) (x, y float64, ok bool) {
	if pt.Sub(p.Eye).Dot(b.forward) <= 0 {
		return 0, 0, false
	}
	d := pt.Project(p.Eye, b.forward, p.Target).Sub(p.Target)
	x = float64(width)/2 + d.Dot(b.right)*p.Scale
	y = float64(height)/2 - d.Dot(b.up)*p.Scale
	return x, y, true
}

// Project maps pt to framebuffer coordinates for a width×height target.
// ok is false for points at or behind the eye.
func (p *Painter) Project(pt math3d.Point, width, height int) (x, y float64, ok bool) {
	return p.project(p.basis(), pt, width, height)
}

// Shade returns the color of tri: Base scaled by ambient plus exposure
// times the triangle's light, clamped to full brightness.
func (p *Painter) Shade(tri bsp.Triangle) Color {
	k := min(max(p.Ambient+p.Exposure*tri.Light(), 0), 1)
	return RGB(
		uint8(float64(p.Base.R)*k),
		uint8(float64(p.Base.G)*k),
		uint8(float64(p.Base.B)*k),
	)
}

// Paint draws a near-to-far list onto fb, farthest first, and returns the
// number of triangles drawn.
func (p *Painter) Paint(fb *Framebuffer, nearToFar []bsp.Triangle) int {
	b := p.basis()
	drawn := 0

	for i := len(nearToFar) - 1; i >= 0; i-- {
		tri := nearToFar[i]
		if p.Cull && (!tri.Visible() || tri.BackFacing()) {
			continue
		}

		x0, y0, ok0 := p.project(b, tri.A(), fb.Width, fb.Height)
		x1, y1, ok1 := p.project(b, tri.B(), fb.Width, fb.Height)
		x2, y2, ok2 := p.project(b, tri.C(), fb.Width, fb.Height)
		if !ok0 || !ok1 || !ok2 {
			continue
		}

		fb.FillTriangle(x0, y0, x1, y1, x2, y2, p.Shade(tri))
		drawn++
	}

	return drawn
}

// Outline draws the edges of every triangle in tris that the painter would
// fill. With tree output this shows where the BSP split the input.
func (p *Painter) Outline(fb *Framebuffer, tris []bsp.Triangle, c Color) {
	b := p.basis()

	for _, tri := range tris {
		if p.Cull && (!tri.Visible() || tri.BackFacing()) {
			continue
		}

		var xs, ys [3]float64
		visible := true
		for i := range 3 {
			x, y, ok := p.project(b, tri.Vertex(i), fb.Width, fb.Height)
			if !ok {
				visible = false
				break
			}
			xs[i], ys[i] = x, y
		}
		if !visible {
			continue
		}

		for i := range 3 {
			j := (i + 1) % 3
			fb.DrawLineF(xs[i], ys[i], xs[j], ys[j], c)
		}
	}
}
