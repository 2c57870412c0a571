// Package render paints BSP output into a framebuffer and shows it in the
// terminal.
package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// We use double vertical resolution by using half-block characters (▀▄).
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
// The segment is clipped to the framebuffer first, so far off-screen
// endpoints cost no more than an on-screen line.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	fb.DrawLineF(float64(x0), float64(y0), float64(x1), float64(y1), c)
}

// DrawLineF draws a line between screen-space points given in pixels. The
// segment is clipped to the framebuffer and its ends are floored to pixels.
func (fb *Framebuffer) DrawLineF(x0, y0, x1, y1 float64, c color.RGBA) {
	if fb.Width <= 0 || fb.Height <= 0 {
		return
	}
	x0, y0, x1, y1, ok := clipLine(x0, y0, x1, y1, float64(fb.Width-1), float64(fb.Height-1))
	if !ok {
		return
	}
	fb.bresenham(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Floor(x1)), int(math.Floor(y1)), c)
}

func (fb *Framebuffer) bresenham(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipLine clips a segment to the rectangle [0, maxX]×[0, maxY] with the
// Liang–Barsky parametric test. ok is false when nothing of the segment is
// inside or an endpoint is not finite.
func clipLine(x0, y0, x1, y1, maxX, maxY float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	for _, v := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, false
		}
	}

	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, maxX - x0},
		{-dy, y0},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

// FillTriangle fills the pixels whose centres fall inside the triangle with
// the given screen-space corners. Either winding is accepted. There is no
// depth test: later calls paint over earlier ones.
func (fb *Framebuffer) FillTriangle(x0, y0, x1, y1, x2, y2 float64, c color.RGBA) {
	minX := int(math.Max(0, math.Floor(min(x0, x1, x2))))
	maxX := int(math.Min(float64(fb.Width-1), math.Ceil(max(x0, x1, x2))))
	minY := int(math.Max(0, math.Floor(min(y0, y1, y2))))
	maxY := int(math.Min(float64(fb.Height-1), math.Ceil(max(y0, y1, y2))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			u, v, w, ok := barycentric(x0, y0, x1, y1, x2, y2, px, py)
			if !ok {
				return // degenerate on screen
			}
			if u < 0 || v < 0 || w < 0 {
				continue
			}
			fb.Pixels[y*fb.Width+x] = c
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in
// triangle. ok is false when the triangle has no area.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) (u, v, w float64, ok bool) {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	denom := dot00*dot11 - dot01*dot01
	if denom == 0 {
		return 0, 0, 0, false
	}
	invDenom := 1.0 / denom
	b2 := (dot11*dot02 - dot01*dot12) * invDenom
	b1 := (dot00*dot12 - dot01*dot02) * invDenom

	return 1 - b1 - b2, b1, b2, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
