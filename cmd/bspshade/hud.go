package main

import (
	"fmt"
	"math"
	"time"

	"github.com/taigrr/bspshade/pkg/math3d"
)

// ViewState holds the interactive settings of the viewer.
type ViewState struct {
	Cull      bool // skip hidden and back-facing fragments
	Outline   bool // draw fragment edges over the fill
	LightMode bool // first light follows the mouse
	ShowHUD   bool
	Distance  float64  // eye distance from the model centre the eye glides to
	Pipeline  pipeline // which scene pipeline each frame runs
}

// ScreenToLight maps a screen position onto a hemisphere of the given radius
// on the +z side, where the viewer sits. The screen edges are a quarter turn
// away from straight ahead.
func ScreenToLight(screenX, screenY, width, height int, radius float64) math3d.Point {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	if l := math.Hypot(nx, ny); l > 1 {
		nx /= l
		ny /= l
	}

	turn := math3d.RotateY(nx * math.Pi / 2).Mul(math3d.RotateX(ny * math.Pi / 2))
	return turn.MulPoint(math3d.P3(0, 0, radius))
}

// HUD renders an overlay with model and tree statistics.
type HUD struct {
	filename  string
	input     int
	fragments int
	lights    int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(filename string, input, lights int) *HUD {
	return &HUD{
		filename: filename,
		input:    input,
		lights:   lights,
		fpsTime:  time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// SetFragments records how many pieces the last frame produced.
func (h *HUD) SetFragments(n int) {
	h.fragments = n
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, view *ViewState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if view.LightMode {
		msg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - Move mouse to place light 1, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		fmt.Print(moveTo(height, max((width-64)/2, 1)) + msg)
		return
	}

	if !view.ShowHUD {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	title := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.filename, reset)
	fmt.Print(moveTo(1, max((width-len(h.filename)-2)/2, 1)) + title)

	stats := fmt.Sprintf("%d tris → %d fragments", h.input, h.fragments)
	fmt.Print(moveTo(1, max(width-len(stats)-1, 1)) +
		fmt.Sprintf("%s%s%s %s %s", bgBlack, fgCyan, bold, stats, reset))

	check := func(on bool) string {
		if on {
			return "[✓]"
		}
		return "[ ]"
	}
	modes := fmt.Sprintf("%s%s %s Cull  %s Fragments  %s  %d light(s) %s",
		bgBlack, fgWhite, check(view.Cull), check(view.Outline), view.Pipeline, h.lights, reset)
	fmt.Print(moveTo(height, 1) + modes)

	hint := fmt.Sprintf("%s%s%s L: place light %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-17, 1)) + hint)
}
