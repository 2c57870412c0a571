// bspshade - terminal viewer for BSP shadow casting
// Lights a triangle mesh with point lights, resolves visibility with shadow
// volumes and paints the fragments back to front in your terminal.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	C           - Toggle culling of hidden fragments
//	X           - Toggle fragment outlines
//	M           - Cycle pipeline (render, shade, occlude)
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/bspshade/pkg/bsp"
	"github.com/taigrr/bspshade/pkg/math3d"
	"github.com/taigrr/bspshade/pkg/models"
	"github.com/taigrr/bspshade/pkg/render"
)

var (
	lights    lightList
	eyeFlag   = flag.String("eye", "0,1.5,4", "Eye position (x,y,z)")
	targetFPS = flag.Int("fps", 30, "Target FPS")
	bgColor   = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	seed      = flag.Int64("seed", models.DefaultSeed, "Seed for shuffling triangles before each build")
	cull      = flag.Bool("cull", false, "Hide occluded and back-facing fragments")
	modeFlag  = flag.String("mode", "render", "Pipeline: render (lights and visibility), shade (lights only) or occlude (visibility only)")
	pngPath   = flag.String("png", "", "Render one frame to this PNG file and exit")
	verbose   = flag.Bool("v", false, "Log tree statistics to stderr")
)

// modelSize is the edge of the cube the model is fitted into.
const modelSize = 2.0

func init() {
	flag.Var(&lights, "light", "Point light x,y,z[,intensity] (repeatable)")
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "bspshade - BSP shadow casting in the terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: bspshade [options] [model.glb|model.gltf]\n\n")
		fmt.Fprintf(os.Stderr, "Without a model a cube over a floor is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  C           - Toggle culling\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle fragment outlines\n")
		fmt.Fprintf(os.Stderr, "  M           - Cycle pipeline\n")
		fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
		fmt.Fprintf(os.Stderr, "\nWith -v, redirect stderr (2>bspshade.log) to keep the screen clean.\n")
	}
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	bsp.SetLogger(logger)

	if err := run(flag.Arg(0), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadMesh loads the model at path, or builds the demo scene when path is
// empty. The result is fitted into a modelSize cube around the origin.
func loadMesh(path string) (*models.Mesh, error) {
	if path == "" {
		mesh := models.Cube(math3d.Zero3(), 1)
		mesh.Merge(models.Quad(math3d.V3(0, -0.75, 0), 3))
		mesh.Name = "cube"
		mesh.Fit(modelSize)
		return mesh, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb", ".gltf":
		mesh, err := models.LoadGLB(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		mesh.Fit(modelSize)
		return mesh, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
	}
}

// frame holds everything needed to draw one image.
type frame struct {
	mesh    *models.Mesh
	scene   render.Scene
	painter *render.Painter
	bg      render.Color
	mode    pipeline
}

// fragments runs tris through the scene pipeline selected by mode.
func (f *frame) fragments(tris []bsp.Triangle) []bsp.Triangle {
	switch f.mode {
	case pipelineShade:
		return f.scene.Shade(tris, f.painter.Eye)
	case pipelineOcclude:
		return f.scene.Occlude(tris, f.painter.Eye)
	default:
		return f.scene.Render(tris, f.painter.Eye)
	}
}

// draw orients the mesh, runs it through the scene and paints the result.
// It returns the number of fragments produced.
func (f *frame) draw(fb *render.Framebuffer, orient math3d.Mat4, outline bool) int {
	m := f.mesh.Clone()
	m.Transform(orient)

	out := f.fragments(m.Triangles())

	fb.Clear(f.bg)
	f.painter.Scale = float64(min(fb.Width, fb.Height)) / (modelSize * 1.5)
	f.painter.Paint(fb, out)
	if outline {
		f.painter.Outline(fb, out, render.ColorGray)
	}
	return len(out)
}

func run(modelPath string, logger *slog.Logger) error {
	bg, err := parseColor(*bgColor)
	if err != nil {
		logger.Warn("ignoring -bg", "value", *bgColor, "err", err)
		bg = render.RGB(30, 30, 40)
	}

	eye, err := parsePoint(*eyeFlag)
	if err != nil {
		return fmt.Errorf("parse -eye: %w", err)
	}
	if *targetFPS <= 0 {
		return fmt.Errorf("-fps must be positive, got %d", *targetFPS)
	}
	mode, err := parsePipeline(*modeFlag)
	if err != nil {
		return fmt.Errorf("parse -mode: %w", err)
	}

	mesh, err := loadMesh(modelPath)
	if err != nil {
		return err
	}
	logger.Info("model loaded",
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())

	f := &frame{
		mesh:    mesh,
		scene:   render.Scene{Lights: lights.orDefault(), Seed: *seed},
		painter: render.NewPainter(eye, math3d.P3(0, 0, 0)),
		bg:      bg,
		mode:    mode,
	}
	f.painter.Cull = *cull

	if *pngPath != "" {
		fb := render.NewFramebuffer(320, 192)
		n := f.draw(fb, math3d.Identity(), false)
		if err := fb.SavePNG(*pngPath); err != nil {
			return fmt.Errorf("save png: %w", err)
		}
		logger.Info("frame saved", "path", *pngPath, "mode", mode, "fragments", n)
		return nil
	}

	return interactive(f, mesh.Name)
}

func interactive(f *frame, name string) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	fb := render.NewFramebuffer(width, height*2)

	hud := NewHUD(name, f.mesh.TriangleCount(), len(f.scene.Lights))
	rotation := NewRotationState(*targetFPS)
	view := &ViewState{
		Cull:     f.painter.Cull,
		ShowHUD:  true,
		Distance: f.painter.Eye.Vec().Len(),
		Pipeline: f.mode,
	}
	eyeDir := f.painter.Eye.Vec().Normalize()
	savedLight := f.scene.Lights[0]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// The render loop drains pending events before every frame.
	events := term.Events()
	startDistance := view.Distance

	inputTorque := struct{ pitch, yaw, roll float64 }{}
	const torqueStrength = 3.0

	var mouseDown bool
	var lastMouseX, lastMouseY int
	dirty := true

	// zoom moves the distance the eye glides to; glide moves the eye a
	// step closer every frame.
	zoom := func(delta float64) {
		view.Distance = math.Min(20, math.Max(1.5, view.Distance+delta))
	}
	glide := func() {
		target := eyeDir.Scale(view.Distance)
		eye := f.painter.Eye.Vec()
		if eye.Distance(target) < 1e-3 {
			return
		}
		next := eye.Lerp(target, 0.3)
		if next.Distance(target) < 0.01 {
			next = target
		}
		f.painter.Eye = math3d.PointOf(next)
		dirty = true
	}

	handle := func(ev any) {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			width, height = ev.Width, ev.Height
			term.Erase()
			term.Resize(width, height)
			fb = render.NewFramebuffer(width, height*2)
			dirty = true

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"):
				if view.LightMode {
					view.LightMode = false
					f.scene.Lights[0] = savedLight
					dirty = true
				} else {
					cancel()
				}
			case ev.MatchString("ctrl+c"):
				cancel()
			case ev.MatchString("r"):
				rotation.Reset()
				zoom(startDistance - view.Distance)
			case ev.MatchString("w", "up"):
				inputTorque.pitch = -torqueStrength
			case ev.MatchString("s", "down"):
				inputTorque.pitch = torqueStrength
			case ev.MatchString("a", "left"):
				inputTorque.yaw = -torqueStrength
			case ev.MatchString("d", "right"):
				inputTorque.yaw = torqueStrength
			case ev.MatchString("q"):
				inputTorque.roll = torqueStrength
			case ev.MatchString("e"):
				inputTorque.roll = -torqueStrength
			case ev.MatchString("space"):
				rotation.ApplyImpulse(
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
					(rand.Float64()-0.5)*1.5,
				)
			case ev.MatchString("+", "="):
				zoom(-0.5)
			case ev.MatchString("-", "_"):
				zoom(0.5)
			case ev.MatchString("c"):
				view.Cull = !view.Cull
				f.painter.Cull = view.Cull
				dirty = true
			case ev.MatchString("x"):
				view.Outline = !view.Outline
				dirty = true
			case ev.MatchString("m"):
				view.Pipeline = view.Pipeline.next()
				f.mode = view.Pipeline
				dirty = true
			case ev.MatchString("l"):
				view.LightMode = true
				savedLight = f.scene.Lights[0]
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				view.ShowHUD = !view.ShowHUD
			}

		case uv.KeyReleaseEvent:
			switch {
			case ev.MatchString("w"), ev.MatchString("up"), ev.MatchString("s"), ev.MatchString("down"):
				inputTorque.pitch = 0
			case ev.MatchString("a"), ev.MatchString("left"), ev.MatchString("d"), ev.MatchString("right"):
				inputTorque.yaw = 0
			case ev.MatchString("q"), ev.MatchString("e"):
				inputTorque.roll = 0
			}

		case uv.MouseClickEvent:
			if view.LightMode {
				savedLight = f.scene.Lights[0]
				view.LightMode = false
			} else {
				mouseDown = true
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseReleaseEvent:
			if !view.LightMode {
				mouseDown = false
			}

		case uv.MouseMotionEvent:
			if view.LightMode {
				radius := savedLight.Pos.Vec().Len()
				f.scene.Lights[0].Pos = ScreenToLight(ev.X, ev.Y, width, height, radius)
				dirty = true
			} else if mouseDown {
				dx := ev.X - lastMouseX
				dy := ev.Y - lastMouseY
				rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
				lastMouseX, lastMouseY = ev.X, ev.Y
			}

		case uv.MouseWheelEvent:
			switch ev.Button {
			case uv.MouseWheelUp:
				zoom(-0.5)
			case uv.MouseWheelDown:
				zoom(0.5)
			}
		}
	}

	targetDuration := time.Second / time.Duration(*targetFPS)
	lastFrame := time.Now()

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

	drain:
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				handle(ev)
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		// Apply input torque and decay it (key release events unreliable)
		rotation.ApplyImpulse(inputTorque.pitch*dt, inputTorque.yaw*dt, inputTorque.roll*dt)
		inputTorque.pitch *= 0.9
		inputTorque.yaw *= 0.9
		inputTorque.roll *= 0.9

		if rotation.Moving() {
			dirty = true
		}
		rotation.Update()
		glide()

		if dirty {
			hud.SetFragments(f.draw(fb, rotation.Matrix(), view.Outline))
			fb.Draw(term, term.Bounds())
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
			dirty = false
		}

		hud.UpdateFPS()
		hud.Render(width, height, view)

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
