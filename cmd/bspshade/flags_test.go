package main

import (
	"math"
	"testing"

	"github.com/taigrr/bspshade/pkg/math3d"
	"github.com/taigrr/bspshade/pkg/render"
)

func TestLightListSet(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []render.Light
		wantErr bool
	}{
		{
			name:   "position only",
			values: []string{"1,2,3"},
			want:   []render.Light{{Pos: math3d.P3(1, 2, 3), Intensity: defaultLight.Intensity}},
		},
		{
			name:   "with intensity",
			values: []string{"1, 2, 3, 7.5"},
			want:   []render.Light{{Pos: math3d.P3(1, 2, 3), Intensity: 7.5}},
		},
		{
			name:   "repeated",
			values: []string{"0,5,0,1", "-3,1,2,4"},
			want: []render.Light{
				{Pos: math3d.P3(0, 5, 0), Intensity: 1},
				{Pos: math3d.P3(-3, 1, 2), Intensity: 4},
			},
		},
		{name: "too short", values: []string{"1,2"}, wantErr: true},
		{name: "too long", values: []string{"1,2,3,4,5"}, wantErr: true},
		{name: "not a number", values: []string{"1,x,3"}, wantErr: true},
		{name: "negative intensity", values: []string{"1,2,3,-1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l lightList
			var err error
			for _, v := range tt.values {
				if err = l.Set(v); err != nil {
					break
				}
			}

			if tt.wantErr {
				if err == nil {
					t.Error("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set: %v", err)
			}
			if len(l) != len(tt.want) {
				t.Fatalf("got %d lights, want %d", len(l), len(tt.want))
			}
			for i := range l {
				if l[i] != tt.want[i] {
					t.Errorf("light %d = %+v, want %+v", i, l[i], tt.want[i])
				}
			}
		})
	}
}

func TestLightListDefault(t *testing.T) {
	var l lightList
	got := l.orDefault()
	if len(got) != 1 || got[0] != defaultLight {
		t.Errorf("got %+v, want the default light", got)
	}

	if err := l.Set("1,1,1,2"); err != nil {
		t.Fatal(err)
	}
	if l.String() != "1,1,1,2" {
		t.Errorf("String = %q", l.String())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"30,30,40", render.RGB(30, 30, 40), false},
		{"255, 0, 128", render.RGB(255, 0, 128), false},
		{"256,0,0", render.Color{}, true},
		{"1.5,0,0", render.Color{}, true},
		{"1,2", render.Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("0,1.5,-4")
	if err != nil || p != math3d.P3(0, 1.5, -4) {
		t.Errorf("got %v, %v", p, err)
	}
	if _, err := parsePoint("1,2,3,4"); err == nil {
		t.Error("expected an error for four values")
	}
}

func TestScreenToLight(t *testing.T) {
	p := ScreenToLight(40, 12, 80, 24, 5)
	if p != math3d.P3(0, 0, 5) {
		t.Errorf("centre of screen = %v, want straight ahead", p)
	}

	corner := ScreenToLight(0, 0, 80, 24, 5)
	if d := corner.Vec().Len(); d < 4.999 || d > 5.001 {
		t.Errorf("corner light at distance %v, want 5", d)
	}
	if corner.X >= 0 || corner.Y <= 0 || corner.Z <= 0 {
		t.Errorf("top-left light = %v, want left, above and in front", corner)
	}

	right := ScreenToLight(80, 12, 80, 24, 5)
	if math.Abs(right.X-5) > 1e-9 || math.Abs(right.Z) > 1e-9 {
		t.Errorf("right edge light = %v, want (5, 0, 0)", right)
	}
}

func TestLoadMeshDemo(t *testing.T) {
	mesh, err := loadMesh("")
	if err != nil {
		t.Fatal(err)
	}
	if mesh.TriangleCount() != 14 {
		t.Errorf("demo scene has %d triangles, want 14", mesh.TriangleCount())
	}
	if _, err := loadMesh("model.obj"); err == nil {
		t.Error("expected unsupported format error")
	}
}

func TestFrameDraw(t *testing.T) {
	mesh, err := loadMesh("")
	if err != nil {
		t.Fatal(err)
	}
	f := &frame{
		mesh:    mesh,
		scene:   render.Scene{Lights: []render.Light{defaultLight}, Seed: 1},
		painter: render.NewPainter(math3d.P3(0, 1.5, 4), math3d.P3(0, 0, 0)),
		bg:      render.ColorBlack,
	}

	rotation := NewRotationState(30)
	rotation.Pitch.Position, rotation.Yaw.Position, rotation.Roll.Position = 0.3, 0.5, 0.1

	for _, mode := range []pipeline{pipelineRender, pipelineShade, pipelineOcclude} {
		t.Run(mode.String(), func(t *testing.T) {
			f.mode = mode
			fb := render.NewFramebuffer(64, 48)
			if n := f.draw(fb, rotation.Matrix(), true); n == 0 {
				t.Error("no fragments drawn")
			}
			if fb.GetPixel(32, 24) == render.ColorBlack {
				t.Error("nothing painted at the centre")
			}
		})
	}
}

func TestFrameDrawIdentityKeepsMesh(t *testing.T) {
	mesh, err := loadMesh("")
	if err != nil {
		t.Fatal(err)
	}
	before := mesh.Clone()
	f := &frame{
		mesh:    mesh,
		scene:   render.Scene{Lights: []render.Light{defaultLight}, Seed: 1},
		painter: render.NewPainter(math3d.P3(0, 1.5, 4), math3d.P3(0, 0, 0)),
		bg:      render.ColorBlack,
	}

	f.draw(render.NewFramebuffer(32, 24), math3d.Identity(), false)
	for i, v := range mesh.Vertices {
		if v != before.Vertices[i] {
			t.Fatalf("vertex %d moved from %v to %v", i, before.Vertices[i], v)
		}
	}
}

func TestParsePipeline(t *testing.T) {
	tests := []struct {
		in      string
		want    pipeline
		wantErr bool
	}{
		{"render", pipelineRender, false},
		{"Shade", pipelineShade, false},
		{" occlude ", pipelineOcclude, false},
		{"wireframe", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parsePipeline(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPipelineNextCycles(t *testing.T) {
	p := pipelineRender
	for _, want := range []pipeline{pipelineShade, pipelineOcclude, pipelineRender} {
		p = p.next()
		if p != want {
			t.Errorf("next = %v, want %v", p, want)
		}
	}
}

func TestRotationMatrix(t *testing.T) {
	r := NewRotationState(30)
	if r.Matrix() != math3d.Identity() {
		t.Errorf("rest orientation = %v, want identity", r.Matrix())
	}

	r.Roll.Position = math.Pi / 2
	got := r.Matrix().MulPoint(math3d.P3(1, 0, 0))
	if math.Abs(got.X) > 1e-9 || math.Abs(got.Y-1) > 1e-9 || math.Abs(got.Z) > 1e-9 {
		t.Errorf("quarter roll moved +x to %v, want +y", got)
	}

	r.ApplyImpulse(0, 0, 0.5)
	if !r.Moving() {
		t.Error("roll impulse should make the state move")
	}
	r.Reset()
	if r.Moving() || r.Roll.Position != 0 {
		t.Error("Reset should stop every axis")
	}
}
