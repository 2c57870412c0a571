package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taigrr/bspshade/pkg/math3d"
	"github.com/taigrr/bspshade/pkg/render"
)

// defaultLight is used when no -light flag is given.
var defaultLight = render.Light{Pos: math3d.P3(2, 4, 3), Intensity: 20}

// parseFloats splits a comma-separated list of numbers.
func parseFloats(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		out[i] = v
	}
	return out, nil
}

// parsePoint parses "x,y,z".
func parsePoint(s string) (math3d.Point, error) {
	v, err := parseFloats(s)
	if err != nil {
		return math3d.Point{}, err
	}
	if len(v) != 3 {
		return math3d.Point{}, fmt.Errorf("want x,y,z, got %d values", len(v))
	}
	return math3d.P3(v[0], v[1], v[2]), nil
}

// parseColor parses "R,G,B" with components in 0-255.
func parseColor(s string) (render.Color, error) {
	v, err := parseFloats(s)
	if err != nil {
		return render.Color{}, err
	}
	if len(v) != 3 {
		return render.Color{}, fmt.Errorf("want R,G,B, got %d values", len(v))
	}
	for _, c := range v {
		if c < 0 || c > 255 || c != float64(int(c)) {
			return render.Color{}, fmt.Errorf("color component %v out of range", c)
		}
	}
	return render.RGB(uint8(v[0]), uint8(v[1]), uint8(v[2])), nil
}

// lightList collects repeated -light flags.
type lightList []render.Light

func (l *lightList) String() string {
	if l == nil {
		return ""
	}
	parts := make([]string, len(*l))
	for i, light := range *l {
		p := light.Pos
		parts[i] = fmt.Sprintf("%g,%g,%g,%g", p.X, p.Y, p.Z, light.Intensity)
	}
	return strings.Join(parts, " ")
}

// Set parses "x,y,z" or "x,y,z,intensity". Intensity defaults to that of
// defaultLight.
func (l *lightList) Set(s string) error {
	v, err := parseFloats(s)
	if err != nil {
		return err
	}

	light := render.Light{Intensity: defaultLight.Intensity}
	switch len(v) {
	case 4:
		if v[3] < 0 {
			return fmt.Errorf("negative intensity %v", v[3])
		}
		light.Intensity = v[3]
		fallthrough
	case 3:
		light.Pos = math3d.P3(v[0], v[1], v[2])
	default:
		return fmt.Errorf("want x,y,z[,intensity], got %d values", len(v))
	}

	*l = append(*l, light)
	return nil
}

// orDefault returns the parsed lights, or defaultLight if there are none.
func (l lightList) orDefault() []render.Light {
	if len(l) == 0 {
		return []render.Light{defaultLight}
	}
	return append([]render.Light(nil), l...)
}

// pipeline selects which Scene pass a frame runs.
type pipeline int

const (
	pipelineRender  pipeline = iota // lights and visibility
	pipelineShade                   // lights only
	pipelineOcclude                 // visibility only
)

var pipelineNames = [...]string{"render", "shade", "occlude"}

func (p pipeline) String() string {
	if p < 0 || int(p) >= len(pipelineNames) {
		return fmt.Sprintf("pipeline(%d)", int(p))
	}
	return pipelineNames[p]
}

// next cycles through the pipelines in declaration order.
func (p pipeline) next() pipeline {
	return (p + 1) % pipeline(len(pipelineNames))
}

func parsePipeline(s string) (pipeline, error) {
	for i, name := range pipelineNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return pipeline(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q (want %s)", s, strings.Join(pipelineNames[:], ", "))
}
