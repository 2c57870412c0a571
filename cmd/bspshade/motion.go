package main

import (
	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/bspshade/pkg/math3d"
)

// RotationAxis tracks position and velocity for one rotation axis with spring decay
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

// NewRotationAxis creates an axis with harmonica spring for smooth velocity decay
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		// Critically damped: the spin slows down without swinging back.
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0 using spring
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Moving reports whether the axis still turns noticeably.
func (a *RotationAxis) Moving() bool {
	return a.Velocity > 1e-5 || a.Velocity < -1e-5
}

// RotationState orbits the model around its pitch, yaw and roll axes. Each
// frame rebuilds the BSP tree, so a model at rest is only rebuilt on change.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	return &RotationState{
		Pitch: NewRotationAxis(fps),
		Yaw:   NewRotationAxis(fps),
		Roll:  NewRotationAxis(fps),
		fps:   fps,
	}
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

// Moving reports whether any axis still turns.
func (r *RotationState) Moving() bool {
	return r.Pitch.Moving() || r.Yaw.Moving() || r.Roll.Moving()
}

// Matrix returns the model orientation: roll first, then yaw, then pitch.
func (r *RotationState) Matrix() math3d.Mat4 {
	return math3d.RotateX(r.Pitch.Position).
		Mul(math3d.RotateY(r.Yaw.Position)).
		Mul(math3d.RotateZ(r.Roll.Position))
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}
