package app

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/facet/pkg/math3d"
)

// spinAxis holds one axis of angular velocity. Impulses decay back to
// zero through a critically damped spring.
type spinAxis struct {
	vel    float64
	accel  float64 // spring velocity of vel itself
	spring harmonica.Spring
}

func newSpinAxis(fps int) spinAxis {
	// Frequency 4 settles in about a second without overshoot.
	return spinAxis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Spinner turns meshes. Drive is a constant angular velocity in radians
// per second; impulses add velocity that decays away.
//
// The springs advance in fixed 1/fps sub-steps however long each frame
// is, so decay follows wall time rather than frame count.
type Spinner struct {
	Drive math3d.Vec3

	fps     int
	step    float64 // seconds per spring update
	pending float64 // frame time not yet consumed by a spring update
	axes    [3]spinAxis
}

// NewSpinner creates a spinner whose spring steps at fps.
func NewSpinner(fps int, drive math3d.Vec3) *Spinner {
	fps = max(fps, 1)
	s := &Spinner{Drive: drive, fps: fps, step: harmonica.FPS(fps)}
	s.Reset()
	return s
}

// Impulse adds angular velocity about x, y and z.
func (s *Spinner) Impulse(v math3d.Vec3) {
	s.axes[0].vel += v.X
	s.axes[1].vel += v.Y
	s.axes[2].vel += v.Z
}

// Velocity returns the current impulse velocity, excluding Drive.
func (s *Spinner) Velocity() math3d.Vec3 {
	return math3d.V3(s.axes[0].vel, s.axes[1].vel, s.axes[2].vel)
}

// Step advances one frame of dt seconds and returns the rotation to apply.
// Impulse velocity contributes once per whole spring step; the remainder
// carries over to the next frame.
func (s *Spinner) Step(dt float64) math3d.Vec3 {
	delta := s.Drive.Scale(dt)
	s.pending += dt
	for s.pending >= s.step {
		delta = delta.Add(s.Velocity().Scale(s.step))
		for i := range s.axes {
			a := &s.axes[i]
			a.vel, a.accel = a.spring.Update(a.vel, a.accel, 0)
		}
		s.pending -= s.step
	}
	return delta
}

// Reset stops all impulse motion. Drive is kept.
func (s *Spinner) Reset() {
	s.pending = 0
	for i := range s.axes {
		s.axes[i] = newSpinAxis(s.fps)
	}
}
