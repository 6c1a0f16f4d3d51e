package render

import (
	"github.com/taigrr/facet/pkg/math3d"
)

// Intent is a snapshot of the movement and rotation requests active during
// one tick.
type Intent uint16

const (
	IntentForward Intent = 1 << iota
	IntentBackward
	IntentLeft
	IntentRight
	IntentUp
	IntentDown
	IntentYawLeft
	IntentYawRight
	IntentPitchUp
	IntentPitchDown
	IntentRollLeft
	IntentRollRight
)

// Has reports whether every bit of x is set.
func (i Intent) Has(x Intent) bool {
	return i&x == x
}

// axis returns +1, -1 or 0 depending on which of pos and neg are set.
func (i Intent) axis(pos, neg Intent) float64 {
	var v float64
	if i.Has(pos) {
		v++
	}
	if i.Has(neg) {
		v--
	}
	return v
}

// LightMode selects where the camera's light direction comes from.
type LightMode int

const (
	LightHeadlamp LightMode = iota // Light shines along the view direction
	LightFixed                     // Light stays at Camera.FixedLight
)

// Camera is a free-flying viewer. Its forward, right and up vectors form
// an orthonormal basis that is rebuilt from forward after every rotation.
type Camera struct {
	Position math3d.Vec3

	MoveSpeed float64 // World units per second
	TurnSpeed float64 // Radians per second
	MaxTurn   float64 // Largest rotation applied by one Move call

	LightMode  LightMode
	FixedLight math3d.Vec3

	// Accumulated rotation, for display only.
	Yaw, Pitch, Roll float64

	forward, right, up math3d.Vec3
	light              math3d.Vec3
}

// NewCamera creates a camera at pos looking down +Z with Y up.
func NewCamera(pos math3d.Vec3) *Camera {
	c := &Camera{
		Position:   pos,
		MoveSpeed:  8,
		TurnSpeed:  2,
		MaxTurn:    0.25,
		FixedLight: math3d.V3(0, 0, -1),
		forward:    math3d.Forward(),
		right:      math3d.Right(),
		up:         math3d.Up(),
	}
	c.updateLight()
	return c
}

// Forward returns the unit view direction.
func (c *Camera) Forward() math3d.Vec3 { return c.forward }

// Right returns the unit right vector.
func (c *Camera) Right() math3d.Vec3 { return c.right }

// Up returns the unit up vector.
func (c *Camera) Up() math3d.Vec3 { return c.up }

// LightDir returns the unit direction faces are lit from. A face whose
// normal equals LightDir receives full light.
func (c *Camera) LightDir() math3d.Vec3 { return c.light }

// Target returns the point one unit in front of the camera.
func (c *Camera) Target() math3d.Vec3 {
	return c.Position.Add(c.forward)
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return math3d.PointAt(c.Position, c.Target(), c.up).QuickInverse()
}

// LookAt turns the camera toward target, keeping world up as the
// reference for up.
func (c *Camera) LookAt(target math3d.Vec3) {
	f := target.Sub(c.Position)
	if f.LenSq() == 0 {
		return
	}
	up := math3d.Up()
	if f.Normalize().Cross(up).LenSq() < 1e-12 {
		up = math3d.Forward()
	}
	c.forward = f
	c.up = up
	c.orthonormalize()
}

// Move applies one tick of intents over dt seconds. Rotation happens
// first, about the camera's own axes and clamped to MaxTurn per axis;
// translation then follows the new forward, right and up vectors.
func (c *Camera) Move(in Intent, dt float64) {
	turn := func(v float64) float64 {
		a := v * c.TurnSpeed * dt
		if c.MaxTurn > 0 {
			a = max(-c.MaxTurn, min(c.MaxTurn, a))
		}
		return a
	}
	yaw := turn(in.axis(IntentYawRight, IntentYawLeft))
	pitch := turn(in.axis(IntentPitchDown, IntentPitchUp))
	roll := turn(in.axis(IntentRollLeft, IntentRollRight))
	if yaw != 0 || pitch != 0 || roll != 0 {
		c.Rotate(pitch, yaw, roll)
	}

	step := c.MoveSpeed * dt
	move := c.forward.Scale(in.axis(IntentForward, IntentBackward)).
		Add(c.right.Scale(in.axis(IntentRight, IntentLeft))).
		Add(c.up.Scale(in.axis(IntentUp, IntentDown)))
	c.Position = c.Position.Add(move.Scale(step))
}

// Rotate turns the camera about its own axes: pitch about right, yaw
// about up and roll about forward, composed in the fixed Z, Y, X order.
// Positive yaw turns right and positive pitch turns down.
func (c *Camera) Rotate(pitch, yaw, roll float64) {
	orient := math3d.Mat4{
		c.right.X, c.right.Y, c.right.Z, 0,
		c.up.X, c.up.Y, c.up.Z, 0,
		c.forward.X, c.forward.Y, c.forward.Z, 0,
		0, 0, 0, 1,
	}
	m := math3d.RotateZYX(pitch, yaw, roll).Mul(orient)
	c.forward = m.Row(2)
	c.up = m.Row(1)
	c.orthonormalize()

	c.Yaw += yaw
	c.Pitch += pitch
	c.Roll += roll
}

// orthonormalize rebuilds right and up from forward so the basis cannot
// drift.
func (c *Camera) orthonormalize() {
	c.forward = c.forward.Normalize()
	c.right = c.up.Cross(c.forward).Normalize()
	c.up = c.forward.Cross(c.right)
	c.updateLight()
}

func (c *Camera) updateLight() {
	if c.LightMode == LightFixed {
		c.light = c.FixedLight.Normalize()
		return
	}
	c.light = c.forward.Negate()
}

// SetLightMode switches the light source and recomputes the direction.
func (c *Camera) SetLightMode(mode LightMode, fixed math3d.Vec3) {
	c.LightMode = mode
	c.FixedLight = fixed
	c.updateLight()
}
