package render

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/taigrr/facet/pkg/math3d"
)

const eps = 1e-9

func nearVec(a, b math3d.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func checkBasis(t *testing.T, c *Camera) {
	t.Helper()
	const tol = 1e-6
	f, r, u := c.Forward(), c.Right(), c.Up()
	for name, v := range map[string]math3d.Vec3{"forward": f, "right": r, "up": u} {
		if math.Abs(v.Len()-1) > tol {
			t.Errorf("|%s| = %v, want 1", name, v.Len())
		}
	}
	if d := f.Dot(r); math.Abs(d) > tol {
		t.Errorf("forward·right = %v", d)
	}
	if d := f.Dot(u); math.Abs(d) > tol {
		t.Errorf("forward·up = %v", d)
	}
	if d := r.Dot(u); math.Abs(d) > tol {
		t.Errorf("right·up = %v", d)
	}
}

func TestNewCameraBasis(t *testing.T) {
	c := NewCamera(math3d.V3(1, 2, 3))
	if !nearVec(c.Forward(), math3d.V3(0, 0, 1), eps) {
		t.Errorf("Forward() = %v", c.Forward())
	}
	if !nearVec(c.Right(), math3d.V3(1, 0, 0), eps) {
		t.Errorf("Right() = %v", c.Right())
	}
	if !nearVec(c.Up(), math3d.V3(0, 1, 0), eps) {
		t.Errorf("Up() = %v", c.Up())
	}
	if !nearVec(c.Target(), math3d.V3(1, 2, 4), eps) {
		t.Errorf("Target() = %v", c.Target())
	}
	checkBasis(t, c)
}

func TestCameraBasisStaysOrthonormal(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	c := NewCamera(math3d.Zero3())
	c.MaxTurn = 0
	for range 10000 {
		c.Rotate(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
	}
	checkBasis(t, c)

	for range 5000 {
		c.Move(Intent(rng.Uint32()&0xfff), rng.Float64())
	}
	checkBasis(t, c)
}

func TestCameraRotateDirections(t *testing.T) {
	tests := []struct {
		name             string
		pitch, yaw, roll float64
		forward, up      math3d.Vec3
	}{
		{"yaw right", 0, math.Pi / 2, 0, math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		{"yaw left", 0, -math.Pi / 2, 0, math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0)},
		{"pitch down", math.Pi / 2, 0, 0, math3d.V3(0, -1, 0), math3d.V3(0, 0, 1)},
		{"pitch up", -math.Pi / 2, 0, 0, math3d.V3(0, 1, 0), math3d.V3(0, 0, -1)},
		{"roll left", 0, 0, math.Pi / 2, math3d.V3(0, 0, 1), math3d.V3(-1, 0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCamera(math3d.Zero3())
			c.Rotate(tc.pitch, tc.yaw, tc.roll)
			if !nearVec(c.Forward(), tc.forward, 1e-9) {
				t.Errorf("Forward() = %v, want %v", c.Forward(), tc.forward)
			}
			if !nearVec(c.Up(), tc.up, 1e-9) {
				t.Errorf("Up() = %v, want %v", c.Up(), tc.up)
			}
		})
	}
}

func TestCameraMoveAlongLocalAxes(t *testing.T) {
	c := NewCamera(math3d.Zero3())
	c.Rotate(0, math.Pi/2, 0)

	c.Move(IntentForward, 0.5)
	if !nearVec(c.Position, math3d.V3(4, 0, 0), eps) {
		t.Fatalf("after forward: Position = %v, want (4,0,0)", c.Position)
	}

	c.Move(IntentRight, 0.25)
	if !nearVec(c.Position, math3d.V3(4, 0, -2), eps) {
		t.Fatalf("after right: Position = %v, want (4,0,-2)", c.Position)
	}

	c.Move(IntentUp|IntentDown, 1)
	if !nearVec(c.Position, math3d.V3(4, 0, -2), eps) {
		t.Errorf("opposing intents moved camera to %v", c.Position)
	}

	c.Move(IntentBackward|IntentDown, 0.125)
	if !nearVec(c.Position, math3d.V3(3, -1, -2), eps) {
		t.Errorf("after backward+down: Position = %v, want (3,-1,-2)", c.Position)
	}
}

func TestCameraMoveClampsTurn(t *testing.T) {
	c := NewCamera(math3d.Zero3())
	c.Move(IntentYawRight, 10)
	if math.Abs(c.Yaw-c.MaxTurn) > eps {
		t.Errorf("Yaw = %v, want %v", c.Yaw, c.MaxTurn)
	}

	c = NewCamera(math3d.Zero3())
	c.Move(IntentYawRight, 0.1)
	want := math3d.V3(math.Sin(0.2), 0, math.Cos(0.2))
	if !nearVec(c.Forward(), want, eps) {
		t.Errorf("Forward() = %v, want %v", c.Forward(), want)
	}

	c = NewCamera(math3d.Zero3())
	c.Move(IntentPitchUp, 0.1)
	if c.Forward().Y <= 0 {
		t.Errorf("PitchUp gave Forward() = %v, want positive Y", c.Forward())
	}
}

func TestCameraLight(t *testing.T) {
	c := NewCamera(math3d.Zero3())
	c.Rotate(0.3, 0.7, 0)
	if !nearVec(c.LightDir(), c.Forward().Negate(), eps) {
		t.Errorf("headlamp LightDir() = %v, want %v", c.LightDir(), c.Forward().Negate())
	}

	c.SetLightMode(LightFixed, math3d.V3(0, -2, 0))
	if !nearVec(c.LightDir(), math3d.V3(0, -1, 0), eps) {
		t.Errorf("fixed LightDir() = %v", c.LightDir())
	}
	c.Rotate(0.5, 0, 0)
	if !nearVec(c.LightDir(), math3d.V3(0, -1, 0), eps) {
		t.Errorf("fixed light moved with camera: %v", c.LightDir())
	}
}

func TestCameraLookAt(t *testing.T) {
	c := NewCamera(math3d.V3(0, 0, -5))
	c.LookAt(math3d.V3(5, 0, -5))
	if !nearVec(c.Forward(), math3d.V3(1, 0, 0), eps) {
		t.Errorf("Forward() = %v", c.Forward())
	}
	checkBasis(t, c)

	c.LookAt(math3d.V3(0, 10, -5))
	if !nearVec(c.Forward(), math3d.V3(0, 1, 0), eps) {
		t.Errorf("looking straight up: Forward() = %v", c.Forward())
	}
	checkBasis(t, c)
}

func TestViewMatrixMovesCameraToOrigin(t *testing.T) {
	c := NewCamera(math3d.V3(3, -2, 7))
	c.Rotate(0.4, -1.1, 0.2)
	v := c.ViewMatrix()

	if p := v.MulPoint(c.Position); !nearVec(p, math3d.Zero3(), 1e-9) {
		t.Errorf("camera position in view space = %v", p)
	}
	if p := v.MulPoint(c.Position.Add(c.Forward().Scale(2))); !nearVec(p, math3d.V3(0, 0, 2), 1e-9) {
		t.Errorf("point ahead in view space = %v, want (0,0,2)", p)
	}
	if p := v.MulPoint(c.Position.Add(c.Right())); !nearVec(p, math3d.V3(1, 0, 0), 1e-9) {
		t.Errorf("point right in view space = %v, want (1,0,0)", p)
	}
}
