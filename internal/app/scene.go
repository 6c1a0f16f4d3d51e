// Package app assembles a scene from configuration and drives it from a
// terminal.
package app

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/taigrr/facet/internal/config"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
	"github.com/taigrr/facet/pkg/render"
	"github.com/taigrr/facet/pkg/texture"
)

// fitSize is the edge length loaded models are scaled to.
const fitSize = 2.0

// Overview camera and inset placement.
var (
	overviewPos   = math3d.V3(0, 0, -10)
	overviewLight = math3d.V3(0, -1, -1)
	insetRect     = image.Rect(3, 3, 103, 103)

	checkerLight = render.RGB(200, 200, 200)
	checkerDark  = render.RGB(90, 90, 110)
)

// Scene is everything one frame needs: meshes, cameras and the options to
// draw with. Tick mutates it and Draw reads it; the two never overlap.
type Scene struct {
	Meshes   []*models.Mesh
	Camera   *render.Camera
	Overview *render.Camera
	Spinner  *Spinner
	Options  render.Options
	Lens     render.Lens
	Inset    bool
	HUD      bool

	Stats render.Stats // from the last Draw

	home     math3d.Vec3
	renderer *render.Renderer
	rect     image.Rectangle
	views    []render.View
}

// NewScene loads the configured model, or a cube when none is set, and
// places the camera in front of it.
func NewScene(cfg config.Config) (*Scene, error) {
	mesh, err := LoadMesh(cfg.Model, cfg.Texture)
	if err != nil {
		return nil, err
	}
	filter, wrap := cfg.Sampling()
	SetSampling(mesh, filter, wrap)
	render.Logger().Info("model loaded",
		slog.String("name", mesh.Name),
		slog.Int("triangles", mesh.TriangleCount()),
		slog.Int("vertices", mesh.VertexCount()),
		slog.Int("materials", len(mesh.Materials)))

	home := math3d.V3(0, 0, -4)
	cam := render.NewCamera(home)
	cam.MoveSpeed = cfg.MoveSpeed
	cam.TurnSpeed = cfg.TurnSpeed
	if cfg.Light == config.LightFixed {
		cam.SetLightMode(render.LightFixed, overviewLight)
	}

	overview := render.NewCamera(overviewPos)
	overview.SetLightMode(render.LightFixed, overviewLight)

	return &Scene{
		Meshes:   []*models.Mesh{mesh},
		Camera:   cam,
		Overview: overview,
		Spinner:  NewSpinner(cfg.FPS, math3d.V3(cfg.Spin/2, 0, cfg.Spin)),
		Options:  cfg.Options(),
		Lens:     cfg.Lens(),
		Inset:    cfg.Inset,
		HUD:      true,
		home:     home,
		renderer: render.NewRenderer(),
	}, nil
}

// LoadMesh loads an OBJ or glTF model and fits it to a cube of edge 2
// centered on the origin. An empty path gives a checkered unit cube. A
// non-empty texturePath replaces every material's texture.
func LoadMesh(path, texturePath string) (*models.Mesh, error) {
	var (
		mesh *models.Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case path == "":
		mesh = models.NewCube("cube", 1, models.DefaultColor)
	case ext == ".obj":
		mesh, err = models.LoadOBJ(path)
	case ext == ".gltf" || ext == ".glb":
		mesh, err = models.LoadGLTF(path)
	default:
		return nil, fmt.Errorf("load %s: unsupported format %q (use .obj, .gltf or .glb)", path, ext)
	}
	if err != nil {
		return nil, err
	}

	switch {
	case texturePath != "":
		tex, err := texture.Load(texturePath)
		if err != nil {
			return nil, err
		}
		applyTexture(mesh, tex, texturePath)
	case path == "":
		applyTexture(mesh, texture.Checker(64, 64, 8, checkerLight, checkerDark), "")
	}

	if path != "" {
		Fit(mesh, fitSize)
	}
	return mesh, nil
}

// SetSampling sets the filter and wrap modes of every image texture on m.
func SetSampling(m *models.Mesh, filter texture.FilterMode, wrap texture.WrapMode) {
	for i := range m.Materials {
		if tex, ok := m.Materials[i].Texture.(*texture.Texture); ok {
			tex.FilterMode = filter
			tex.WrapU, tex.WrapV = wrap, wrap
		}
	}
}

// applyTexture sets tex on every material, adding one for faces that have
// none.
func applyTexture(m *models.Mesh, tex *texture.Texture, path string) {
	if len(m.Materials) == 0 {
		mat := models.DefaultMaterial()
		m.Materials = append(m.Materials, mat)
	}
	for i := range m.Materials {
		m.Materials[i].Texture = tex
		m.Materials[i].TexturePath = path
	}
	for i := range m.Faces {
		if m.Faces[i].Material < 0 {
			m.Faces[i].Material = 0
		}
	}
}

// Fit moves m's vertices so its bounding box is centered on the origin and
// sets a uniform scale so the largest dimension equals size.
func Fit(m *models.Mesh, size float64) {
	m.CalculateBounds()
	center := m.Center()
	for i := range m.Vertices {
		m.Vertices[i] = m.Vertices[i].Sub(center)
	}
	m.CalculateBounds()

	d := m.Size()
	maxDim := math.Max(d.X, math.Max(d.Y, d.Z))
	if maxDim > 0 {
		s := size / maxDim
		m.SetScale(math3d.V3(s, s, s))
	}
}

// Tick advances the scene by dt seconds: the camera follows the intents
// and every mesh spins.
func (s *Scene) Tick(in render.Intent, dt float64) {
	s.Camera.Move(in, dt)
	delta := s.Spinner.Step(dt)
	if delta != (math3d.Vec3{}) {
		for _, m := range s.Meshes {
			m.Rotate(delta)
		}
	}
}

// Apply performs a one-shot action. It reports whether the app should
// quit.
func (s *Scene) Apply(a Action) bool {
	switch a {
	case ActionQuit:
		return true
	case ActionToggleFill:
		s.Options.Fill = !s.Options.Fill
	case ActionToggleWireframe:
		s.Options.Wireframe = !s.Options.Wireframe
	case ActionToggleTexture:
		s.Options.Textured = !s.Options.Textured
	case ActionToggleInset:
		s.Inset = !s.Inset
	case ActionToggleHUD:
		s.HUD = !s.HUD
	case ActionToggleLight:
		if s.Camera.LightMode == render.LightHeadlamp {
			s.Camera.SetLightMode(render.LightFixed, overviewLight)
		} else {
			s.Camera.SetLightMode(render.LightHeadlamp, s.Camera.FixedLight)
		}
	case ActionSpin:
		s.Spinner.Impulse(math3d.V3(1.5, 2, 0.5))
	case ActionReset:
		mode, light := s.Camera.LightMode, s.Camera.FixedLight
		speed, turn := s.Camera.MoveSpeed, s.Camera.TurnSpeed
		s.Camera = render.NewCamera(s.home)
		s.Camera.MoveSpeed, s.Camera.TurnSpeed = speed, turn
		s.Camera.SetLightMode(mode, light)
		s.Spinner.Reset()
		for _, m := range s.Meshes {
			m.SetRotation(math3d.Zero3())
		}
	}
	return false
}

// Views returns the main view covering rect and, when enabled and there
// is room, the inset overview. Viewports are rebuilt only when rect
// changes.
func (s *Scene) Views(rect image.Rectangle) []render.View {
	if rect != s.rect || len(s.views) == 0 {
		s.rect = rect
		s.views = []render.View{{Viewport: render.NewViewport(rect, s.Lens)}}
		if r := insetRect.Add(rect.Min); r.In(rect) && rect.Dx() >= 2*r.Dx() && rect.Dy() >= 2*r.Dy() {
			s.views = append(s.views, render.View{Viewport: render.NewViewport(r, s.Lens), Inset: true})
		}
	}
	s.views[0].Camera = s.Camera
	if !s.Inset || len(s.views) < 2 {
		return s.views[:1]
	}
	s.views[1].Camera = s.Overview
	return s.views
}

// Draw renders one frame into surf and records its stats.
func (s *Scene) Draw(surf render.Surface) render.Stats {
	w, h := surf.Size()
	s.Stats = s.renderer.Frame(surf, s.Meshes, s.Options, s.Views(image.Rect(0, 0, w, h))...)
	return s.Stats
}

// Status is the one-line HUD text.
func (s *Scene) Status(fps float64) string {
	mark := func(on bool) string {
		if on {
			return "x"
		}
		return " "
	}
	return fmt.Sprintf("%3.0f fps  %d/%d tris  %d culled  [%s]fill [%s]wire [%s]tex [%s]inset  yaw %+.0f° pitch %+.0f° roll %+.0f°",
		fps, s.Stats.Drawn, s.Stats.Triangles, s.Stats.Culled,
		mark(s.Options.Fill), mark(s.Options.Wireframe), mark(s.Options.Textured), mark(s.Inset),
		s.Camera.Yaw*180/math.Pi, s.Camera.Pitch*180/math.Pi, s.Camera.Roll*180/math.Pi)
}
