// Package render turns meshes into screen polygons: camera, viewport,
// back-face culling, clipping, painter's sort and rasterization.
package render

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/taigrr/facet/pkg/clip"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

// View pairs a camera with the viewport it draws into. Inset views clear
// and outline their own rectangle before drawing.
type View struct {
	Camera   *Camera
	Viewport *Viewport
	Inset    bool
}

// drawTri is a near-clipped triangle waiting for the painter's sort.
type drawTri struct {
	tri      clip.Triangle
	depth    float64
	light    float64
	material *models.Material
}

// Renderer runs the pipeline. It keeps scratch buffers between frames and
// must not be used from more than one goroutine at a time.
type Renderer struct {
	arena   *clip.Arena
	clipper clip.Clipper

	world  []math3d.Vec3 // per-mesh world-space vertices
	view   []math3d.Vec3 // per-mesh view-space vertices
	tris   []drawTri
	near   []clip.Triangle
	screen []clip.Triangle
	pts    []math3d.Vec2
}

// NewRenderer creates a renderer.
func NewRenderer() *Renderer {
	return &Renderer{arena: clip.NewArena(1024)}
}

var defaultMaterial = models.DefaultMaterial()

// Frame clears s with opts.Background and renders every view in order.
// The returned stats are summed over all views.
func (r *Renderer) Frame(s Surface, meshes []*models.Mesh, opts Options, views ...View) Stats {
	s.Clear(opts.Background)
	var total Stats
	for _, v := range views {
		total.Add(r.Render(s, v, meshes, opts))
	}
	return total
}

// Render draws meshes into one view of s. It does not clear s unless the
// view is an inset.
func (r *Renderer) Render(s Surface, view View, meshes []*models.Mesh, opts Options) Stats {
	cam, vp := view.Camera, view.Viewport
	var stats Stats

	if view.Inset {
		s.FillPolygon(vp.Area(), opts.Background)
		s.StrokePolygon(vp.Outline(), opts.WireColor)
	}

	r.arena.Reset()
	r.tris = r.tris[:0]

	viewM := cam.ViewMatrix()
	frustum := NewFrustum(viewM.Mul(vp.Projection))
	for _, m := range meshes {
		r.collect(m, cam, vp, viewM, frustum, &stats)
	}

	for i := range r.arena.Len() {
		r.arena.Set(i, vp.Project(r.arena.At(i)))
	}
	for i := range r.tris {
		t := r.tris[i].tri
		r.tris[i].depth = (r.arena.At(t[0]).Pos.Z + r.arena.At(t[1]).Pos.Z + r.arena.At(t[2]).Pos.Z) / 3
	}
	// Back to front.
	slices.SortStableFunc(r.tris, func(a, b drawTri) int {
		return cmp.Compare(b.depth, a.depth)
	})

	bounds := AABB{
		Min: math3d.V3(float64(vp.Rect.Min.X), float64(vp.Rect.Min.Y), 0),
		Max: math3d.V3(float64(vp.Rect.Max.X), float64(vp.Rect.Max.Y), 0),
	}
	for _, dt := range r.tris {
		r.screen = r.clipper.ClipAll(r.arena, vp.Edges, dt.tri, r.screen[:0])
		for _, t := range r.screen {
			r.draw(s, bounds, t, dt, opts)
			stats.Drawn++
		}
	}
	stats.Vertices = r.arena.Len()

	if opts.Debug {
		Logger().LogAttrs(context.Background(), slog.LevelDebug, "frame",
			slog.Bool("inset", view.Inset),
			slog.Int("meshes", stats.Meshes),
			slog.Int("triangles", stats.Triangles),
			slog.Int("culled", stats.Culled),
			slog.Int("clipped", stats.Clipped),
			slog.Int("drawn", stats.Drawn),
			slog.Int("vertices", stats.Vertices),
			slog.Int("skipped", stats.Skipped),
		)
	}
	return stats
}

// collect transforms one mesh, culls back faces and clips against the
// near plane, appending survivors to r.tris.
func (r *Renderer) collect(m *models.Mesh, cam *Camera, vp *Viewport, viewM math3d.Mat4, frustum Frustum, stats *Stats) {
	if len(m.Faces) == 0 {
		return
	}
	world := m.WorldMatrix()
	r.world = r.world[:0]
	for _, v := range m.Vertices {
		r.world = append(r.world, world.MulPoint(v))
	}
	if !frustum.Intersects(BoundsOf(r.world)) {
		return
	}
	stats.Meshes++

	r.view = r.view[:0]
	for _, v := range r.world {
		r.view = append(r.view, viewM.MulPoint(v))
	}

	eye := cam.Position
	light := cam.LightDir()
	for _, f := range m.Faces {
		stats.Triangles++
		if err := m.CheckFace(f); err != nil {
			if debugAssertions {
				panic("render: mesh " + m.Name + ": " + err.Error())
			}
			stats.Skipped++
			continue
		}

		p0, p1, p2 := r.world[f.V[0]], r.world[f.V[1]], r.world[f.V[2]]
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		if normal.LenSq() == 0 || normal.Dot(p0.Sub(eye)) > 0 {
			stats.Culled++
			continue
		}

		var t clip.Triangle
		for i := range 3 {
			tex := math3d.V3(0, 0, 1)
			if f.HasUV {
				uv := m.TexCoords[f.UV[i]]
				tex = math3d.V3(uv.X, uv.Y, 1)
			}
			t[i] = r.arena.Add(clip.Vertex{
				Pos: math3d.V4FromV3(r.view[f.V[i]], 1),
				Tex: tex,
			})
		}

		r.near = clip.ClipTriangle(r.arena, vp.NearPlane, t, r.near[:0])
		if len(r.near) == 0 {
			stats.Clipped++
			continue
		}
		mat := m.GetMaterial(f.Material)
		if mat == nil {
			mat = &defaultMaterial
		}
		lum := normal.Normalize().Dot(light)
		for _, nt := range r.near {
			r.tris = append(r.tris, drawTri{tri: nt, light: lum, material: mat})
		}
	}
}

// draw fills and strokes one screen triangle.
func (r *Renderer) draw(s Surface, bounds AABB, t clip.Triangle, dt drawTri, opts Options) {
	v0, v1, v2 := r.arena.At(t[0]), r.arena.At(t[1]), r.arena.At(t[2])
	r.pts = append(r.pts[:0],
		math3d.V2(v0.Pos.X, v0.Pos.Y),
		math3d.V2(v1.Pos.X, v1.Pos.Y),
		math3d.V2(v2.Pos.X, v2.Pos.Y),
	)

	if opts.Fill {
		switch sh := dt.material.Shading().(type) {
		case models.Textured:
			if !opts.Textured {
				s.FillPolygon(r.pts, dt.material.Shade(dt.light))
				break
			}
			sample := sh.Texture.Sample
			if opts.ShadeTextures {
				sample = func(u, v float64) Color {
					return models.Shade(sh.Texture.Sample(u, v), dt.light)
				}
			}
			FillTextured(s, bounds, v0, v1, v2, sample)
		case models.FlatColor:
			s.FillPolygon(r.pts, models.Shade(sh.Color, dt.light))
		}
	}
	if opts.Wireframe {
		s.StrokePolygon(r.pts, opts.WireColor)
	}
}
