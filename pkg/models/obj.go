package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/texture"
)

// OBJLoader loads Wavefront OBJ files and the MTL libraries they
// reference.
type OBJLoader struct {
	// Textures caches map_Kd images shared between materials and files.
	Textures *texture.Cache
}

// NewOBJLoader creates a loader with its own texture cache.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{Textures: texture.NewCache()}
}

// LoadOBJ loads an OBJ file with a fresh loader.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// Load reads the OBJ file at path. Relative mtllib and map_Kd paths are
// resolved against the file's directory.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	mesh, err := l.Parse(f, filepath.Base(path), filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	return mesh, nil
}

// Parse reads OBJ data from r. dir is used to resolve referenced files.
// Polygons are fan-triangulated. Faces appearing before any usemtl have no
// material.
func (l *OBJLoader) Parse(r io.Reader, name, dir string) (*Mesh, error) {
	mesh := NewMesh(name)
	current := -1
	log := logging.Logger()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, math3d.V3(v[0], v[1], v[2]))

		case "vt":
			v, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", lineNo, err)
			}
			mesh.TexCoords = append(mesh.TexCoords, math3d.V2(v[0], v[1]))

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			refs := make([]faceRef, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				ref, err := parseFaceRef(tok, len(mesh.Vertices), len(mesh.TexCoords))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				refs = append(refs, ref)
			}
			for i := 1; i+1 < len(refs); i++ {
				a, b, c := refs[0], refs[i], refs[i+1]
				mesh.Faces = append(mesh.Faces, Face{
					V:        [3]int{a.v, b.v, c.v},
					UV:       [3]int{a.vt, b.vt, c.vt},
					HasUV:    a.vt >= 0 && b.vt >= 0 && c.vt >= 0,
					Material: current,
				})
			}

		case "usemtl":
			if len(fields) < 2 {
				continue
			}
			current = mesh.MaterialIndex(fields[1])
			if current < 0 {
				log.Debug("obj: unknown material", "name", fields[1], "line", lineNo)
			}

		case "mtllib":
			for _, lib := range fields[1:] {
				mats, err := l.LoadMTL(filepath.Join(dir, lib))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				mesh.Materials = append(mesh.Materials, mats...)
			}

		default:
			// vn, o, g, s and friends carry nothing the pipeline uses.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("no faces found")
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// LoadMTL reads a material library. Kd sets the color from reflectance and
// map_Kd attaches a texture; materials without Kd get DefaultColor.
func (l *OBJLoader) LoadMTL(path string) ([]Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtl %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var mats []Material
	var cur *Material

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "newmtl":
			if len(fields) < 2 {
				return nil, fmt.Errorf("mtl %q line %d: newmtl without name", path, lineNo)
			}
			mats = append(mats, Material{Name: fields[1], Color: DefaultColor})
			cur = &mats[len(mats)-1]

		case "Kd":
			if cur == nil {
				continue
			}
			kd, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("mtl %q line %d: Kd: %w", path, lineNo, err)
			}
			cur.Color = ColorFromReflectance([3]float64{kd[0], kd[1], kd[2]})

		case "map_Kd":
			if cur == nil || len(fields) < 2 {
				continue
			}
			// Options such as -s come before the file name.
			texPath := fields[len(fields)-1]
			if !filepath.IsAbs(texPath) {
				texPath = filepath.Join(dir, texPath)
			}
			tex, err := l.loadTexture(texPath)
			if err != nil {
				return nil, fmt.Errorf("mtl %q line %d: %w", path, lineNo, err)
			}
			cur.Texture = tex
			cur.TexturePath = texPath
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan mtl: %w", err)
	}
	return mats, nil
}

func (l *OBJLoader) loadTexture(path string) (*texture.Texture, error) {
	if l.Textures == nil {
		return texture.Load(path)
	}
	return l.Textures.Load(path)
}

type faceRef struct {
	v, vt int
}

// parseFaceRef parses "v", "v/vt", "v//vn" or "v/vt/vn" into 0-based
// indices. Negative OBJ indices count back from the end of the list.
func parseFaceRef(tok string, nv, nvt int) (faceRef, error) {
	parts := strings.Split(tok, "/")
	ref := faceRef{v: -1, vt: -1}

	v, err := resolveIndex(parts[0], nv)
	if err != nil {
		return ref, fmt.Errorf("face vertex %q: %w", tok, err)
	}
	ref.v = v

	if len(parts) > 1 && parts[1] != "" {
		vt, err := resolveIndex(parts[1], nvt)
		if err != nil {
			return ref, fmt.Errorf("face texture coordinate %q: %w", tok, err)
		}
		ref.vt = vt
	}
	return ref, nil
}

func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, fmt.Errorf("index 0 is invalid")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index out of range (have %d)", n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}
