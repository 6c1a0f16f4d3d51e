package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/texture"
)

// GLTFLoader loads glTF/GLB files into Mesh format.
type GLTFLoader struct {
	// FlipHandedness negates Z and reverses winding, converting glTF's
	// right-handed space to the renderer's left-handed one.
	FlipHandedness bool
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{FlipHandedness: true}
}

// LoadGLTF loads a .gltf or .glb file with default options.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file and merges all of its meshes into one Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.Convert(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}
	return mesh, nil
}

// Convert builds a Mesh from an already decoded document.
func (l *GLTFLoader) Convert(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for i, m := range doc.Materials {
		mat, err := convertMaterial(doc, m)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		mesh.Materials = append(mesh.Materials, mat)
	}

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("no triangles found")
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func convertMaterial(doc *gltf.Document, m *gltf.Material) (Material, error) {
	mat := Material{Name: m.Name, Color: DefaultColor}
	pbr := m.PBRMetallicRoughness
	if pbr == nil {
		return mat, nil
	}
	if f := pbr.BaseColorFactor; f != nil {
		mat.Color = ColorFromReflectance([3]float64{f[0], f[1], f[2]})
	}
	if pbr.BaseColorTexture == nil {
		return mat, nil
	}

	data, err := textureBytes(doc, pbr.BaseColorTexture.Index)
	if err != nil {
		return mat, err
	}
	if data == nil {
		logging.Logger().Debug("gltf: base color texture not embedded", "material", m.Name)
		return mat, nil
	}
	tex, err := texture.DecodeBytes(data)
	if err != nil {
		return mat, fmt.Errorf("base color texture: %w", err)
	}
	mat.Texture = tex
	return mat, nil
}

// textureBytes returns the encoded image behind a texture index, or nil if
// it is not stored in a buffer.
func textureBytes(doc *gltf.Document, texIdx int) ([]byte, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", texIdx)
	}
	src := doc.Textures[texIdx].Source
	if src == nil || *src >= len(doc.Images) {
		return nil, nil
	}
	img := doc.Images[*src]
	if img.BufferView == nil {
		return nil, nil
	}
	bv := doc.BufferViews[*img.BufferView]
	buf := doc.Buffers[bv.Buffer].Data
	if bv.ByteOffset+bv.ByteLength > len(buf) {
		return nil, fmt.Errorf("image buffer view out of range")
	}
	return buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength], nil
}

// processMesh appends the triangle primitives of m to mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			logging.Logger().Debug("gltf: skipping non-triangle primitive", "mesh", m.Name, "mode", prim.Mode)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		baseVertex := len(mesh.Vertices)
		baseUV := len(mesh.TexCoords)
		for _, p := range positions {
			if l.FlipHandedness {
				p.Z = -p.Z
			}
			mesh.Vertices = append(mesh.Vertices, p)
		}
		// glTF puts V=0 at the top of the image.
		for _, uv := range uvs {
			mesh.TexCoords = append(mesh.TexCoords, math3d.V2(uv.X, 1.0-uv.Y))
		}
		hasUV := len(uvs) == len(positions)

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+1], indices[i+2]
			if l.FlipHandedness {
				b, c = c, b
			}
			f := Face{
				V:        [3]int{baseVertex + a, baseVertex + b, baseVertex + c},
				Material: material,
				HasUV:    hasUV,
			}
			if hasUV {
				f.UV = [3]int{baseUV + a, baseUV + b, baseUV + c}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}
	return nil
}

// readVec3Accessor reads float VEC3 data from an accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	floats, err := readFloatAccessor(doc, accessorIdx, gltf.AccessorVec3, 3)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec3, len(floats)/3)
	for i := range result {
		result[i] = math3d.V3(floats[i*3], floats[i*3+1], floats[i*3+2])
	}
	return result, nil
}

// readVec2Accessor reads float VEC2 data from an accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	floats, err := readFloatAccessor(doc, accessorIdx, gltf.AccessorVec2, 2)
	if err != nil {
		return nil, err
	}
	result := make([]math3d.Vec2, len(floats)/2)
	for i := range result {
		result[i] = math3d.V2(floats[i*2], floats[i*2+1])
	}
	return result, nil
}

func readFloatAccessor(doc *gltf.Document, accessorIdx int, typ gltf.AccessorType, n int) ([]float64, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	acc := doc.Accessors[accessorIdx]
	if acc.Type != typ {
		return nil, fmt.Errorf("expected %v, got %v", typ, acc.Type)
	}
	if acc.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type %v", acc.ComponentType)
	}

	data, stride, err := accessorBytes(doc, acc, n*4)
	if err != nil {
		return nil, err
	}

	out := make([]float64, 0, acc.Count*n)
	for i := range acc.Count {
		off := i * stride
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[off+j*4:])
			out = append(out, float64(math.Float32frombits(bits)))
		}
	}
	return out, nil
}

// readIndices reads index data from an accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	acc := doc.Accessors[accessorIdx]

	var size int
	switch acc.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", acc.ComponentType)
	}

	data, stride, err := accessorBytes(doc, acc, size)
	if err != nil {
		return nil, err
	}

	out := make([]int, acc.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		default:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}

// accessorBytes returns the buffer bytes starting at the accessor's first
// element and the element stride, checking that every element fits.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}
	bv := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[bv.Buffer].Data
	if buf == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		end := start + (acc.Count-1)*stride + elemSize
		if end > len(buf) {
			return nil, 0, fmt.Errorf("accessor reads past end of buffer (%d > %d)", end, len(buf))
		}
	}
	return buf[start:], stride, nil
}
