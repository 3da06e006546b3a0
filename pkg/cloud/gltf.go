package cloud

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/toroid/pkg/math3d"
)

// Generator is recorded in the asset block of exported files.
const Generator = "toroid"

// SaveGLB writes the cloud as a binary glTF file holding one POINTS
// primitive with POSITION, NORMAL and COLOR_0 attributes. The grey of each
// point is stored as an opaque RGBA color.
func (c *Cloud) SaveGLB(path string) error {
	if len(c.Points) == 0 {
		return fmt.Errorf("save %s: empty cloud", path)
	}

	positions := make([][3]float32, len(c.Points))
	normals := make([][3]float32, len(c.Points))
	colors := make([][4]uint8, len(c.Points))
	for i, p := range c.Points {
		positions[i] = p.Position.Float32()
		normals[i] = p.Normal.Float32()
		colors[i] = [4]uint8{p.Grey, p.Grey, p.Grey, 255}
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
		gltf.NORMAL:   modeler.WriteNormal(doc, normals),
		gltf.COLOR_0:  modeler.WriteColor(doc, colors),
	}
	doc.Meshes = []*gltf.Mesh{{
		Name: c.Name,
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitivePoints,
			Attributes: attrs,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: c.Name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Load reads every POINTS primitive of a glTF or GLB file into a cloud.
// Points without normals get a zero normal; points without colors are black.
func Load(path string) (*Cloud, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	c := New(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := c.processMesh(doc, m); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(c.Points) == 0 {
		return nil, fmt.Errorf("%s: no point primitives", path)
	}

	c.CalculateBounds()
	return c, nil
}

// processMesh extracts points from a glTF mesh.
func (c *Cloud) processMesh(doc *gltf.Document, m *gltf.Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitivePoints {
			// Triangles and lines are not point data
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

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var colors [][4]uint8
		if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			colors, err = readColorAccessor(doc, colIdx)
			if err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		}

		for i := range positions {
			p := Point{Position: positions[i]}
			if i < len(normals) {
				p.Normal = normals[i]
			}
			if i < len(colors) {
				p.Grey = colors[i][0]
			}
			c.Points = append(c.Points, p)
		}
	}

	return nil
}

// readVec3Accessor reads float VEC3 data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float VEC3, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	buf, start, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		var f [3]float32
		for j := range 3 {
			f[j] = readFloat32(buf[offset+j*4:])
		}
		result[i] = math3d.FromFloat32(f)
	}
	return result, nil
}

// readColorAccessor reads unsigned byte RGBA colors from a glTF accessor.
func readColorAccessor(doc *gltf.Document, accessorIdx int) ([][4]uint8, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec4 || accessor.ComponentType != gltf.ComponentUbyte {
		return nil, fmt.Errorf("expected ubyte VEC4, got %v / %v", accessor.Type, accessor.ComponentType)
	}

	buf, start, stride, err := accessorBytes(doc, accessor, 4)
	if err != nil {
		return nil, err
	}

	result := make([][4]uint8, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		copy(result[i][:], buf[offset:offset+4])
	}
	return result, nil
}

// accessorBytes returns the embedded buffer behind an accessor, the offset of
// its first element and the element stride. elemSize is used when the buffer
// view is tightly packed.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" {
		return nil, 0, 0, fmt.Errorf("external buffers not supported")
	}
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if accessor.Count > 0 {
		if end := start + (accessor.Count-1)*stride + elemSize; end > len(buffer.Data) {
			return nil, 0, 0, fmt.Errorf("accessor overruns buffer (%d > %d)", end, len(buffer.Data))
		}
	}
	return buffer.Data, start, stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
