package vkframe

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Vertex is a 2D clip space position, the only attribute the triangle
// shaders read.
type Vertex struct {
	Position [2]float32
}

// VertexStride is the size of one Vertex in a vertex buffer.
const VertexStride = 8

// TriangleVertices is the static geometry drawn by the examples.
var TriangleVertices = []Vertex{
	{Position: [2]float32{-0.5, -0.5}},
	{Position: [2]float32{0.0, 0.5}},
	{Position: [2]float32{0.5, -0.25}},
}

// VertexBytes packs vertices the way the pipeline vertex layout describes
// them: two little-endian float32 per vertex.
func VertexBytes(vertices []Vertex) []byte {
	out := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		binary.LittleEndian.PutUint32(out[i*VertexStride:], math.Float32bits(v.Position[0]))
		binary.LittleEndian.PutUint32(out[i*VertexStride+4:], math.Float32bits(v.Position[1]))
	}
	return out
}

// VertexBindingDescription describes binding 0 as per-vertex Vertex data.
func VertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    VertexStride,
		InputRate: vk.VertexInputRateVertex,
	}
}

// VertexAttributeDescriptions maps Position to shader location 0.
func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{{
		Location: 0,
		Binding:  0,
		Format:   vk.FormatR32g32Sfloat,
		Offset:   0,
	}}
}

// VertexBuffer is a buffer of vertices in host visible memory.
type VertexBuffer struct {
	*Buffer
	count   int
	backing interface{ Destroy() }
}

// CreateHostVertexBuffer uploads vertices into a new buffer with its own
// memory.
func (d *Device) CreateHostVertexBuffer(vertices []Vertex) (*VertexBuffer, error) {
	if len(vertices) == 0 {
		return nil, errors.New("create vertex buffer: no vertices")
	}
	data := VertexBytes(vertices)
	hb, err := d.CreateHostBuffer(uint64(len(data)), vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	if err != nil {
		return nil, err
	}
	if err := hb.Write(data); err != nil {
		hb.Destroy()
		return nil, err
	}
	return &VertexBuffer{Buffer: hb.Buffer, count: len(vertices), backing: hb}, nil
}

// AllocateVertexBuffer uploads vertices into a buffer carved out of the pool.
func (p *BufferPool) AllocateVertexBuffer(vertices []Vertex) (*VertexBuffer, error) {
	if len(vertices) == 0 {
		return nil, errors.New("allocate vertex buffer: no vertices")
	}
	data := VertexBytes(vertices)
	r, err := p.AllocateBuffer(uint64(len(data)), vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	if err != nil {
		return nil, err
	}
	if err := r.Write(data); err != nil {
		r.Free()
		return nil, err
	}
	return &VertexBuffer{Buffer: r.Buffer, count: len(vertices), backing: r}, nil
}

// Len is the number of vertices in the buffer.
func (v *VertexBuffer) Len() int {
	return v.count
}

func (v *VertexBuffer) Destroy() {
	v.backing.Destroy()
}
