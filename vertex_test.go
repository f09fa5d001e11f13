package vkframe

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestVertexBytes(t *testing.T) {
	data := VertexBytes(TriangleVertices)
	require.Len(t, data, len(TriangleVertices)*VertexStride)

	for i, v := range TriangleVertices {
		x := math.Float32frombits(binary.LittleEndian.Uint32(data[i*VertexStride:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(data[i*VertexStride+4:]))
		require.Equal(t, v.Position[0], x)
		require.Equal(t, v.Position[1], y)
	}
}

func TestVertexLayout(t *testing.T) {
	b := VertexBindingDescription()
	require.EqualValues(t, 0, b.Binding)
	require.EqualValues(t, VertexStride, b.Stride)
	require.Equal(t, vk.VertexInputRateVertex, b.InputRate)

	attrs := VertexAttributeDescriptions()
	require.Len(t, attrs, 1)
	require.EqualValues(t, 0, attrs[0].Location)
	require.Equal(t, vk.FormatR32g32Sfloat, attrs[0].Format)
	require.EqualValues(t, 0, attrs[0].Offset)
}

func TestTriangleVertices(t *testing.T) {
	require.Equal(t, []Vertex{
		{Position: [2]float32{-0.5, -0.5}},
		{Position: [2]float32{0.0, 0.5}},
		{Position: [2]float32{0.5, -0.25}},
	}, TriangleVertices)
}
