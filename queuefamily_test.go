package vkframe

import (
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func family(index int, flags vk.QueueFlagBits) *QueueFamily {
	return &QueueFamily{
		Index:                   index,
		VKQueueFamilyProperties: vk.QueueFamilyProperties{QueueFlags: vk.QueueFlags(flags), QueueCount: 2},
	}
}

func TestQueueFamilySlice(t *testing.T) {
	qfs := QueueFamilySlice{
		family(0, vk.QueueGraphicsBit|vk.QueueComputeBit|vk.QueueTransferBit),
		family(1, vk.QueueComputeBit),
		family(2, vk.QueueTransferBit),
	}

	require.Len(t, qfs.FilterGraphics(), 1)
	require.Len(t, qfs.FilterCompute(), 2)
	require.Len(t, qfs.FilterTransfer(), 2)
	require.Equal(t, 1, qfs.FilterCompute()[1].Index)

	require.True(t, qfs[0].IsGraphics())
	require.False(t, qfs[1].IsGraphics())

	report := qfs.Report()
	require.Contains(t, report, "Index: 0")
	require.Contains(t, report, "count=2")
}

func TestQueueFamilyUnique(t *testing.T) {
	g := family(0, vk.QueueGraphicsBit)
	c := family(1, vk.QueueComputeBit)

	u := QueueFamilySlice{g, g, c, family(0, vk.QueueGraphicsBit)}.Unique()
	require.Len(t, u, 2)
	require.Same(t, g, u[0])
	require.Same(t, c, u[1])
}
