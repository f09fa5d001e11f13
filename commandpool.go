package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type CommandPool struct {
	Device        *Device
	QueueFamily   *QueueFamily
	VKCommandPool vk.CommandPool
}

// CreateCommandPool creates a pool whose buffers can be reset individually.
func (d *Device) CreateCommandPool(q *QueueFamily) (*CommandPool, error) {
	createInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: uint32(q.Index),
	}
	var pool vk.CommandPool
	if err := vk.Error(vk.CreateCommandPool(d.VKDevice, &createInfo, nil, &pool)); err != nil {
		return nil, errors.Wrap(err, "create command pool")
	}
	return &CommandPool{Device: d, QueueFamily: q, VKCommandPool: pool}, nil
}

func (c *CommandPool) Destroy() {
	vk.DestroyCommandPool(c.Device.VKDevice, c.VKCommandPool, nil)
}

// AllocateBuffers allocates count primary command buffers.
func (c *CommandPool) AllocateBuffers(count int) ([]*CommandBuffer, error) {
	if count <= 0 {
		return nil, errors.Errorf("allocate %d command buffers", count)
	}
	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.VKCommandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}
	handles := make([]vk.CommandBuffer, count)
	if err := vk.Error(vk.AllocateCommandBuffers(c.Device.VKDevice, &allocateInfo, handles)); err != nil {
		return nil, errors.Wrapf(err, "allocate %d command buffers", count)
	}

	ret := make([]*CommandBuffer, count)
	for i, h := range handles {
		ret[i] = &CommandBuffer{Pool: c, VKCommandBuffer: h}
	}
	return ret, nil
}

func (c *CommandPool) AllocateBuffer() (*CommandBuffer, error) {
	ret, err := c.AllocateBuffers(1)
	if err != nil {
		return nil, err
	}
	return ret[0], nil
}

func (c *CommandPool) FreeBuffers(bs []*CommandBuffer) {
	if len(bs) == 0 {
		return
	}
	vk.FreeCommandBuffers(c.Device.VKDevice, c.VKCommandPool, uint32(len(bs)), commandBufferHandles(bs))
}
