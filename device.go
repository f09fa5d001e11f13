package vkframe

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

// WaitIdle blocks until the device has no work left.
func (d *Device) WaitIdle() error {
	return checkResult("wait device idle", vk.DeviceWaitIdle(d.VKDevice))
}

// GetQueue returns the first queue of qf.
func (d *Device) GetQueue(qf *QueueFamily) *Queue {
	var q vk.Queue
	vk.GetDeviceQueue(d.VKDevice, uint32(qf.Index), 0, &q)
	return &Queue{Device: d, QueueFamily: qf, VKQueue: q}
}

// AllocationRequirements is the size and allowed memory types for a resource.
type AllocationRequirements struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
}

// Allocate reserves sizeInBytes of memory with the given properties.
func (d *Device) Allocate(sizeInBytes uint64, memoryTypeBits uint32, properties vk.MemoryPropertyFlags) (*DeviceMemory, error) {
	typeIndex, err := d.PhysicalDevice.FindMemoryType(memoryTypeBits, properties)
	if err != nil {
		return nil, err
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(sizeInBytes),
		MemoryTypeIndex: typeIndex,
	}

	var mem vk.DeviceMemory
	if err := vk.Error(vk.AllocateMemory(d.VKDevice, &allocateInfo, nil, &mem)); err != nil {
		return nil, errors.Wrapf(err, "allocate %d bytes", sizeInBytes)
	}
	return &DeviceMemory{Device: d, VKDeviceMemory: mem, Size: sizeInBytes, TypeIndex: typeIndex}, nil
}

// AllocateForBuffer allocates memory sized for b.
func (d *Device) AllocateForBuffer(b *Buffer, properties vk.MemoryPropertyFlags) (*DeviceMemory, error) {
	ar := b.AllocationRequirements()
	return d.Allocate(ar.Size, ar.MemoryTypeBits, properties)
}
