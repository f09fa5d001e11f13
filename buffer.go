package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Buffer is a linear range of GPU-visible memory. It is not usable until
// bound to memory.
type Buffer struct {
	Device   *Device
	VKBuffer vk.Buffer
	Size     uint64
	Usage    vk.BufferUsageFlags
}

func (d *Device) CreateBuffer(sizeInBytes uint64, usage vk.BufferUsageFlags) (*Buffer, error) {
	return d.CreateBufferWithOptions(sizeInBytes, usage, vk.SharingModeExclusive)
}

func (d *Device) CreateBufferWithOptions(sizeInBytes uint64, usage vk.BufferUsageFlags, sharing vk.SharingMode) (*Buffer, error) {
	if sizeInBytes == 0 {
		return nil, errors.New("create buffer: zero size")
	}
	createInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(sizeInBytes),
		Usage:       usage,
		SharingMode: sharing,
	}
	var buffer vk.Buffer
	if err := vk.Error(vk.CreateBuffer(d.VKDevice, &createInfo, nil, &buffer)); err != nil {
		return nil, errors.Wrapf(err, "create buffer of %d bytes", sizeInBytes)
	}
	return &Buffer{Device: d, VKBuffer: buffer, Size: sizeInBytes, Usage: usage}, nil
}

func (b *Buffer) AllocationRequirements() AllocationRequirements {
	var mr vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(b.Device.VKDevice, b.VKBuffer, &mr)
	mr.Deref()
	return AllocationRequirements{
		Size:           uint64(mr.Size),
		Alignment:      uint64(mr.Alignment),
		MemoryTypeBits: mr.MemoryTypeBits,
	}
}

// DescriptorInfo describes the whole buffer for a descriptor write.
func (b *Buffer) DescriptorInfo() vk.DescriptorBufferInfo {
	return vk.DescriptorBufferInfo{
		Buffer: b.VKBuffer,
		Offset: 0,
		Range:  vk.DeviceSize(b.Size),
	}
}

func (b *Buffer) Bind(memory *DeviceMemory, offset uint64) error {
	res := vk.BindBufferMemory(b.Device.VKDevice, b.VKBuffer, memory.VKDeviceMemory, vk.DeviceSize(offset))
	return errors.Wrap(vk.Error(res), "bind buffer memory")
}

func (b *Buffer) Destroy() {
	vk.DestroyBuffer(b.Device.VKDevice, b.VKBuffer, nil)
}

// HostBuffer is a buffer with its own host visible, coherent memory.
type HostBuffer struct {
	*Buffer
	Memory *DeviceMemory
}

// CreateHostBuffer creates a buffer of size bytes backed by host visible
// memory, used for vertex data, compute storage and readback.
func (d *Device) CreateHostBuffer(size uint64, usage vk.BufferUsageFlags) (*HostBuffer, error) {
	b, err := d.CreateBuffer(size, usage)
	if err != nil {
		return nil, err
	}
	mem, err := d.AllocateForBuffer(b, vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit))
	if err != nil {
		b.Destroy()
		return nil, err
	}
	if err := b.Bind(mem, 0); err != nil {
		mem.Destroy()
		b.Destroy()
		return nil, err
	}
	return &HostBuffer{Buffer: b, Memory: mem}, nil
}

// Write copies data to the start of the buffer.
func (h *HostBuffer) Write(data []byte) error {
	if uint64(len(data)) > h.Size {
		return errors.Errorf("write of %d bytes exceeds buffer of %d", len(data), h.Size)
	}
	return h.Memory.MapCopyUnmap(0, data)
}

// Read copies the whole buffer out.
func (h *HostBuffer) Read() ([]byte, error) {
	return h.Memory.MapReadUnmap(0, h.Size)
}

func (h *HostBuffer) Destroy() {
	h.Buffer.Destroy()
	h.Memory.Destroy()
}
