package vkframe

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DeviceMemory is a block of memory on the host or the device.
type DeviceMemory struct {
	Device         *Device
	VKDeviceMemory vk.DeviceMemory
	Size           uint64
	TypeIndex      uint32

	mapped unsafe.Pointer
}

func (d *DeviceMemory) IsMapped() bool {
	return d.mapped != nil
}

func (d *DeviceMemory) Destroy() {
	if d.IsMapped() {
		d.Unmap()
	}
	vk.FreeMemory(d.Device.VKDevice, d.VKDeviceMemory, nil)
}

// MapWithOffset maps size bytes starting at offset. Memory can be mapped once
// at a time.
func (d *DeviceMemory) MapWithOffset(offset, size uint64) ([]byte, error) {
	if d.IsMapped() {
		return nil, errors.New("device memory already mapped")
	}
	if offset+size > d.Size {
		return nil, errors.Errorf("map range %d+%d exceeds allocation of %d bytes", offset, size, d.Size)
	}
	var ptr unsafe.Pointer
	res := vk.MapMemory(d.Device.VKDevice, d.VKDeviceMemory, vk.DeviceSize(offset), vk.DeviceSize(size), 0, &ptr)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "map memory")
	}
	d.mapped = ptr
	return ToBytes(ptr, int(size)), nil
}

// Map maps the whole allocation.
func (d *DeviceMemory) Map() ([]byte, error) {
	return d.MapWithOffset(0, d.Size)
}

func (d *DeviceMemory) Unmap() {
	vk.UnmapMemory(d.Device.VKDevice, d.VKDeviceMemory)
	d.mapped = nil
}

// MapCopyUnmap copies data to offset. The memory must be host coherent.
func (d *DeviceMemory) MapCopyUnmap(offset uint64, data []byte) error {
	dst, err := d.MapWithOffset(offset, uint64(len(data)))
	if err != nil {
		return err
	}
	copy(dst, data)
	d.Unmap()
	return nil
}

// MapReadUnmap copies size bytes at offset out of the memory.
func (d *DeviceMemory) MapReadUnmap(offset, size uint64) ([]byte, error) {
	src, err := d.MapWithOffset(offset, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	copy(out, src)
	d.Unmap()
	return out, nil
}
