package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorPool allocates descriptor sets.
type DescriptorPool struct {
	Device               *Device
	VKDescriptorPool     vk.DescriptorPool
	VKDescriptorPoolSize []vk.DescriptorPoolSize
}

func (d *Device) NewDescriptorPool() *DescriptorPool {
	return &DescriptorPool{Device: d}
}

// AddPoolSize reserves count descriptors of dtype.
func (p *DescriptorPool) AddPoolSize(dtype vk.DescriptorType, count int) *DescriptorPool {
	p.VKDescriptorPoolSize = append(p.VKDescriptorPoolSize, vk.DescriptorPoolSize{
		Type:            dtype,
		DescriptorCount: uint32(count),
	})
	return p
}

// Create creates the pool with room for maxSets sets.
func (p *DescriptorPool) Create(maxSets int) (*DescriptorPool, error) {
	createInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       uint32(maxSets),
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		PoolSizeCount: uint32(len(p.VKDescriptorPoolSize)),
		PPoolSizes:    p.VKDescriptorPoolSize,
	}
	var pool vk.DescriptorPool
	if err := vk.Error(vk.CreateDescriptorPool(p.Device.VKDevice, &createInfo, nil, &pool)); err != nil {
		return nil, errors.Wrap(err, "create descriptor pool")
	}
	p.VKDescriptorPool = pool
	return p, nil
}

// Allocate allocates one descriptor set with layout.
func (p *DescriptorPool) Allocate(layout *DescriptorSetLayout) (*DescriptorSet, error) {
	allocateInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     p.VKDescriptorPool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{layout.VKDescriptorSetLayout},
	}
	var set vk.DescriptorSet
	if err := vk.Error(vk.AllocateDescriptorSets(p.Device.VKDevice, &allocateInfo, &set)); err != nil {
		return nil, errors.Wrap(err, "allocate descriptor set")
	}
	return &DescriptorSet{Device: p.Device, DescriptorPool: p, VKDescriptorSet: set}, nil
}

func (p *DescriptorPool) Free(ds *DescriptorSet) error {
	set := ds.VKDescriptorSet
	return errors.Wrap(vk.Error(vk.FreeDescriptorSets(p.Device.VKDevice, p.VKDescriptorPool, 1, &set)), "free descriptor set")
}

func (p *DescriptorPool) Destroy() {
	vk.DestroyDescriptorPool(p.Device.VKDevice, p.VKDescriptorPool, nil)
}
