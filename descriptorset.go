package vkframe

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSet binds resources to the slots of a DescriptorSetLayout. Writes
// are queued with Add calls and applied by Write.
type DescriptorSet struct {
	Device          *Device
	DescriptorPool  *DescriptorPool
	VKDescriptorSet vk.DescriptorSet

	writes []vk.WriteDescriptorSet
}

// AddBuffer binds all of b to binding.
func (s *DescriptorSet) AddBuffer(binding int, dtype vk.DescriptorType, b *Buffer) *DescriptorSet {
	s.writes = append(s.writes, vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstBinding:      uint32(binding),
		DescriptorCount: 1,
		DescriptorType:  dtype,
		PBufferInfo:     []vk.DescriptorBufferInfo{b.DescriptorInfo()},
	})
	return s
}

// Write applies the queued writes.
func (s *DescriptorSet) Write() {
	if len(s.writes) == 0 {
		return
	}
	for i := range s.writes {
		s.writes[i].DstSet = s.VKDescriptorSet
	}
	vk.UpdateDescriptorSets(s.Device.VKDevice, uint32(len(s.writes)), s.writes, 0, nil)
	s.writes = nil
}
