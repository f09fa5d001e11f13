package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSetLayout describes the bindings of a descriptor set.
type DescriptorSetLayout struct {
	Device                        *Device
	VKDescriptorSetLayout         vk.DescriptorSetLayout
	VKDescriptorSetLayoutBindings []vk.DescriptorSetLayoutBinding
}

func (d *Device) NewDescriptorSetLayout() *DescriptorSetLayout {
	return &DescriptorSetLayout{Device: d}
}

// AddBinding appends a binding of count descriptors of dtype visible to stages.
func (l *DescriptorSetLayout) AddBinding(binding int, dtype vk.DescriptorType, count int, stages vk.ShaderStageFlags) *DescriptorSetLayout {
	l.VKDescriptorSetLayoutBindings = append(l.VKDescriptorSetLayoutBindings, vk.DescriptorSetLayoutBinding{
		Binding:         uint32(binding),
		DescriptorType:  dtype,
		DescriptorCount: uint32(count),
		StageFlags:      stages,
	})
	return l
}

// Create creates the Vulkan object for the bindings added so far.
func (l *DescriptorSetLayout) Create() (*DescriptorSetLayout, error) {
	createInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(l.VKDescriptorSetLayoutBindings)),
		PBindings:    l.VKDescriptorSetLayoutBindings,
	}
	var layout vk.DescriptorSetLayout
	if err := vk.Error(vk.CreateDescriptorSetLayout(l.Device.VKDevice, &createInfo, nil, &layout)); err != nil {
		return nil, errors.Wrap(err, "create descriptor set layout")
	}
	l.VKDescriptorSetLayout = layout
	return l, nil
}

func (l *DescriptorSetLayout) Destroy() {
	vk.DestroyDescriptorSetLayout(l.Device.VKDevice, l.VKDescriptorSetLayout, nil)
}
