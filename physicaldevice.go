package vkframe

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type PresentModes []vk.PresentMode

// Has reports whether mode is in the list.
func (v PresentModes) Has(mode vk.PresentMode) bool {
	for _, m := range v {
		if m == mode {
			return true
		}
	}
	return false
}

type SurfaceFormats []vk.SurfaceFormat

func (v SurfaceFormats) Filter(f func(f vk.SurfaceFormat) bool) SurfaceFormats {
	ret := make(SurfaceFormats, 0)
	for _, s := range v {
		s.Deref()
		if f(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

// Preferred picks B8G8R8A8 UNORM with sRGB nonlinear color space when offered,
// the first format otherwise. A single undefined entry means the surface has
// no preference.
func (v SurfaceFormats) Preferred() (vk.SurfaceFormat, error) {
	if len(v) == 0 {
		return vk.SurfaceFormat{}, errors.New("surface reports no formats")
	}
	first := v[0]
	first.Deref()
	if len(v) == 1 && first.Format == vk.FormatUndefined {
		return vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}, nil
	}
	match := v.Filter(func(f vk.SurfaceFormat) bool {
		return f.Format == vk.FormatB8g8r8a8Unorm && f.ColorSpace == vk.ColorSpaceSrgbNonlinear
	})
	if len(match) > 0 {
		return match[0], nil
	}
	return first, nil
}

type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) (PresentModes, error) {
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "query present modes")
	}
	modes := make([]vk.PresentMode, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, modes)); err != nil {
		return nil, errors.Wrap(err, "query present modes")
	}
	return modes, nil
}

func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) (SurfaceFormats, error) {
	var count uint32
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "query surface formats")
	}
	formats := make([]vk.SurfaceFormat, count)
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, formats)); err != nil {
		return nil, errors.Wrap(err, "query surface formats")
	}
	return formats, nil
}

// GetSurfaceCapabilities returns the dereferenced capabilities of surface.
func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps)); err != nil {
		return nil, errors.Wrap(err, "query surface capabilities")
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return &caps, nil
}

func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, nil)
	if count == 0 {
		return nil, errors.Errorf("%s exposes no queue families", p.DeviceName)
	}

	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &count, props)

	ret := make(QueueFamilySlice, count)
	for i, prop := range props {
		prop.Deref()
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: prop}
	}
	return ret, nil
}

type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// CreateLogicalDeviceWithOptions creates a device with one queue for each
// distinct family in qfs.
func (p *PhysicalDevice) CreateLogicalDeviceWithOptions(qfs QueueFamilySlice, options *CreateDeviceOptions) (*Device, error) {
	qfs = qfs.Unique()
	if len(qfs) == 0 {
		return nil, errors.New("create device: no queue families requested")
	}

	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(qfs))
	for j, q := range qfs {
		queueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(q.Index),
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{p.VKPhysicalDeviceFeatures()},
	}
	if options != nil {
		if len(options.EnabledExtensions) > 0 {
			deviceCreateInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			deviceCreateInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if len(options.EnabledLayers) > 0 {
			deviceCreateInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			deviceCreateInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var ldevice vk.Device
	if err := vk.Error(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice)); err != nil {
		return nil, errors.Wrapf(err, "create device on %s", p.DeviceName)
	}
	return &Device{PhysicalDevice: p, VKDevice: ldevice}, nil
}

func (p *PhysicalDevice) CreateLogicalDevice(qfs QueueFamilySlice) (*Device, error) {
	return p.CreateLogicalDeviceWithOptions(qfs, nil)
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var features vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &features)
	return features
}

func (p *PhysicalDevice) VKPhysicalDeviceMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var props vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &props)
	props.Deref()
	return props
}

// MemoryTypes returns the memory types of the device in index order.
func (p *PhysicalDevice) MemoryTypes() MemoryTypeSlice {
	mp := p.VKPhysicalDeviceMemoryProperties()
	ret := make(MemoryTypeSlice, mp.MemoryTypeCount)
	for i := uint32(0); i < mp.MemoryTypeCount; i++ {
		mt := mp.MemoryTypes[i]
		mt.Deref()
		ret[i] = mt
	}
	return ret
}

// FindMemoryType returns the first memory type allowed by memoryTypeBits
// that has every flag in properties.
func (p *PhysicalDevice) FindMemoryType(memoryTypeBits uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	return p.MemoryTypes().Find(memoryTypeBits, properties)
}

// SupportedExtensions lists the names of the device extensions.
func (p *PhysicalDevice) SupportedExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "enumerate device extensions")
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, props)); err != nil {
		return nil, errors.Wrap(err, "enumerate device extensions")
	}
	names := make([]string, 0, count)
	for _, e := range props {
		e.Deref()
		names = append(names, vk.ToString(e.ExtensionName[:]))
	}
	return names, nil
}

// SupportsExtension reports whether the device offers extension.
func (p *PhysicalDevice) SupportsExtension(extension string) bool {
	names, err := p.SupportedExtensions()
	if err != nil {
		return false
	}
	for _, n := range names {
		if n == extension {
			return true
		}
	}
	return false
}

type MemoryTypeSlice []vk.MemoryType

// Find returns the index of the first type allowed by typeBits carrying all
// of properties.
func (m MemoryTypeSlice) Find(typeBits uint32, properties vk.MemoryPropertyFlags) (uint32, error) {
	for i, mt := range m {
		if typeBits&(1<<uint(i)) != 0 && mt.PropertyFlags&properties == properties {
			return uint32(i), nil
		}
	}
	return 0, errors.Errorf("no memory type in mask %#x with properties %#x", typeBits, properties)
}

// Count returns how many types carry all of properties.
func (m MemoryTypeSlice) Count(properties vk.MemoryPropertyFlags) int {
	n := 0
	for _, mt := range m {
		if mt.PropertyFlags&properties == properties {
			n++
		}
	}
	return n
}

func (m MemoryTypeSlice) String() string {
	host := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	coherent := host | vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
	local := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	return fmt.Sprintf("{ Types: %d HostVisible: %d HostCoherent: %d DeviceLocal: %d }",
		len(m), m.Count(host), m.Count(coherent), m.Count(local))
}
