package vkframe

import (
	"log"
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// InitializeForComputeOnly loads the Vulkan loader without a window system,
// used by the headless compute and offscreen paths.
func InitializeForComputeOnly() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return errors.Wrap(err, "locate vulkan loader")
	}
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "init vulkan")
	}
	return nil
}

// Version is a major.minor.patch triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion packs the version the way Vulkan expects it.
func (v Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App describes the application to the Vulkan instance.
type App struct {
	Name       string
	EngineName string
	Version    Version
	// APIVersion defaults to 1.0.0 when unset.
	APIVersion Version

	EnabledLayers     []string
	EnabledExtensions []string
}

// SupportedLayers lists the instance layers the loader knows about. Vulkan
// must have been initialized first.
func SupportedLayers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, errors.Wrap(err, "enumerate instance layers")
	}
	props := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, errors.Wrap(err, "enumerate instance layers")
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.LayerName[:]))
	}
	return names, nil
}

// SupportedExtensions lists the instance extensions the loader knows about.
func SupportedExtensions() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	props := make([]vk.ExtensionProperties, count)
	if err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	names := make([]string, 0, count)
	for _, p := range props {
		p.Deref()
		names = append(names, vk.ToString(p.ExtensionName[:]))
	}
	return names, nil
}

// EnableDebugging turns on the Khronos validation layer and the debug report
// extension. A missing validation layer is logged and otherwise ignored.
func (a *App) EnableDebugging() {
	if _, err := a.EnableLayer("VK_LAYER_KHRONOS_validation"); err != nil {
		log.Printf("debugging requested but unavailable: %v", err)
		return
	}
	a.EnableExtension("VK_EXT_debug_report")
}

// EnableLayer enables layer if the loader supports it.
func (a *App) EnableLayer(layer string) (*App, error) {
	layers, err := SupportedLayers()
	if err != nil {
		return a, err
	}
	for _, l := range layers {
		if l == layer {
			a.EnabledLayers = append(a.EnabledLayers, layer)
			return a, nil
		}
	}
	return a, errors.Errorf("layer %q not found", layer)
}

// EnableExtension adds an instance extension, duplicates are ignored.
func (a *App) EnableExtension(extension string) *App {
	for _, e := range a.EnabledExtensions {
		if e == extension {
			return a
		}
	}
	a.EnabledExtensions = append(a.EnabledExtensions, extension)
	return a
}

// HasExtension reports whether extension was enabled.
func (a *App) HasExtension(extension string) bool {
	for _, e := range a.EnabledExtensions {
		if e == extension {
			return true
		}
	}
	return false
}

func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	api := a.APIVersion
	if api.Major < 1 {
		api = Version{Major: 1}
	}
	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         api.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// CreateInstance creates the Vulkan instance. When the debug report extension
// is enabled a callback logging errors and warnings is installed.
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()
	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{}
	if err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance.VKInstance)); err != nil {
		return nil, errors.Wrap(err, "create instance")
	}
	if err := vk.InitInstance(instance.VKInstance); err != nil {
		vk.DestroyInstance(instance.VKInstance, nil)
		return nil, errors.Wrap(err, "init instance")
	}

	if a.HasExtension("VK_EXT_debug_report") {
		if err := instance.SetDebugCallback(DefaultDebugCallback); err != nil {
			log.Printf("debug callback not installed: %v", err)
		}
	}
	return instance, nil
}

// Instance is a Vulkan instance.
type Instance struct {
	VKInstance vk.Instance

	debugCallback vk.DebugReportCallback
}

// PhysicalDevices returns every physical device visible to the instance.
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var count uint32
	if err := vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &count, nil)); err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}
	if count == 0 {
		return nil, nil
	}

	devices := make([]vk.PhysicalDevice, count)
	if err := vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &count, devices)); err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	ret := make([]*PhysicalDevice, count)
	for idx, d := range devices {
		pd := &PhysicalDevice{VKPhysicalDevice: d}
		vk.GetPhysicalDeviceProperties(d, &pd.VKPhysicalDeviceProperties)
		pd.VKPhysicalDeviceProperties.Deref()
		pd.DeviceName = vk.ToString(pd.VKPhysicalDeviceProperties.DeviceName[:])
		ret[idx] = pd
	}
	return ret, nil
}

// SetDebugCallback installs callback for errors and warnings.
func (i *Instance) SetDebugCallback(callback vk.DebugReportCallbackFunc) error {
	var cb vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit),
		PfnCallback: callback,
	}, nil, &cb)
	if err := vk.Error(ret); err != nil {
		return errors.Wrap(err, "create debug report callback")
	}
	i.debugCallback = cb
	return nil
}

// DefaultDebugCallback logs validation messages.
func DefaultDebugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		log.Printf("ERROR: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		log.Printf("WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		log.Printf("PERFORMANCE WARNING: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		log.Printf("INFO: [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}

func (i *Instance) Destroy() {
	if i.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(i.VKInstance, i.debugCallback, nil)
		i.debugCallback = vk.NullDebugReportCallback
	}
	vk.DestroyInstance(i.VKInstance, nil)
}
