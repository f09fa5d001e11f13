package vkframe

import (
	"context"
	"log"

	"github.com/celer/vkframe/present"
	"github.com/pkg/errors"
	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// SwapchainExtension is the device extension the windowed path needs.
const SwapchainExtension = "VK_KHR_swapchain"

// geometryPoolSize is the size of the host pool vertex buffers come from.
const geometryPoolSize = 64 * 1024

// GraphicsApp provisions everything the windowed frame loop needs: instance,
// surface, device, queues and command pool. Run then drives the loop until
// the window closes.
//
// See https://vulkan-tutorial.com/ for a walkthrough of what this code does.
type GraphicsApp struct {
	App      *App
	Instance *Instance

	Window  *glfw.Window
	Surface *WindowSurface

	PhysicalDevice *PhysicalDevice
	Device         *Device

	GraphicsQueue *Queue
	PresentQueue  *Queue

	GraphicsCommandPool *CommandPool
	PipelineCache       *PipelineCache
	ResourceManager     *ResourceManager

	// SwapchainOptions are used for the first swapchain, ActualSize is taken
	// from the window.
	SwapchainOptions CreateSwapchainOptions

	loop *present.Loop
}

// NewGraphicsApp creates a new graphics app with the given name and version.
func NewGraphicsApp(name string, version Version) *GraphicsApp {
	return &GraphicsApp{
		App: &App{Name: name, EngineName: "vkframe", Version: version},
	}
}

// SetWindow sets the GLFW window and enables the instance extensions it
// requires. It must be called before Init.
func (p *GraphicsApp) SetWindow(window *glfw.Window) error {
	if p.Instance != nil {
		return errors.New("window must be set prior to initialization")
	}

	supported, err := SupportedExtensions()
	if err != nil {
		return err
	}
	for _, ext := range window.GetRequiredInstanceExtensions() {
		if !contains(supported, ext) {
			return errors.Errorf("extension %q required by glfw is not supported by vulkan", ext)
		}
		p.App.EnableExtension(ext)
	}
	p.Window = window
	return nil
}

// EnableDebugging enables the validation layer. It has no effect after Init.
func (p *GraphicsApp) EnableDebugging() bool {
	if p.Instance != nil {
		return false
	}
	p.App.EnableDebugging()
	return true
}

// Init creates the instance, the window surface and a device with a queue
// that can draw and a queue that can present, which are usually the same.
func (p *GraphicsApp) Init() error {
	if p.Window == nil {
		return errors.New("no window set")
	}

	var err error
	if p.Instance, err = p.App.CreateInstance(); err != nil {
		return err
	}
	if p.Surface, err = p.Instance.CreateWindowSurface(p.Window); err != nil {
		return err
	}

	physicalDevices, err := p.Instance.PhysicalDevices()
	if err != nil {
		return err
	}
	if len(physicalDevices) == 0 {
		return errors.New("no devices found")
	}
	// TODO: rank devices by type once there is more than one to pick from
	pdevice := physicalDevices[0]
	if !pdevice.SupportsExtension(SwapchainExtension) {
		return errors.Errorf("%s does not support %s", pdevice, SwapchainExtension)
	}

	families, err := pdevice.QueueFamilies()
	if err != nil {
		return err
	}
	log.Printf("%s\n%s", pdevice, families.Report())

	graphics, presentFamily, err := pickQueueFamilies(families, p.Surface.VKSurface)
	if err != nil {
		return errors.Wrapf(err, "device %s", pdevice)
	}

	ldevice, err := pdevice.CreateLogicalDeviceWithOptions(QueueFamilySlice{graphics, presentFamily}, &CreateDeviceOptions{
		EnabledExtensions: []string{SwapchainExtension},
	})
	if err != nil {
		return err
	}
	p.PhysicalDevice = pdevice
	p.Device = ldevice
	p.GraphicsQueue = ldevice.GetQueue(graphics)
	p.PresentQueue = ldevice.GetQueue(presentFamily)

	if p.GraphicsCommandPool, err = ldevice.CreateCommandPool(graphics); err != nil {
		return err
	}
	if p.PipelineCache, err = ldevice.CreatePipelineCache(); err != nil {
		return err
	}
	p.ResourceManager = ldevice.CreateResourceManager()
	return nil
}

// pickQueueFamilies prefers one family that can both draw and present.
func pickQueueFamilies(families QueueFamilySlice, surface vk.Surface) (graphics, presentFamily *QueueFamily, err error) {
	if both := families.FilterGraphicsAndPresent(surface); len(both) > 0 {
		return both[0], both[0], nil
	}
	gq := families.FilterGraphics()
	pq := families.FilterPresent(surface)
	if len(gq) == 0 || len(pq) == 0 {
		return nil, nil, errors.New("no graphics and present capable queues found")
	}
	return gq[0], pq[0], nil
}

// Run draws vertices with vs and fs every frame until the window closes, a
// fatal error occurs or ctx is done. It must be called from the main thread.
func (p *GraphicsApp) Run(ctx context.Context, vs, fs *ShaderModule, vertices []Vertex) error {
	if p.Device == nil {
		return errors.New("graphics app not initialized")
	}

	pool := p.ResourceManager.Pool("geometry")
	if pool == nil {
		var err error
		pool, err = p.ResourceManager.AllocateHostPool("geometry", geometryPoolSize, vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
		if err != nil {
			return err
		}
	}
	vb, err := pool.AllocateVertexBuffer(vertices)
	if err != nil {
		return err
	}
	defer vb.Destroy()

	options := p.SwapchainOptions
	options.ActualSize = p.Surface.Extent()
	sc, err := p.Device.CreateSwapchain(p.Surface.VKSurface, p.GraphicsQueue, p.PresentQueue, &options)
	if err != nil {
		return &present.StageError{Stage: present.StageSwapchain, Err: err}
	}
	log.Printf("swapchain %dx%d, %d images, present mode %d", sc.Extent().Width, sc.Extent().Height, len(sc.Images()), sc.PresentMode)

	factory := NewResourceFactory(p.Device, p.GraphicsCommandPool, p.PipelineCache)
	manager, err := present.NewManager(factory, p.Surface, sc, vs, fs, vb)
	if err != nil {
		sc.Destroy()
		return err
	}

	p.loop = present.NewLoop(manager, NewPresenter(p.Device, p.GraphicsQueue, p.PresentQueue), NewWindowEvents(p.Window))
	runErr := p.loop.Run(ctx)

	if err := p.Device.WaitIdle(); err != nil && runErr == nil {
		runErr = err
	}
	manager.Destroy()
	log.Printf("frame loop stopped after %d frames", p.loop.Frames())
	return runErr
}

// Frames is the number of frames presented by the last Run.
func (p *GraphicsApp) Frames() uint64 {
	if p.loop == nil {
		return 0
	}
	return p.loop.Frames()
}

// Destroy tears down everything Init created. The window belongs to the
// caller.
func (p *GraphicsApp) Destroy() {
	if p.Device != nil {
		p.Device.WaitIdle()
		if p.ResourceManager != nil {
			p.ResourceManager.Destroy()
		}
		if p.PipelineCache != nil {
			p.PipelineCache.Destroy()
		}
		if p.GraphicsCommandPool != nil {
			p.GraphicsCommandPool.Destroy()
		}
		p.Device.Destroy()
		p.Device = nil
	}
	if p.Surface != nil {
		p.Surface.Destroy()
		p.Surface = nil
	}
	if p.Instance != nil {
		p.Instance.Destroy()
		p.Instance = nil
	}
}

func contains(list []string, s string) bool {
	for _, l := range list {
		if l == s {
			return true
		}
	}
	return false
}
