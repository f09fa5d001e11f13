package vkframe

import (
	"github.com/celer/vkframe/present"
	"github.com/pkg/errors"
	"github.com/vulkan-go/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// InitializeForWindow initializes GLFW and loads Vulkan through it. It must
// be called from the main thread, which also has to run the frame loop.
func InitializeForWindow() error {
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "init glfw")
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return errors.New("vulkan is not supported by glfw")
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		glfw.Terminate()
		return errors.Wrap(err, "init vulkan")
	}
	return nil
}

type WindowOptions struct {
	Title string
	// Width and Height default to 800x600.
	Width  int
	Height int
}

// CreateWindow opens a resizable window without a client API, ready for a
// Vulkan surface.
func CreateWindow(options WindowOptions) (*glfw.Window, error) {
	if options.Width <= 0 {
		options.Width = 800
	}
	if options.Height <= 0 {
		options.Height = 600
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	window, err := glfw.CreateWindow(options.Width, options.Height, options.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}
	return window, nil
}

// WindowSurface is the Vulkan surface of a GLFW window.
type WindowSurface struct {
	Instance  *Instance
	Window    *glfw.Window
	VKSurface vk.Surface
}

func (i *Instance) CreateWindowSurface(window *glfw.Window) (*WindowSurface, error) {
	ptr, err := window.CreateWindowSurface(i.VKInstance, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window surface")
	}
	return &WindowSurface{Instance: i, Window: window, VKSurface: vk.SurfaceFromPointer(ptr)}, nil
}

// Extent is the framebuffer size of the window in pixels, zero while it is
// minimized.
func (s *WindowSurface) Extent() vk.Extent2D {
	w, h := s.Window.GetFramebufferSize()
	if w < 0 || h < 0 {
		return vk.Extent2D{}
	}
	return vk.Extent2D{Width: uint32(w), Height: uint32(h)}
}

func (s *WindowSurface) Destroy() {
	vk.DestroySurface(s.Instance.VKInstance, s.VKSurface, nil)
}

// WindowEvents turns GLFW callbacks into frame loop events. Callbacks only
// fire from glfw.PollEvents, so no locking is needed.
type WindowEvents struct {
	window  *glfw.Window
	pending []present.Event
}

// NewWindowEvents installs the resize and close callbacks on window.
func NewWindowEvents(window *glfw.Window) *WindowEvents {
	e := &WindowEvents{window: window}
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		e.pending = append(e.pending, present.Event{Kind: present.EventResize, Width: width, Height: height})
	})
	window.SetCloseCallback(func(_ *glfw.Window) {
		e.pending = append(e.pending, present.Event{Kind: present.EventClose})
	})
	return e
}

// PollEvents processes pending window system events and returns what they
// produced.
func (e *WindowEvents) PollEvents() []present.Event {
	glfw.PollEvents()
	if e.window.ShouldClose() && !hasClose(e.pending) {
		e.pending = append(e.pending, present.Event{Kind: present.EventClose})
	}
	events := e.pending
	e.pending = nil
	return events
}

func hasClose(events []present.Event) bool {
	for _, ev := range events {
		if ev.Kind == present.EventClose {
			return true
		}
	}
	return false
}
