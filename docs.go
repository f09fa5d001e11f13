/*
Package vkframe wraps the parts of Vulkan needed to put pixels on the screen, render
offscreen and dispatch compute work. It does not try to expose everything Vulkan can do;
every object keeps its native handle in a field prefixed with 'VK' so applications can
call the Vulkan API directly when the wrappers fall short.

Native Vulkan terms
	Instance	the vulkan runtime instance
	PhysicalDevice	the physical hardware device
	Device		the logical device, target of most of the vulkan apis
	Queue		a queue which command buffers are submitted to
	DeviceMemory	an allocation of host or device memory backing buffers and images
	Buffer		a range of data (vertex, storage or readback)
	Image		a 2D array of texels, ImageView describes how it is read
	RenderPass	the attachments a draw writes and what happens to them
	Framebuffer	image views bound to a render pass at a fixed extent
	Pipeline	a description of how to process data on the GPU
	Swapchain	a ring of images owned by the presentation engine

Drawing to a window goes roughly like this:

	1. Initialize GLFW and the vulkan instance, create a window surface
	2. Pick a queue family that can draw and present, create the device
	3. Create the swapchain, a render pass for its format and a framebuffer per image
	4. Create the pipeline with the viewport matching the swapchain extent
	5. Record a command buffer per framebuffer drawing the vertex buffer
	6. Each frame: acquire an image, submit its command buffer, present, wait
	7. When the window is resized or the swapchain goes out of date, go back to 3

Steps 3 to 7 are implemented by the present package against the interfaces it defines.
This package provides the Vulkan side of them: ResourceFactory builds render passes,
framebuffers, pipelines and command buffers, Presenter runs the acquire, submit and present
cycle, Swapchain recreates itself at a new extent and WindowSurface and WindowEvents adapt
a GLFW window. GraphicsApp ties them together.

Headless work skips the window: InitializeForComputeOnly loads Vulkan directly, and
HostBuffer, CommandPool and Fence are enough to dispatch a compute pipeline or to render
into an Image and read it back.
*/
package vkframe
