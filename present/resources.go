package present

import (
	vk "github.com/vulkan-go/vulkan"
)

// Destroyer is implemented by every GPU object the frame loop owns.
type Destroyer interface {
	Destroy()
}

type RenderPass interface{ Destroyer }

type Framebuffer interface{ Destroyer }

type Pipeline interface{ Destroyer }

type CommandBuffer interface{ Destroyer }

// Shader is a loaded shader module.
type Shader interface{ Destroyer }

// Image is one presentable swapchain image, as seen by the framebuffer builder.
type Image interface{}

// VertexBuffer is the static geometry drawn every frame.
type VertexBuffer interface {
	// Len is the number of vertices in the buffer.
	Len() int
}

// Swapchain is a ring of presentable images bound to a surface.
type Swapchain interface {
	Format() vk.Format
	Extent() vk.Extent2D
	Images() []Image

	// Recreate builds a replacement swapchain at extent, inheriting every other
	// creation parameter. The receiver is retired but not destroyed, the caller
	// destroys it once nothing in flight references it. ErrExtentNotSupported
	// is returned for extents the surface rejects.
	Recreate(extent vk.Extent2D) (Swapchain, error)
	Destroy()
}

// Surface is the platform drawable the swapchain presents to.
type Surface interface {
	// Extent is the current drawable size in pixels.
	Extent() vk.Extent2D
}

// Factory builds the resources that depend on the swapchain. Every call is a
// pure construction, the factory keeps no state between calls.
type Factory interface {
	BuildRenderPass(format vk.Format) (RenderPass, error)
	BuildFramebuffers(images []Image, rp RenderPass, extent vk.Extent2D) ([]Framebuffer, error)
	BuildPipeline(vs, fs Shader, rp RenderPass, viewport vk.Viewport) (Pipeline, error)

	// BuildCommandBuffers records one reusable command buffer per framebuffer:
	// begin render pass, bind pipeline, bind vb at slot 0, draw vb.Len()
	// vertices, end render pass.
	BuildCommandBuffers(p Pipeline, fbs []Framebuffer, vb VertexBuffer) ([]CommandBuffer, error)
}

// Flush is an outstanding submission.
type Flush interface {
	// Wait blocks until the GPU finished the submission and releases the
	// per-frame synchronization objects.
	Wait() error
}

// Presenter drives one acquire, submit and present cycle.
type Presenter interface {
	// Acquire blocks until an image of sc is available. suboptimal is set when
	// the image is usable but sc no longer matches the surface.
	Acquire(sc Swapchain) (index int, suboptimal bool, err error)

	// Submit executes cb once the acquired image is ready and presents index.
	// A non-nil Flush is returned whenever work reached the queue, even if
	// presentation failed, and must always be waited on.
	Submit(sc Swapchain, index int, cb CommandBuffer) (Flush, error)
}

// ViewportFor covers extent with a 0..1 depth range.
func ViewportFor(extent vk.Extent2D) vk.Viewport {
	return vk.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}
}
