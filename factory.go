package vkframe

import (
	"github.com/celer/vkframe/present"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ResourceFactory builds the swapchain dependent resources of the frame loop
// on a device. It holds no state besides the objects it builds from.
type ResourceFactory struct {
	Device *Device
	// Pool provides the per-framebuffer command buffers.
	Pool *CommandPool
	// Cache may be nil.
	Cache *PipelineCache
}

func NewResourceFactory(d *Device, pool *CommandPool, cache *PipelineCache) *ResourceFactory {
	return &ResourceFactory{Device: d, Pool: pool, Cache: cache}
}

// BuildRenderPass creates a pass leaving its attachment ready for presentation.
func (f *ResourceFactory) BuildRenderPass(format vk.Format) (present.RenderPass, error) {
	return f.Device.CreateRenderPass(format, vk.ImageLayoutPresentSrc)
}

func (f *ResourceFactory) BuildFramebuffers(images []present.Image, rp present.RenderPass, extent vk.Extent2D) ([]present.Framebuffer, error) {
	pass, ok := rp.(*RenderPass)
	if !ok {
		return nil, errors.Errorf("unexpected render pass type %T", rp)
	}

	ret := make([]present.Framebuffer, 0, len(images))
	for i, image := range images {
		img, ok := image.(*SwapchainImage)
		if !ok {
			destroyFramebuffers(ret)
			return nil, errors.Errorf("unexpected image type %T", image)
		}
		fb, err := f.Device.CreateFramebuffer(pass, img.View, extent)
		if err != nil {
			destroyFramebuffers(ret)
			return nil, errors.Wrapf(err, "framebuffer %d", i)
		}
		ret = append(ret, fb)
	}
	return ret, nil
}

func destroyFramebuffers(fbs []present.Framebuffer) {
	for _, fb := range fbs {
		fb.Destroy()
	}
}

// BuildPipeline creates the triangle pipeline with viewport baked in.
func (f *ResourceFactory) BuildPipeline(vs, fs present.Shader, rp present.RenderPass, viewport vk.Viewport) (present.Pipeline, error) {
	pass, ok := rp.(*RenderPass)
	if !ok {
		return nil, errors.Errorf("unexpected render pass type %T", rp)
	}
	vertex, ok := vs.(*ShaderModule)
	if !ok {
		return nil, errors.Errorf("unexpected vertex shader type %T", vs)
	}
	fragment, ok := fs.(*ShaderModule)
	if !ok {
		return nil, errors.Errorf("unexpected fragment shader type %T", fs)
	}

	config := NewGraphicsPipelineConfig(viewport).
		AddShaderStage(vertex, vk.ShaderStageVertexBit).
		AddShaderStage(fragment, vk.ShaderStageFragmentBit).
		AddVertexLayout(VertexBindingDescription(), VertexAttributeDescriptions()...)
	config.Cache = f.Cache

	return f.Device.CreateGraphicsPipeline(config, pass)
}

// BuildCommandBuffers records one reusable draw of vb per framebuffer.
func (f *ResourceFactory) BuildCommandBuffers(p present.Pipeline, fbs []present.Framebuffer, vb present.VertexBuffer) ([]present.CommandBuffer, error) {
	pipeline, ok := p.(*GraphicsPipeline)
	if !ok {
		return nil, errors.Errorf("unexpected pipeline type %T", p)
	}
	vertices, ok := vb.(*VertexBuffer)
	if !ok {
		return nil, errors.Errorf("unexpected vertex buffer type %T", vb)
	}

	cbs, err := f.Pool.AllocateBuffers(len(fbs))
	if err != nil {
		return nil, err
	}

	ret := make([]present.CommandBuffer, len(cbs))
	for i, cb := range cbs {
		fb, ok := fbs[i].(*Framebuffer)
		if !ok {
			f.Pool.FreeBuffers(cbs)
			return nil, errors.Errorf("unexpected framebuffer type %T", fbs[i])
		}
		if err := cb.RecordDraw(fb.RenderPass, fb, pipeline, vertices.Buffer, vertices.Len()); err != nil {
			f.Pool.FreeBuffers(cbs)
			return nil, errors.Wrapf(err, "command buffer %d", i)
		}
		ret[i] = cb
	}
	return ret, nil
}
