package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	createInfo := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}
	var cache vk.PipelineCache
	if err := vk.Error(vk.CreatePipelineCache(d.VKDevice, &createInfo, nil, &cache)); err != nil {
		return nil, errors.Wrap(err, "create pipeline cache")
	}
	return &PipelineCache{Device: d, VKPipelineCache: cache}, nil
}

func (c *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(c.Device.VKDevice, c.VKPipelineCache, nil)
}

func (c *PipelineCache) handle() vk.PipelineCache {
	if c == nil {
		var none vk.PipelineCache
		return none
	}
	return c.VKPipelineCache
}

// ComputePipeline runs a single compute shader. The layout is owned by the
// caller.
type ComputePipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline
	Layout     *PipelineLayout
}

// CreateComputePipeline builds a pipeline running shader with layout. cache
// may be nil.
func (d *Device) CreateComputePipeline(cache *PipelineCache, layout *PipelineLayout, shader *ShaderModule) (*ComputePipeline, error) {
	createInfo := vk.ComputePipelineCreateInfo{
		SType:  vk.StructureTypeComputePipelineCreateInfo,
		Stage:  shader.VKPipelineShaderStageCreateInfo(vk.ShaderStageComputeBit),
		Layout: layout.VKPipelineLayout,
	}
	pipelines := make([]vk.Pipeline, 1)
	res := vk.CreateComputePipelines(d.VKDevice, cache.handle(), 1, []vk.ComputePipelineCreateInfo{createInfo}, nil, pipelines)
	if err := vk.Error(res); err != nil {
		return nil, errors.Wrap(err, "create compute pipeline")
	}
	return &ComputePipeline{Device: d, VKPipeline: pipelines[0], Layout: layout}, nil
}

func (p *ComputePipeline) Destroy() {
	vk.DestroyPipeline(p.Device.VKDevice, p.VKPipeline, nil)
}

// GraphicsPipeline is a pipeline with its viewport baked in. It owns its
// layout.
type GraphicsPipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline
	Layout     *PipelineLayout
	Viewport   vk.Viewport
}

// CreateGraphicsPipeline builds config against subpass 0 of renderPass.
func (d *Device) CreateGraphicsPipeline(config *GraphicsPipelineConfig, renderPass *RenderPass) (*GraphicsPipeline, error) {
	if len(config.ShaderStages) == 0 {
		return nil, errors.New("create graphics pipeline: no shader stages")
	}

	layout := config.PipelineLayout
	ownLayout := layout == nil
	if ownLayout {
		var err error
		if layout, err = d.CreatePipelineLayout(); err != nil {
			return nil, err
		}
	}

	createInfo := config.VKGraphicsPipelineCreateInfo()
	createInfo.Layout = layout.VKPipelineLayout
	createInfo.RenderPass = renderPass.VKRenderPass

	pipelines := make([]vk.Pipeline, 1)
	res := vk.CreateGraphicsPipelines(d.VKDevice, config.Cache.handle(), 1, []vk.GraphicsPipelineCreateInfo{createInfo}, nil, pipelines)
	if err := vk.Error(res); err != nil {
		if ownLayout {
			layout.Destroy()
		}
		return nil, errors.Wrap(err, "create graphics pipeline")
	}

	p := &GraphicsPipeline{
		Device:     d,
		VKPipeline: pipelines[0],
		Viewport:   config.Viewport,
	}
	if ownLayout {
		p.Layout = layout
	}
	return p, nil
}

func (p *GraphicsPipeline) Destroy() {
	vk.DestroyPipeline(p.Device.VKDevice, p.VKPipeline, nil)
	if p.Layout != nil {
		p.Layout.Destroy()
	}
}
