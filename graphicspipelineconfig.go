package vkframe

import (
	vk "github.com/vulkan-go/vulkan"
)

// GraphicsPipelineConfig collects the fixed-function state of a graphics
// pipeline. The viewport is static, so a pipeline has to be rebuilt whenever
// the target extent changes.
type GraphicsPipelineConfig struct {
	ShaderStages []vk.PipelineShaderStageCreateInfo

	// PipelineLayout may be nil, an empty layout is then created and owned by
	// the pipeline.
	PipelineLayout *PipelineLayout
	Cache          *PipelineCache

	// Viewport is also used as the scissor rectangle.
	Viewport vk.Viewport

	// PrimitiveTopology defaults to triangle list.
	PrimitiveTopology vk.PrimitiveTopology
	// PolygonMode defaults to fill.
	PolygonMode vk.PolygonMode
	// CullMode defaults to none.
	CullMode vk.CullModeFlagBits
	// FrontFace defaults to clockwise.
	FrontFace vk.FrontFace
	LineWidth float32

	BlendAttachments []vk.PipelineColorBlendAttachmentState

	VertexInputBindingDescriptions   []vk.VertexInputBindingDescription
	VertexInputAttributeDescriptions []vk.VertexInputAttributeDescription
}

// NewGraphicsPipelineConfig returns a config for an opaque pipeline without
// depth testing covering viewport.
func NewGraphicsPipelineConfig(viewport vk.Viewport) *GraphicsPipelineConfig {
	return &GraphicsPipelineConfig{
		Viewport:          viewport,
		PrimitiveTopology: vk.PrimitiveTopologyTriangleList,
		PolygonMode:       vk.PolygonModeFill,
		CullMode:          vk.CullModeNone,
		FrontFace:         vk.FrontFaceClockwise,
		LineWidth:         1.0,
	}
}

// AddShaderStage adds module as the given stage.
func (g *GraphicsPipelineConfig) AddShaderStage(module *ShaderModule, stage vk.ShaderStageFlagBits) *GraphicsPipelineConfig {
	g.ShaderStages = append(g.ShaderStages, module.VKPipelineShaderStageCreateInfo(stage))
	return g
}

// AddVertexLayout adds one vertex buffer binding and its attributes.
func (g *GraphicsPipelineConfig) AddVertexLayout(binding vk.VertexInputBindingDescription, attributes ...vk.VertexInputAttributeDescription) *GraphicsPipelineConfig {
	g.VertexInputBindingDescriptions = append(g.VertexInputBindingDescriptions, binding)
	g.VertexInputAttributeDescriptions = append(g.VertexInputAttributeDescriptions, attributes...)
	return g
}

func (g *GraphicsPipelineConfig) AddBlendAttachment(ba vk.PipelineColorBlendAttachmentState) *GraphicsPipelineConfig {
	g.BlendAttachments = append(g.BlendAttachments, ba)
	return g
}

// Scissor covers the viewport.
func (g *GraphicsPipelineConfig) Scissor() vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: int32(g.Viewport.X), Y: int32(g.Viewport.Y)},
		Extent: vk.Extent2D{Width: uint32(g.Viewport.Width), Height: uint32(g.Viewport.Height)},
	}
}

// VKGraphicsPipelineCreateInfo builds the create info. Layout and RenderPass
// are left for the caller.
func (g *GraphicsPipelineConfig) VKGraphicsPipelineCreateInfo() vk.GraphicsPipelineCreateInfo {
	vertexInputState := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(g.VertexInputBindingDescriptions)),
		PVertexBindingDescriptions:      g.VertexInputBindingDescriptions,
		VertexAttributeDescriptionCount: uint32(len(g.VertexInputAttributeDescriptions)),
		PVertexAttributeDescriptions:    g.VertexInputAttributeDescriptions,
	}

	inputAssemblyState := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               g.PrimitiveTopology,
		PrimitiveRestartEnable: vk.False,
	}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		PViewports:    []vk.Viewport{g.Viewport},
		ScissorCount:  1,
		PScissors:     []vk.Rect2D{g.Scissor()},
	}

	rasterState := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             g.PolygonMode,
		CullMode:                vk.CullModeFlags(g.CullMode),
		FrontFace:               g.FrontFace,
		DepthBiasEnable:         vk.False,
		LineWidth:               g.LineWidth,
	}

	multisampleState := vk.PipelineMultisampleStateCreateInfo{
		SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
		RasterizationSamples: vk.SampleCount1Bit,
		SampleShadingEnable:  vk.False,
	}

	blendAttachments := g.BlendAttachments
	if len(blendAttachments) == 0 {
		blendAttachments = []vk.PipelineColorBlendAttachmentState{{
			BlendEnable:    vk.False,
			ColorWriteMask: vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit | vk.ColorComponentBBit | vk.ColorComponentABit),
		}}
	}
	colorBlendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		AttachmentCount: uint32(len(blendAttachments)),
		PAttachments:    blendAttachments,
	}

	return vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(g.ShaderStages)),
		PStages:             g.ShaderStages,
		PVertexInputState:   &vertexInputState,
		PInputAssemblyState: &inputAssemblyState,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterState,
		PMultisampleState:   &multisampleState,
		PColorBlendState:    &colorBlendState,
		Subpass:             0,
	}
}
