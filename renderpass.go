package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// RenderPass has a single color attachment which is cleared on load and
// stored, then left in a caller chosen layout.
type RenderPass struct {
	Device       *Device
	VKRenderPass vk.RenderPass
	Format       vk.Format
}

// VKRenderPassCreateInfo describes the single color attachment pass. Use
// present-source as finalLayout for swapchain images and transfer-source or
// color-attachment for offscreen targets.
func VKRenderPassCreateInfo(format vk.Format, finalLayout vk.ImageLayout) vk.RenderPassCreateInfo {
	attachment := vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    finalLayout,
	}
	colorRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    []vk.AttachmentReference{colorRef},
	}
	// the image may still be read by the presentation engine when the pass starts
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}
	return vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{attachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
}

func (d *Device) CreateRenderPass(format vk.Format, finalLayout vk.ImageLayout) (*RenderPass, error) {
	createInfo := VKRenderPassCreateInfo(format, finalLayout)
	var rp vk.RenderPass
	if err := vk.Error(vk.CreateRenderPass(d.VKDevice, &createInfo, nil, &rp)); err != nil {
		return nil, errors.Wrap(err, "create render pass")
	}
	return &RenderPass{Device: d, VKRenderPass: rp, Format: format}, nil
}

func (r *RenderPass) Destroy() {
	vk.DestroyRenderPass(r.Device.VKDevice, r.VKRenderPass, nil)
}

// Framebuffer binds one image view to a render pass at a fixed extent.
type Framebuffer struct {
	Device        *Device
	VKFramebuffer vk.Framebuffer
	RenderPass    *RenderPass
	Extent        vk.Extent2D
}

func (d *Device) CreateFramebuffer(rp *RenderPass, view *ImageView, extent vk.Extent2D) (*Framebuffer, error) {
	createInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      rp.VKRenderPass,
		AttachmentCount: 1,
		PAttachments:    []vk.ImageView{view.VKImageView},
		Width:           extent.Width,
		Height:          extent.Height,
		Layers:          1,
	}
	var fb vk.Framebuffer
	if err := vk.Error(vk.CreateFramebuffer(d.VKDevice, &createInfo, nil, &fb)); err != nil {
		return nil, errors.Wrapf(err, "create %dx%d framebuffer", extent.Width, extent.Height)
	}
	return &Framebuffer{Device: d, VKFramebuffer: fb, RenderPass: rp, Extent: extent}, nil
}

func (f *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(f.Device.VKDevice, f.VKFramebuffer, nil)
}
