package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
	Extent   vk.Extent2D
}

func (i *Image) AllocationRequirements() AllocationRequirements {
	var mr vk.MemoryRequirements
	vk.GetImageMemoryRequirements(i.Device.VKDevice, i.VKImage, &mr)
	mr.Deref()
	return AllocationRequirements{
		Size:           uint64(mr.Size),
		Alignment:      uint64(mr.Alignment),
		MemoryTypeBits: mr.MemoryTypeBits,
	}
}

// CreateImage creates a single-sampled 2D image with one mip level.
func (d *Device) CreateImage(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags) (*Image, error) {
	if extent.Width == 0 || extent.Height == 0 {
		return nil, errors.Errorf("create image: empty extent %dx%d", extent.Width, extent.Height)
	}
	createInfo := vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        format,
		Extent:        vk.Extent3D{Width: extent.Width, Height: extent.Height, Depth: 1},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        tiling,
		Usage:         usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	var img vk.Image
	if err := vk.Error(vk.CreateImage(d.VKDevice, &createInfo, nil, &img)); err != nil {
		return nil, errors.Wrapf(err, "create %dx%d image", extent.Width, extent.Height)
	}
	return &Image{Device: d, VKImage: img, VKFormat: format, Extent: extent}, nil
}

func (i *Image) Destroy() {
	vk.DestroyImage(i.Device.VKDevice, i.VKImage, nil)
}

// BoundImage is an image with its own dedicated memory.
type BoundImage struct {
	*Image
	DeviceMemory *DeviceMemory
}

func (d *Device) CreateBoundImage(extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, props vk.MemoryPropertyFlags) (*BoundImage, error) {
	img, err := d.CreateImage(extent, format, tiling, usage)
	if err != nil {
		return nil, err
	}
	ar := img.AllocationRequirements()
	mem, err := d.Allocate(ar.Size, ar.MemoryTypeBits, props)
	if err != nil {
		img.Destroy()
		return nil, err
	}
	if err := vk.Error(vk.BindImageMemory(d.VKDevice, img.VKImage, mem.VKDeviceMemory, 0)); err != nil {
		mem.Destroy()
		img.Destroy()
		return nil, errors.Wrap(err, "bind image memory")
	}
	return &BoundImage{Image: img, DeviceMemory: mem}, nil
}

func (b *BoundImage) Destroy() {
	b.Image.Destroy()
	b.DeviceMemory.Destroy()
}

// layoutTransition is the access masks and stages for a supported layout
// change.
type layoutTransition struct {
	srcAccess vk.AccessFlags
	dstAccess vk.AccessFlags
	srcStage  vk.PipelineStageFlags
	dstStage  vk.PipelineStageFlags
}

func transitionFor(oldLayout, newLayout vk.ImageLayout) (layoutTransition, error) {
	switch {
	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutTransferDstOptimal:
		return layoutTransition{
			dstAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
			srcStage:  vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit),
			dstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		}, nil
	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutShaderReadOnlyOptimal:
		return layoutTransition{
			srcAccess: vk.AccessFlags(vk.AccessTransferWriteBit),
			dstAccess: vk.AccessFlags(vk.AccessShaderReadBit),
			srcStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			dstStage:  vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit),
		}, nil
	case oldLayout == vk.ImageLayoutColorAttachmentOptimal && newLayout == vk.ImageLayoutTransferSrcOptimal:
		return layoutTransition{
			srcAccess: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
			dstAccess: vk.AccessFlags(vk.AccessTransferReadBit),
			srcStage:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			dstStage:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		}, nil
	}
	return layoutTransition{}, errors.Errorf("unsupported layout transition %d -> %d", oldLayout, newLayout)
}

// CmdImageBarrier records a layout transition of the color aspect of img.
func (c *CommandBuffer) CmdImageBarrier(img *Image, oldLayout, newLayout vk.ImageLayout) error {
	t, err := transitionFor(oldLayout, newLayout)
	if err != nil {
		return err
	}
	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		SrcAccessMask:       t.srcAccess,
		DstAccessMask:       t.dstAccess,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img.VKImage,
		SubresourceRange:    colorSubresourceRange(),
	}
	vk.CmdPipelineBarrier(c.VKCommandBuffer, t.srcStage, t.dstStage, 0, 0, nil, 0, nil, 1, []vk.ImageMemoryBarrier{barrier})
	return nil
}

// CmdCopyImageToBuffer copies the color aspect of img, which must be in
// transfer source layout, tightly packed into dst.
func (c *CommandBuffer) CmdCopyImageToBuffer(img *Image, dst *Buffer) {
	region := vk.BufferImageCopy{
		ImageSubresource: vk.ImageSubresourceLayers{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LayerCount: 1,
		},
		ImageExtent: vk.Extent3D{Width: img.Extent.Width, Height: img.Extent.Height, Depth: 1},
	}
	vk.CmdCopyImageToBuffer(c.VKCommandBuffer, img.VKImage, vk.ImageLayoutTransferSrcOptimal, dst.VKBuffer, 1, []vk.BufferImageCopy{region})
}

func colorSubresourceRange() vk.ImageSubresourceRange {
	return vk.ImageSubresourceRange{
		AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
		LevelCount: 1,
		LayerCount: 1,
	}
}
