package vkframe

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type ImageView struct {
	Device      *Device
	VKImageView vk.ImageView
}

// CreateImageView creates a 2D color view of the whole image.
func (i *Image) CreateImageView() (*ImageView, error) {
	return createImageView(i.Device, i.VKImage, i.VKFormat)
}

func createImageView(d *Device, img vk.Image, format vk.Format) (*ImageView, error) {
	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: colorSubresourceRange(),
	}
	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(d.VKDevice, &createInfo, nil, &view)); err != nil {
		return nil, errors.Wrap(err, "create image view")
	}
	return &ImageView{Device: d, VKImageView: view}, nil
}

func (i *ImageView) Destroy() {
	vk.DestroyImageView(i.Device.VKDevice, i.VKImageView, nil)
}
