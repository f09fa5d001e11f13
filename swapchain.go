package vkframe

import (
	"log"

	"github.com/celer/vkframe/present"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SwapchainImage is one image of a swapchain together with the view
// framebuffers are built from. The image itself belongs to the swapchain.
type SwapchainImage struct {
	Index int
	Image *Image
	View  *ImageView
}

// Swapchain is a ring of presentable images. Every parameter other than the
// extent is fixed at creation and carried over by Recreate.
type Swapchain struct {
	Device        *Device
	VKSwapchain   vk.Swapchain
	VKSurface     vk.Surface
	SurfaceFormat vk.SurfaceFormat
	PresentMode   vk.PresentMode
	ImageCount    int

	graphicsQueue *Queue
	presentQueue  *Queue
	extent        vk.Extent2D
	images        []*SwapchainImage

	// rendered[i] is signaled by the draw of image i and waited on by its
	// present. It is only reused once image i is acquired again.
	rendered semaphoreRing
}

type CreateSwapchainOptions struct {
	// ActualSize is used when the surface leaves the extent to the swapchain,
	// it is clamped to what the surface supports.
	ActualSize vk.Extent2D
	// DesiredNumSwapchainImages defaults to one more than the surface minimum.
	DesiredNumSwapchainImages int
	// PresentMode defaults to mailbox when available and FIFO otherwise.
	PresentMode *vk.PresentMode
}

// chooseExtent picks the swapchain extent for caps. A zero sized result, as
// reported while a window is minimized, is rejected as not supported.
func chooseExtent(caps *vk.SurfaceCapabilities, want vk.Extent2D) (vk.Extent2D, error) {
	var extent vk.Extent2D
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		extent = vk.Extent2D{Width: caps.CurrentExtent.Width, Height: caps.CurrentExtent.Height}
	} else {
		extent = vk.Extent2D{
			Width:  clamp(want.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
			Height: clamp(want.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
		}
	}
	if extent.Width == 0 || extent.Height == 0 {
		return extent, errors.Wrapf(present.ErrExtentNotSupported, "surface extent %dx%d", extent.Width, extent.Height)
	}
	return extent, nil
}

// chooseImageCount bounds desired by the surface limits. A zero maximum means
// there is no upper limit.
func chooseImageCount(caps *vk.SurfaceCapabilities, desired int) int {
	if desired <= 0 {
		desired = int(caps.MinImageCount) + 1
	}
	if desired < int(caps.MinImageCount) {
		desired = int(caps.MinImageCount)
	}
	if caps.MaxImageCount > 0 && desired > int(caps.MaxImageCount) {
		desired = int(caps.MaxImageCount)
	}
	return desired
}

func choosePresentMode(modes PresentModes, requested *vk.PresentMode) vk.PresentMode {
	if requested != nil && modes.Has(*requested) {
		return *requested
	}
	if modes.Has(vk.PresentModeMailbox) {
		return vk.PresentModeMailbox
	}
	return vk.PresentModeFifo
}

func clamp(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if hi > 0 && v > hi {
		return hi
	}
	return v
}

// CreateSwapchain creates a swapchain for surface, presenting through
// presentQueue images rendered on graphicsQueue. options may be nil.
func (d *Device) CreateSwapchain(surface vk.Surface, graphicsQueue, presentQueue *Queue, options *CreateSwapchainOptions) (*Swapchain, error) {
	if options == nil {
		options = &CreateSwapchainOptions{}
	}

	modes, err := d.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}
	formats, err := d.PhysicalDevice.GetSurfaceFormats(surface)
	if err != nil {
		return nil, err
	}
	format, err := formats.Preferred()
	if err != nil {
		return nil, err
	}
	caps, err := d.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}

	sc := &Swapchain{
		Device:        d,
		VKSurface:     surface,
		SurfaceFormat: format,
		PresentMode:   choosePresentMode(modes, options.PresentMode),
		ImageCount:    chooseImageCount(caps, options.DesiredNumSwapchainImages),
		graphicsQueue: graphicsQueue,
		presentQueue:  presentQueue,
	}
	if err := sc.create(caps, options.ActualSize, vk.NullSwapchain); err != nil {
		return nil, err
	}
	return sc, nil
}

// Recreate builds a swapchain at extent with the receiver's parameters and
// hands the receiver's handle over as the old swapchain. The receiver stays
// valid until destroyed.
func (s *Swapchain) Recreate(extent vk.Extent2D) (present.Swapchain, error) {
	caps, err := s.Device.PhysicalDevice.GetSurfaceCapabilities(s.VKSurface)
	if err != nil {
		return nil, err
	}
	next := &Swapchain{
		Device:        s.Device,
		VKSurface:     s.VKSurface,
		SurfaceFormat: s.SurfaceFormat,
		PresentMode:   s.PresentMode,
		ImageCount:    s.ImageCount,
		graphicsQueue: s.graphicsQueue,
		presentQueue:  s.presentQueue,
	}
	if err := next.create(caps, extent, s.VKSwapchain); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Swapchain) create(caps *vk.SurfaceCapabilities, want vk.Extent2D, old vk.Swapchain) error {
	extent, err := chooseExtent(caps, want)
	if err != nil {
		return err
	}

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          s.VKSurface,
		MinImageCount:    uint32(s.ImageCount),
		ImageFormat:      s.SurfaceFormat.Format,
		ImageColorSpace:  s.SurfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      s.PresentMode,
		Clipped:          vk.True,
		OldSwapchain:     old,
	}

	g, p := s.graphicsQueue.QueueFamily.Index, s.presentQueue.QueueFamily.Index
	if g != p {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{uint32(g), uint32(p)}
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var swapchain vk.Swapchain
	if err := vk.Error(vk.CreateSwapchain(s.Device.VKDevice, &createInfo, nil, &swapchain)); err != nil {
		return errors.Wrapf(err, "create %dx%d swapchain", extent.Width, extent.Height)
	}
	s.VKSwapchain = swapchain
	s.extent = extent

	if err := s.loadImages(); err != nil {
		s.Destroy()
		return err
	}
	return nil
}

func (s *Swapchain) loadImages() error {
	var count uint32
	if err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &count, nil)); err != nil {
		return errors.Wrap(err, "query swapchain images")
	}
	handles := make([]vk.Image, count)
	if err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &count, handles)); err != nil {
		return errors.Wrap(err, "query swapchain images")
	}

	s.images = make([]*SwapchainImage, 0, count)
	for i, h := range handles {
		view, err := createImageView(s.Device, h, s.SurfaceFormat.Format)
		if err != nil {
			return errors.Wrapf(err, "swapchain image %d", i)
		}
		s.images = append(s.images, &SwapchainImage{
			Index: i,
			Image: &Image{Device: s.Device, VKImage: h, VKFormat: s.SurfaceFormat.Format, Extent: s.extent},
			View:  view,
		})
	}
	return nil
}

func (s *Swapchain) Format() vk.Format {
	return s.SurfaceFormat.Format
}

func (s *Swapchain) Extent() vk.Extent2D {
	return s.extent
}

// Images returns one *SwapchainImage per swapchain image, in index order.
func (s *Swapchain) Images() []present.Image {
	ret := make([]present.Image, len(s.images))
	for i, img := range s.images {
		ret[i] = img
	}
	return ret
}

// Destroy waits for the present queue to drain, then releases the render
// semaphores, the image views and the swapchain. The images go with it.
func (s *Swapchain) Destroy() {
	if s.presentQueue != nil {
		if err := s.presentQueue.WaitIdle(); err != nil {
			log.Printf("swapchain destroy: %v", err)
		}
	}
	s.rendered.destroy()
	for _, img := range s.images {
		img.View.Destroy()
	}
	s.images = nil
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}

// renderedSemaphore returns the semaphore the draw of image index signals.
func (s *Swapchain) renderedSemaphore(index int) (*Semaphore, error) {
	if s.rendered.create == nil {
		s.rendered.create = s.Device.CreateSemaphore
	}
	return s.rendered.get(index, len(s.images))
}

// semaphoreRing holds one semaphore per swapchain image, created on first use.
type semaphoreRing struct {
	create func() (*Semaphore, error)
	slots  []*Semaphore
}

func (r *semaphoreRing) get(index, count int) (*Semaphore, error) {
	if index < 0 || index >= count {
		return nil, errors.Errorf("image index %d out of range for %d images", index, count)
	}
	if len(r.slots) < count {
		r.slots = append(r.slots, make([]*Semaphore, count-len(r.slots))...)
	}
	if r.slots[index] == nil {
		sema, err := r.create()
		if err != nil {
			return nil, err
		}
		r.slots[index] = sema
	}
	return r.slots[index], nil
}

func (r *semaphoreRing) destroy() {
	for _, sema := range r.slots {
		if sema != nil {
			sema.Destroy()
		}
	}
	r.slots = nil
}
