package vkframe

import (
	"github.com/celer/vkframe/present"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Presenter acquires, submits and presents with one frame in flight. The
// acquire semaphore and fence of a cycle are created for it and released when
// its flush is waited on. The render semaphore belongs to the swapchain image,
// since the fence does not cover the present that waits on it.
type Presenter struct {
	Device        *Device
	GraphicsQueue *Queue
	PresentQueue  *Queue

	acquired *Semaphore
}

func NewPresenter(d *Device, graphicsQueue, presentQueue *Queue) *Presenter {
	return &Presenter{Device: d, GraphicsQueue: graphicsQueue, PresentQueue: presentQueue}
}

// Acquire blocks without timeout until sc hands out an image.
func (p *Presenter) Acquire(sc present.Swapchain) (int, bool, error) {
	swapchain, ok := sc.(*Swapchain)
	if !ok {
		return 0, false, errors.Errorf("unexpected swapchain type %T", sc)
	}
	if p.acquired != nil {
		return 0, false, errors.New("acquire with an image already acquired")
	}

	sema, err := p.Device.CreateSemaphore()
	if err != nil {
		return 0, false, err
	}

	var index uint32
	res := vk.AcquireNextImage(p.Device.VKDevice, swapchain.VKSwapchain, vk.MaxUint64, sema.VKSemaphore, vk.NullFence, &index)
	switch res {
	case vk.Success:
		p.acquired = sema
		return int(index), false, nil
	case vk.Suboptimal:
		p.acquired = sema
		return int(index), true, nil
	}
	sema.Destroy()
	return 0, false, checkResult("acquire next image", res)
}

// Submit runs cb once the acquired image is ready, then presents it once cb
// completed.
func (p *Presenter) Submit(sc present.Swapchain, index int, cb present.CommandBuffer) (present.Flush, error) {
	swapchain, ok := sc.(*Swapchain)
	if !ok {
		return nil, errors.Errorf("unexpected swapchain type %T", sc)
	}
	buffer, ok := cb.(*CommandBuffer)
	if !ok {
		return nil, errors.Errorf("unexpected command buffer type %T", cb)
	}
	acquired := p.acquired
	if acquired == nil {
		return nil, errors.New("submit without an acquired image")
	}
	p.acquired = nil

	flush := &frameFlush{semaphores: []*Semaphore{acquired}}
	rendered, err := swapchain.renderedSemaphore(index)
	if err != nil {
		flush.release()
		return nil, err
	}
	if flush.fence, err = p.Device.CreateFence(); err != nil {
		flush.release()
		return nil, err
	}

	stage := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	if err := p.GraphicsQueue.SubmitSignal(buffer, acquired, stage, rendered, flush.fence); err != nil {
		// nothing will signal the fence, drain before releasing
		p.GraphicsQueue.WaitIdle()
		flush.release()
		return nil, err
	}

	return flush, presentError(p.PresentQueue.Present(swapchain, uint32(index), rendered))
}

// presentError tags a fatal present failure with its stage. Out-of-date and
// suboptimal pass through untouched for the loop to recreate.
func presentError(err error) error {
	if err == nil || present.IsStale(err) {
		return err
	}
	return &present.StageError{Stage: present.StagePresent, Err: err}
}

// frameFlush is the outstanding work of one cycle.
type frameFlush struct {
	fence      *Fence
	semaphores []*Semaphore
}

// Wait blocks until the submission completed and releases the cycle's
// synchronization objects.
func (f *frameFlush) Wait() error {
	err := f.fence.Wait()
	f.release()
	return err
}

func (f *frameFlush) release() {
	if f.fence != nil {
		f.fence.Destroy()
		f.fence = nil
	}
	for _, s := range f.semaphores {
		s.Destroy()
	}
	f.semaphores = nil
}
