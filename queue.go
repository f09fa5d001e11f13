package vkframe

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

func (q *Queue) WaitIdle() error {
	return checkResult("wait queue idle", vk.QueueWaitIdle(q.VKQueue))
}

func commandBufferHandles(buffers []*CommandBuffer) []vk.CommandBuffer {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}
	return b
}

// SubmitWaitIdle submits buffers and blocks until the queue drains.
func (q *Queue) SubmitWaitIdle(buffers ...*CommandBuffer) error {
	if err := q.SubmitWithFence(nil, buffers...); err != nil {
		return err
	}
	return q.WaitIdle()
}

// SubmitWithFence submits buffers, signaling fence when they complete. fence
// may be nil.
func (q *Queue) SubmitWithFence(fence *Fence, buffers ...*CommandBuffer) error {
	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(buffers)),
		PCommandBuffers:    commandBufferHandles(buffers),
	}
	f := vk.NullFence
	if fence != nil {
		f = fence.VKFence
	}
	return checkResult("queue submit", vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, f))
}

// SubmitSignal submits cb once wait is signaled at stage, then signals signal
// and fence.
func (q *Queue) SubmitSignal(cb *CommandBuffer, wait *Semaphore, stage vk.PipelineStageFlags, signal *Semaphore, fence *Fence) error {
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{wait.VKSemaphore},
		PWaitDstStageMask:    []vk.PipelineStageFlags{stage},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cb.VKCommandBuffer},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{signal.VKSemaphore},
	}
	return checkResult("queue submit", vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, fence.VKFence))
}

// Present queues image index of sc for display once wait is signaled.
func (q *Queue) Present(sc *Swapchain, index uint32, wait *Semaphore) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait.VKSemaphore},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{sc.VKSwapchain},
		PImageIndices:      []uint32{index},
	}
	return checkResult("queue present", vk.QueuePresent(q.VKQueue, &presentInfo))
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device, q.QueueFamily)
}
