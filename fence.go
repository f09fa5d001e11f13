package vkframe

import (
	"time"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

// CreateFence creates an unsignaled fence.
func (d *Device) CreateFence() (*Fence, error) {
	return d.CreateFenceWithState(false)
}

func (d *Device) CreateFenceWithState(signaled bool) (*Fence, error) {
	createInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		createInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if err := vk.Error(vk.CreateFence(d.VKDevice, &createInfo, nil, &fence)); err != nil {
		return nil, errors.Wrap(err, "create fence")
	}
	return &Fence{Device: d, VKFence: fence}, nil
}

// WaitForFences blocks until one or all fences signal or timeout passes. A
// negative timeout waits forever.
func (d *Device) WaitForFences(waitForAll bool, timeout time.Duration, fences ...*Fence) error {
	f := make([]vk.Fence, len(fences))
	for i := range fences {
		f[i] = fences[i].VKFence
	}
	wait := vk.Bool32(vk.False)
	if waitForAll {
		wait = vk.True
	}
	ns := uint64(vk.MaxUint64)
	if timeout >= 0 {
		ns = uint64(timeout.Nanoseconds())
	}
	res := vk.WaitForFences(d.VKDevice, uint32(len(f)), f, wait, ns)
	if res == vk.Timeout {
		return errors.Errorf("fence wait timed out after %s", timeout)
	}
	return checkResult("wait for fences", res)
}

// Wait blocks until f signals.
func (f *Fence) Wait() error {
	return f.Device.WaitForFences(true, -1, f)
}

func (f *Fence) Reset() error {
	return checkResult("reset fence", vk.ResetFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}))
}

// Signaled reports whether the fence is currently signaled.
func (f *Fence) Signaled() bool {
	return vk.GetFenceStatus(f.Device.VKDevice, f.VKFence) == vk.Success
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
